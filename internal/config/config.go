// Package config loads the optional per-project `.bora.yaml` file that sets
// default stage behavior, overridable by CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file the CLI looks for next to the source
// file (and in each parent directory up to the filesystem root).
const FileName = ".bora.yaml"

// StreamOpKind documents which lexical dialect a `.bora.yaml` was written
// against; this port always lexes stream arrows as STREAM_OP (see the design
// notes on the stream-arrow open question) — the field exists so a config
// written for the REL_OP dialect produces a clear diagnostic instead of
// silently changing behavior.
type StreamOpKind string

const (
	StreamOpStream StreamOpKind = "stream"
	StreamOpRel    StreamOpKind = "rel"
)

// Config is the decoded `.bora.yaml` project file.
type Config struct {
	InstructionBudget int          `yaml:"instructionBudget"`
	IdentLimit        int          `yaml:"identLimit"`
	StreamOpKind      StreamOpKind `yaml:"streamOpKind"`
	ArtifactDir       string       `yaml:"artifactDir"`
}

// Default returns the built-in defaults applied when no `.bora.yaml` is
// found, or when a present file omits a field.
func Default() Config {
	return Config{
		InstructionBudget: 100000,
		IdentLimit:        31,
		StreamOpKind:      StreamOpStream,
		ArtifactDir:       "",
	}
}

// Load reads and merges a `.bora.yaml` discovered by searching sourcePath's
// directory and its ancestors. A missing file is not an error — Default() is
// returned unchanged.
func Load(sourcePath string) (Config, error) {
	cfg := Default()
	path, ok := find(filepath.Dir(sourcePath))
	if !ok {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StreamOpKind {
	case StreamOpStream:
	case StreamOpRel:
		return fmt.Errorf("streamOpKind %q is not supported: << and >> are always lexed as STREAM_OP (want %q)", c.StreamOpKind, StreamOpStream)
	default:
		return fmt.Errorf("streamOpKind %q is not a recognized dialect (want %q)", c.StreamOpKind, StreamOpStream)
	}
	if c.InstructionBudget <= 0 {
		return fmt.Errorf("instructionBudget must be positive, got %d", c.InstructionBudget)
	}
	if c.IdentLimit <= 0 {
		return fmt.Errorf("identLimit must be positive, got %d", c.IdentLimit)
	}
	return nil
}

func find(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
