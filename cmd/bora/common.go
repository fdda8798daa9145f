package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/clog"
	"github.com/bora-lang/bora/internal/config"
	"github.com/bora-lang/bora/internal/diag"
	"github.com/bora-lang/bora/internal/interp"
	"github.com/bora-lang/bora/internal/lexer"
	"github.com/bora-lang/bora/internal/parser"
	"github.com/bora-lang/bora/internal/semantic"
	"github.com/bora-lang/bora/internal/symtab"
	"github.com/bora-lang/bora/internal/tac"
	"github.com/bora-lang/bora/internal/token"
)

// resolveConfig loads the project's .bora.yaml (if any) next to sourcePath
// and applies any non-zero CLI overrides on top of it.
func resolveConfig(sourcePath string, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(sourcePath)
	if err != nil {
		return cfg, err
	}
	if flags.budget > 0 {
		cfg.InstructionBudget = flags.budget
	}
	if flags.identLimit > 0 {
		cfg.IdentLimit = flags.identLimit
	}
	return cfg, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// printDiags writes every diagnostic to stderr and reports whether any of
// them are errors (every severity the pipeline raises is an error; there is
// no warning tier), matching the CLI surface's "diagnostics go to the error
// stream" contract.
func printDiags(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	return len(diags) > 0
}

// timingReport logs each stage's wall-clock duration through clog as the
// stage completes, matching the original console's per-stage timing
// display; it is a no-op wrapper when verbose logging is off.
type timingReport struct {
	log *clog.Logger
}

func newTimingReport(log *clog.Logger) *timingReport {
	return &timingReport{log: log}
}

func (t *timingReport) track(name string, fn func()) {
	if t == nil {
		fn()
		return
	}
	start := time.Now()
	fn()
	t.log.Stage(name, time.Since(start))
}

// pipelineResult carries every artifact produced by a (possibly partial)
// run of the five stages, so each stage subcommand can write just the
// sidecars that stage produces.
type pipelineResult struct {
	tokens    []token.Token
	root      *ast.Node
	annotated *ast.Node
	table     *symtab.Table
	program   *tac.Program
	state     *interp.State
	diags     []diag.Diagnostic
}

// runStages executes stages up to and including `through` ("lex", "parse",
// "sem", "ir", "run"), stopping early once a stage reports diagnostics,
// since a later stage consuming a broken artifact would only cascade noise.
func runStages(src string, cfg config.Config, through string, stdin io.Reader, timing *timingReport) pipelineResult {
	var res pipelineResult

	timing.track("lex", func() {
		toks, diags := lexer.New(src, lexer.WithIdentLimit(cfg.IdentLimit)).Tokens()
		res.tokens = toks
		res.diags = append(res.diags, diags...)
	})
	if through == "lex" || len(res.diags) > 0 {
		return res
	}

	timing.track("parse", func() {
		root, diags := parser.New(res.tokens).Parse()
		res.root = root
		res.diags = append(res.diags, diags...)
	})
	if through == "parse" || len(res.diags) > 0 {
		return res
	}

	timing.track("sem", func() {
		result := semantic.New().Analyze(res.root)
		res.annotated = result.Root
		res.table = result.Table
		res.diags = append(res.diags, result.Diags...)
	})
	if through == "sem" || len(res.diags) > 0 {
		return res
	}

	timing.track("ir", func() {
		res.program = tac.New().Generate(res.annotated)
	})
	if through == "ir" {
		return res
	}

	timing.track("run", func() {
		res.state = interp.New(interp.WithInstructionBudget(cfg.InstructionBudget)).Run(res.program.Lines, stdin)
		res.diags = append(res.diags, res.state.Diags...)
	})
	return res
}

// writeArtifact is a no-op when artifacts are disabled, letting every
// call site stay unconditional.
func writeArtifact(enabled bool, path string, data []byte) error {
	if !enabled {
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
