package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/config"
)

func TestLoadReturnsDefaultsWhenNoFilePresent(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "prog.txt"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadMergesPartialOverrideOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "instructionBudget: 5000\n")
	cfg, err := config.Load(filepath.Join(dir, "prog.txt"))
	require.NoError(t, err)
	require.Equal(t, 5000, cfg.InstructionBudget)
	require.Equal(t, config.Default().IdentLimit, cfg.IdentLimit)
}

func TestLoadSearchesParentDirectories(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "identLimit: 63\n")
	sub := filepath.Join(root, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	cfg, err := config.Load(filepath.Join(sub, "prog.txt"))
	require.NoError(t, err)
	require.Equal(t, 63, cfg.IdentLimit)
}

func TestLoadRejectsUnknownStreamOpKind(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "streamOpKind: weird\n")
	_, err := config.Load(filepath.Join(dir, "prog.txt"))
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveBudget(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "instructionBudget: 0\n")
	_, err := config.Load(filepath.Join(dir, "prog.txt"))
	require.Error(t, err)
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(contents), 0o644))
}
