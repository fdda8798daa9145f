package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, following the same os.Pipe swap the wider
// ecosystem's CLI tests use to assert on console output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunCommandPrintsCoutOutput(t *testing.T) {
	path := writeSource(t, `main { int x; x = 5; cout << x; }`)

	var runErr error
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"run", "--artifacts=false", path})
		runErr = root.Execute()
	})

	require.NoError(t, runErr)
	assert.Equal(t, "5\n", out)
}

func TestLexCommandWritesTokensArtifact(t *testing.T) {
	path := writeSource(t, `main { int x; x = 1; }`)

	root := newRootCmd()
	root.SetArgs([]string{"lex", path})
	require.NoError(t, root.Execute())

	base := path[:len(path)-len(filepath.Ext(path))]
	data, err := os.ReadFile(base + "_tokens.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind"`)
}

func TestPipelineCommandFailsOnSemanticError(t *testing.T) {
	path := writeSource(t, `main { int x; y = 1; }`)

	root := newRootCmd()
	root.SetArgs([]string{"pipeline", "--artifacts=false", path})
	err := root.Execute()

	require.Error(t, err)
}

func TestSemCommandWritesSymbolTableArtifact(t *testing.T) {
	path := writeSource(t, `main { int x; x = 1; }`)

	root := newRootCmd()
	root.SetArgs([]string{"sem", path})
	require.NoError(t, root.Execute())

	base := path[:len(path)-len(filepath.Ext(path))]
	data, err := os.ReadFile(base + "_symbol_table.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"x"`)
}
