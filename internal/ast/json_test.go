package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/lexer"
	"github.com/bora-lang/bora/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, diags := lexer.New(src).Tokens()
	require.Empty(t, diags)
	root, diags := parser.New(toks).Parse()
	require.Empty(t, diags)
	return root
}

func TestASTRoundTripsThroughJSON(t *testing.T) {
	root := parseProgram(t, `main { int x; float y; x = 1; y = x + 2.5; cout << y; }`)

	data, err := json.Marshal(root)
	require.NoError(t, err)
	require.Contains(t, string(data), `"node_type"`)

	back, err := ast.ParseJSON(data)
	require.NoError(t, err)
	require.True(t, root.Equal(back), "round-tripped tree must equal the original")
}

func TestASTRoundTripPreservesControlFlowShape(t *testing.T) {
	root := parseProgram(t, `main { int n; cin >> n; if n > 0 then cout << "pos"; else cout << "neg"; end }`)

	data, err := json.Marshal(root)
	require.NoError(t, err)
	back, err := ast.ParseJSON(data)
	require.NoError(t, err)
	require.True(t, root.Equal(back))
}
