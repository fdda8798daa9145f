package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/artifact"
	"github.com/bora-lang/bora/internal/lexer"
	"github.com/bora-lang/bora/internal/parser"
	"github.com/bora-lang/bora/internal/semantic"
)

func TestBaseNameStripsSourceExtension(t *testing.T) {
	require.Equal(t, "/tmp/prog", artifact.BaseName("/tmp/prog.txt"))
}

func TestArtifactPaths(t *testing.T) {
	base := "prog"
	require.Equal(t, "prog_tokens.json", artifact.TokensPath(base))
	require.Equal(t, "prog_ast.json", artifact.ASTPath(base))
	require.Equal(t, "prog_annotated_ast.json", artifact.AnnotatedASTPath(base))
	require.Equal(t, "prog_symbol_table.json", artifact.SymbolTablePath(base))
	require.Equal(t, "prog_intermediate.txt", artifact.IntermediatePath(base))
}

func TestMarshalASTValidatesAgainstSchema(t *testing.T) {
	toks, _ := lexer.New(`main { int x; x = 1; }`).Tokens()
	root, diags := parser.New(toks).Parse()
	require.Empty(t, diags)
	data, err := artifact.MarshalAST(root)
	require.NoError(t, err)
	require.Contains(t, string(data), `"node_type"`)
}

func TestMarshalAnnotatedASTValidatesAgainstSchema(t *testing.T) {
	toks, _ := lexer.New(`main { int x; x = 1; }`).Tokens()
	root, _ := parser.New(toks).Parse()
	res := semantic.New().Analyze(root)
	data, err := artifact.MarshalAnnotatedAST(res.Root)
	require.NoError(t, err)
	require.Contains(t, string(data), `"semantic_type"`)
}

func TestMarshalSymbolTableValidatesAgainstSchema(t *testing.T) {
	toks, _ := lexer.New(`main { int x; x = 1; }`).Tokens()
	root, _ := parser.New(toks).Parse()
	res := semantic.New().Analyze(root)
	data, err := artifact.MarshalSymbolTable(res.Table)
	require.NoError(t, err)
	require.Contains(t, string(data), `"x"`)
	require.Contains(t, string(data), `"address"`)
}
