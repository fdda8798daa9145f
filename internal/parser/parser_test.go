package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/lexer"
	"github.com/bora-lang/bora/internal/parser"
	"github.com/bora-lang/bora/internal/token"
)

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, diags := lexer.New(src).Tokens()
	require.Empty(t, diags)
	return toks
}

func TestParsesDeclarationAssignmentAndOutput(t *testing.T) {
	_, diags := parser.New(mustLex(t, `main { int x; x = 1; cout << x; }`)).Parse()
	require.Empty(t, diags)
}

func TestMissingSemicolonRaisesSyntaxErrorAndRecovers(t *testing.T) {
	_, diags := parser.New(mustLex(t, `main { int x x = 1; cout << x; }`)).Parse()
	require.NotEmpty(t, diags)
}

func TestUnexpectedTokenSuggestsNearestKeyword(t *testing.T) {
	_, diags := parser.New(mustLex(t, `main { int x; whille x == 1 cout << x; end }`)).Parse()
	require.NotEmpty(t, diags)

	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "did you mean") {
			found = true
		}
	}
	require.True(t, found, "expected a did-you-mean suggestion, got %v", diags)
}

func TestDuplicateErrorsAtSamePositionAreSuppressed(t *testing.T) {
	// Two back-to-back malformed declarations at the parser's recovery point
	// should not produce a cascade of identical diagnostics.
	_, diags := parser.New(mustLex(t, `main { int ; int ; }`)).Parse()
	seen := map[string]int{}
	for _, d := range diags {
		seen[d.String()]++
	}
	for key, count := range seen {
		require.Equal(t, 1, count, "diagnostic %q repeated", key)
	}
}
