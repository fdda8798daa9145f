package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/token"
)

func kindsOf(toks []token.Token) []token.Kind {
	kinds := make([]token.Kind, len(toks))
	for i, t := range toks {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestLexerBasicProgram(t *testing.T) {
	src := `main { int a; float b; a = 7; b = a / 2; cout << b; }`
	toks, diags := New(src).Tokens()
	require.Empty(t, diags)

	want := []token.Kind{
		token.KEYWORD, token.DELIMITER, // main {
		token.KEYWORD, token.IDENTIFIER, token.DELIMITER, // int a ;
		token.KEYWORD, token.IDENTIFIER, token.DELIMITER, // float b ;
		token.IDENTIFIER, token.ASSIGN_OP, token.INT, token.DELIMITER, // a = 7 ;
		token.IDENTIFIER, token.ASSIGN_OP, token.IDENTIFIER, token.ARITH_OP, token.INT, token.DELIMITER,
		token.KEYWORD, token.STREAM_OP, token.IDENTIFIER, token.DELIMITER, // cout << b ;
		token.DELIMITER, // }
	}
	if diff := cmp.Diff(want, kindsOf(toks)); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenWellFormedness(t *testing.T) {
	src := "int total;\ntotal = 12 + 3;\n"
	toks, diags := New(src).Tokens()
	require.Empty(t, diags)
	for _, tok := range toks {
		lines := splitKeepLines(src)
		line := lines[tok.Line-1]
		got := line[tok.Column-1 : tok.Column-1+len(tok.Lexeme)]
		require.Equal(t, tok.Lexeme, got, "token %+v does not round-trip to source", tok)
	}
}

func splitKeepLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, src[start:])
	return lines
}

func TestCommentsExcludedFromTokenStream(t *testing.T) {
	src := "int a; // trailing comment\n/* block\ncomment */ a = 1;"
	toks, diags := New(src).Tokens()
	require.Empty(t, diags)
	for _, tok := range toks {
		require.NotEqual(t, token.COMMENT_SINGLE, tok.Kind)
		require.NotEqual(t, token.COMMENT_MULTI, tok.Kind)
	}
}

func TestPartialFloatResumesScanning(t *testing.T) {
	toks, diags := New("3.abc").Tokens()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "incomplete floating-point number")
	require.Equal(t, token.PARTIAL_FLOAT, toks[0].Kind)
	require.Equal(t, "3.abc", toks[0].Lexeme)
	require.Equal(t, token.IDENTIFIER, toks[1].Kind)
	require.Equal(t, "abc", toks[1].Lexeme)
}

func TestUnclosedStringIsDiagnosedNotFatal(t *testing.T) {
	toks, diags := New("cout << \"hello;").Tokens()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "unclosed string")
	require.Len(t, toks, 3)
}

func TestIdentifierTooLong(t *testing.T) {
	long := "a23456789012345678901234567890123" // 33 chars
	_, diags := New(long).Tokens()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "exceeds maximum length")
}

func TestMismatchDoesNotAbortScan(t *testing.T) {
	toks, diags := New("a = 1 $ b = 2;").Tokens()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "unrecognized character")
	// scanning continues past the mismatch
	require.Condition(t, func() bool {
		for _, tk := range toks {
			if tk.Lexeme == "b" {
				return true
			}
		}
		return false
	})
}

func TestKeywordPrefixIsStillIdentifier(t *testing.T) {
	toks, _ := New("ifdef").Tokens()
	require.Len(t, toks, 1)
	require.Equal(t, token.IDENTIFIER, toks[0].Kind)
}

func TestStreamOperatorsLexedAsStreamOp(t *testing.T) {
	toks, _ := New("cin >> x; cout << x;").Tokens()
	var streamOps int
	for _, tk := range toks {
		if tk.Kind == token.STREAM_OP {
			streamOps++
		}
	}
	require.Equal(t, 2, streamOps)
}
