// Package lexer implements the first pipeline stage: it turns Bora source
// text into a token sequence, recording lexical errors alongside rather than
// aborting on bad input.
//
// The scan is an ordered-pattern, left-to-right match: at every position the
// patterns below are tried in the declared order and the first match wins.
// This is deliberately not longest-match-first — the grammar this
// lexer ports freezes the ordering, and changing it would change which token
// a borderline input (e.g. a keyword prefix of a longer identifier) produces.
package lexer

import (
	"github.com/bora-lang/bora/internal/diag"
	"github.com/bora-lang/bora/internal/token"
)

const maxIdentLen = 31

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithIdentLimit overrides the maximum accepted identifier length.
func WithIdentLimit(n int) Option {
	return func(l *Lexer) { l.identLimit = n }
}

// Lexer scans a fixed source buffer into tokens on demand.
type Lexer struct {
	src        []byte
	pos        int // byte offset
	line       int
	col        int
	identLimit int

	// commentRegions records [start, end) byte ranges covered by comments so
	// that later matches falling inside one can be recognized and filtered,
	// comments are not discarded during
	// scanning but tracked as regions.
	commentRegions [][2]int

	diags diag.Bag
}

// New creates a Lexer over src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{
		src:        []byte(src),
		line:       1,
		col:        1,
		identLimit: maxIdentLen,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokens scans the entire source and returns the filtered token stream (no
// WHITESPACE, NEWLINE, or comment tokens) along with any lexical diagnostics.
func (l *Lexer) Tokens() ([]token.Token, []diag.Diagnostic) {
	var out []token.Token
	for {
		tok := l.next()
		if tok.Kind == token.EOF {
			break
		}
		switch tok.Kind {
		case token.WHITESPACE, token.NEWLINE, token.COMMENT_SINGLE, token.COMMENT_MULTI:
			continue
		}
		out = append(out, tok)
	}
	return out, l.diags.Items()
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) insideComment(pos int) bool {
	for _, r := range l.commentRegions {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// next scans exactly one token, trying the ordered pattern list.
func (l *Lexer) next() token.Token {
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Line: l.line, Column: l.col}
	}

	startLine, startCol, startOff := l.line, l.col, l.pos
	c := l.peek()

	switch {
	case c == '/' && l.peekAt(1) == '*':
		return l.lexMultiLineComment(startLine, startCol)
	case c == '/' && l.peekAt(1) == '/':
		return l.lexSingleLineComment(startLine, startCol)
	case c == '"':
		return l.lexString(startLine, startCol)
	case c == '\'':
		return l.lexChar(startLine, startCol)
	case isDigit(c):
		return l.lexNumber(startLine, startCol)
	case isIdentStart(c):
		return l.lexIdentOrKeyword(startLine, startCol)
	case c == '&' && l.peekAt(1) == '&':
		l.advance()
		l.advance()
		return l.mk(token.LOGIC_OP, "&&", startLine, startCol)
	case c == '|' && l.peekAt(1) == '|':
		l.advance()
		l.advance()
		return l.mk(token.LOGIC_OP, "||", startLine, startCol)
	case c == '!' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.REL_OP, "!=", startLine, startCol)
	case c == '!':
		l.advance()
		return l.mk(token.LOGIC_OP, "!", startLine, startCol)
	case c == '+' && l.peekAt(1) == '+':
		l.advance()
		l.advance()
		return l.mk(token.INCREMENT_OP, "++", startLine, startCol)
	case c == '-' && l.peekAt(1) == '-':
		l.advance()
		l.advance()
		return l.mk(token.DECREMENT_OP, "--", startLine, startCol)
	case c == '+' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "+=", startLine, startCol)
	case c == '-' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "-=", startLine, startCol)
	case c == '*' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "*=", startLine, startCol)
	case c == '/' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "/=", startLine, startCol)
	case c == '%' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "%=", startLine, startCol)
	case c == '^' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.ASSIGN_OP, "^=", startLine, startCol)
	case c == '<' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.REL_OP, "<=", startLine, startCol)
	case c == '>' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.REL_OP, ">=", startLine, startCol)
	case c == '=' && l.peekAt(1) == '=':
		l.advance()
		l.advance()
		return l.mk(token.REL_OP, "==", startLine, startCol)
	case c == '<' && l.peekAt(1) == '<':
		l.advance()
		l.advance()
		return l.mk(token.STREAM_OP, "<<", startLine, startCol)
	case c == '>' && l.peekAt(1) == '>':
		l.advance()
		l.advance()
		return l.mk(token.STREAM_OP, ">>", startLine, startCol)
	case c == '<':
		l.advance()
		return l.mk(token.REL_OP, "<", startLine, startCol)
	case c == '>':
		l.advance()
		return l.mk(token.REL_OP, ">", startLine, startCol)
	case c == '=':
		l.advance()
		return l.mk(token.ASSIGN_OP, "=", startLine, startCol)
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '%' || c == '^':
		l.advance()
		return l.mk(token.ARITH_OP, string(c), startLine, startCol)
	case isDelimiter(c):
		l.advance()
		return l.mk(token.DELIMITER, string(c), startLine, startCol)
	case c == '\n':
		l.advance()
		return l.mk(token.NEWLINE, "\n", startLine, startCol)
	case c == ' ' || c == '\t' || c == '\r':
		for !l.atEnd() && (l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\r') {
			l.advance()
		}
		return l.mk(token.WHITESPACE, string(l.src[startOff:l.pos]), startLine, startCol)
	default:
		l.advance()
		l.diags.Add(diag.Lexical, startLine, startCol, "unrecognized character %q", c)
		return l.mk(token.MISMATCH, string(c), startLine, startCol)
	}
}

func (l *Lexer) mk(kind token.Kind, lexeme string, line, col int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ':', ';':
		return true
	}
	return false
}

func (l *Lexer) lexMultiLineComment(line, col int) token.Token {
	start := l.pos
	l.advance()
	l.advance() // consume "/*"
	closed := false
	for !l.atEnd() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			closed = true
			break
		}
		l.advance()
	}
	if !closed {
		l.diags.Add(diag.Lexical, line, col, "unterminated multi-line comment")
	}
	l.commentRegions = append(l.commentRegions, [2]int{start, l.pos})
	return l.mk(token.COMMENT_MULTI, string(l.src[start:l.pos]), line, col)
}

func (l *Lexer) lexSingleLineComment(line, col int) token.Token {
	start := l.pos
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	l.commentRegions = append(l.commentRegions, [2]int{start, l.pos})
	return l.mk(token.COMMENT_SINGLE, string(l.src[start:l.pos]), line, col)
}

func (l *Lexer) lexString(line, col int) token.Token {
	start := l.pos
	l.advance() // opening quote
	var closed bool
	for !l.atEnd() {
		c := l.peek()
		if c == '\\' {
			l.advance()
			if !l.atEnd() {
				l.advance()
			}
			continue
		}
		if c == '\n' {
			break
		}
		if c == '"' {
			l.advance()
			closed = true
			break
		}
		l.advance()
	}
	if !closed {
		l.diags.Add(diag.Lexical, line, col, "unclosed string")
	}
	return l.mk(token.STRING, string(l.src[start:l.pos]), line, col)
}

func (l *Lexer) lexChar(line, col int) token.Token {
	start := l.pos
	l.advance() // opening quote
	if !l.atEnd() && l.peek() == '\\' {
		l.advance()
	}
	if !l.atEnd() {
		l.advance()
	}
	closed := false
	if !l.atEnd() && l.peek() == '\'' {
		l.advance()
		closed = true
	}
	if !closed {
		l.diags.Add(diag.Lexical, line, col, "unclosed character literal")
	}
	return l.mk(token.CHAR, string(l.src[start:l.pos]), line, col)
}

func (l *Lexer) lexNumber(line, col int) token.Token {
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	if l.atEnd() || l.peek() != '.' {
		return l.mk(token.INT, string(l.src[start:l.pos]), line, col)
	}

	// Consume the dot; what follows decides FLOAT vs PARTIAL_FLOAT.
	dotPos := l.pos
	l.advance()
	digitsAfterDot := 0
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
		digitsAfterDot++
	}
	if digitsAfterDot == 0 {
		// No digits after the dot at all: PARTIAL_FLOAT, resume right after
		// the dot so any trailing suffix is re-scanned as its own token(s).
		return l.finishPartialFloat(start, dotPos+1, line, col)
	}

	// Optional exponent.
	if !l.atEnd() && (l.peek() == 'e' || l.peek() == 'E') {
		save := l.pos
		saveLine, saveCol := l.line, l.col
		l.advance()
		if !l.atEnd() && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
		expDigits := 0
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
			expDigits++
		}
		if expDigits == 0 {
			// Not a valid exponent suffix; back out to before 'e'/'E'.
			l.pos, l.line, l.col = save, saveLine, saveCol
		}
	}

	// If an identifier-ish suffix immediately follows the numeric text (e.g.
	// "3.14abc"), the whole run is a PARTIAL_FLOAT error carrier.
	if !l.atEnd() && (isIdentStart(l.peek()) || isDigit(l.peek())) {
		return l.finishPartialFloat(start, l.pos, line, col)
	}

	return l.mk(token.FLOAT, string(l.src[start:l.pos]), line, col)
}

// finishPartialFloat consumes the error suffix `[a-zA-Z_\d]*` after a bad
// float, reports the diagnostic, then rewinds the cursor to resumeAt so the
// suffix is rescanned as fresh tokens.
func (l *Lexer) finishPartialFloat(start, resumeAt, line, col int) token.Token {
	for !l.atEnd() && (isIdentCont(l.peek())) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	l.diags.Add(diag.Lexical, line, col, "incomplete floating-point number %q", lexeme)

	// Rewind to resumeAt, recomputing line/column by rescanning consumed
	// newlines between start and resumeAt (numbers never contain them, so
	// this is always a no-op in practice, but keeps position bookkeeping
	// correct if that ever changes).
	l.pos = resumeAt
	l.line, l.col = lineColAt(l.src, resumeAt, line, col, start)
	return token.Token{Kind: token.PARTIAL_FLOAT, Lexeme: lexeme, Line: line, Column: col}
}

func lineColAt(src []byte, target int, fromLine, fromCol, fromOffset int) (int, int) {
	line, col := fromLine, fromCol
	for i := fromOffset; i < target; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func (l *Lexer) lexIdentOrKeyword(line, col int) token.Token {
	start := l.pos
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if len(text) > l.identLimit {
		l.diags.Add(diag.Lexical, line, col, "identifier %q exceeds maximum length of %d", text, l.identLimit)
	}
	if token.IsKeyword(text) {
		return l.mk(token.KEYWORD, text, line, col)
	}
	return l.mk(token.IDENTIFIER, text, line, col)
}

