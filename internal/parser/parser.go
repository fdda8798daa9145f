// Package parser implements the second pipeline stage: a recursive-descent
// LL(1) parser that turns the filtered token stream into an AST, recovering
// from syntax errors instead of aborting.
package parser

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/diag"
	"github.com/bora-lang/bora/internal/token"
)

// reservedWords is used only to build "did you mean" suggestions on
// unexpected-keyword-ish identifiers; it is not consulted by the grammar.
var reservedWords = []string{
	"if", "else", "end", "do", "while", "switch", "case", "int", "float",
	"main", "cin", "cout", "for", "return", "char", "bool", "real", "then",
	"until", "true", "false",
}

// Parser consumes a token slice and builds an AST, accumulating syntax
// diagnostics in a diag.Bag and recovering at synchronization tokens instead of
// aborting.
type Parser struct {
	toks  []token.Token
	pos   int
	diags diag.Bag
}

// New creates a Parser over an already-lexed, whitespace/comment-filtered
// token stream.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse runs the parser and returns the AST root (possibly containing error
// sentinels) plus any syntax diagnostics. The parser never panics; a
// production always returns either a real subtree or ast.KindError.
func (p *Parser) Parse() (*ast.Node, []diag.Diagnostic) {
	root := p.programa()
	return root, p.diags.Items()
}

// Ok reports whether parsing completed with no diagnostics.
func (p *Parser) Ok() bool { return p.diags.Empty() }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		if len(p.toks) == 0 {
			return token.Token{Kind: token.EOF, Line: 1, Column: 1}
		}
		last := p.toks[len(p.toks)-1]
		return token.Token{Kind: token.EOF, Line: last.Line, Column: last.Column + len(last.Lexeme)}
	}
	return p.toks[p.pos]
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(kind token.Kind, lexeme string) bool {
	t := p.cur()
	return t.Kind == kind && (lexeme == "" || t.Lexeme == lexeme)
}

func (p *Parser) checkAny(lexemes ...string) bool {
	t := p.cur()
	for _, l := range lexemes {
		if t.Lexeme == l {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches, else emits a syntax
// error and returns a zero Token (callers use the ok flag).
func (p *Parser) expect(kind token.Kind, lexeme, context string) (token.Token, bool) {
	if p.check(kind, lexeme) {
		return p.advance(), true
	}
	p.errorHere(context)
	return token.Token{}, false
}

func (p *Parser) errorHere(context string) {
	t := p.cur()
	msg := fmt.Sprintf("unexpected token %q while parsing %s", t.Lexeme, context)
	if suggestion := p.suggest(t.Lexeme); suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
	}
	p.diags.Add(diag.Syntax, t.Line, t.Column, "%s", msg)
}

// suggest returns the closest reserved word to a misspelled token, using
// fuzzy string matching, when the token looks like an attempted keyword.
func (p *Parser) suggest(got string) string {
	if got == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(got, reservedWords)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// synchronize advances until a synchronization token (or EOF) so that
// parsing can resume at the next statement after an error.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		t := p.cur()
		if _, ok := token.SyncSet[t.Lexeme]; ok {
			return
		}
		p.advance()
	}
}

func errNode(line, col int) *ast.Node {
	return ast.New(ast.KindError, "", line, col)
}

// --- programa → 'main' '{' lista_declaracion '}' ---

func (p *Parser) programa() *ast.Node {
	line, col := p.cur().Line, p.cur().Column
	var children []*ast.Node

	mainTok, ok := p.expect(token.KEYWORD, "main", "program header")
	if ok {
		children = append(children, kwNode(mainTok))
	} else {
		p.synchronize()
	}
	lbrace, ok := p.expect(token.DELIMITER, "{", "program header")
	if ok {
		children = append(children, kwNode(lbrace))
	}

	children = append(children, p.listaDeclaracion())

	rbrace, ok := p.expect(token.DELIMITER, "}", "program end")
	if ok {
		children = append(children, kwNode(rbrace))
	}

	return ast.New(ast.KindPrograma, "", line, col, children...)
}

func kwNode(t token.Token) *ast.Node {
	return ast.New(ast.KindKeyword, t.Lexeme, t.Line, t.Column)
}

// lista_declaracion → (declaracion_variable | sentencia)*
func (p *Parser) listaDeclaracion() *ast.Node {
	line, col := p.cur().Line, p.cur().Column
	block := ast.New(ast.KindPrograma, "block", line, col)
	for !p.atEnd() && !p.check(token.DELIMITER, "}") && !p.blockTerminator() {
		before := p.pos
		var n *ast.Node
		if p.isTipo() {
			n = p.declaracionVariable()
		} else {
			n = p.sentencia()
		}
		block.Children = append(block.Children, n)
		if p.pos == before {
			// Guarantee forward progress even if a production consumed
			// nothing (e.g. an immediate unexpected token).
			p.synchronize()
			if p.pos == before {
				p.advance()
			}
		}
	}
	return block
}

// blockTerminator reports whether the current token ends an enclosing
// then/else/while/do block (used by lista_sentencias callers).
func (p *Parser) blockTerminator() bool {
	return p.checkAny("end", "else", "until") || p.check(token.DELIMITER, "}")
}

func (p *Parser) listaSentencias() *ast.Node {
	return p.listaDeclaracion()
}

func (p *Parser) isTipo() bool {
	return p.checkAny("int", "float", "bool")
}

// declaracion_variable → tipo IDENT ('=' expresion)? (',' IDENT ('=' expresion)?)* ';'
//
// The inline-initializer form is additive sugar from the original
// implementation: each initialized identifier yields a synthesized
// asignacion node, and the declaration plus those assignments are grouped
// under a programa node with value "decl+init", which the semantic and TAC
// stages unpack in order. A declaration without initializers is returned as
// a bare declaracion_variable node.
func (p *Parser) declaracionVariable() *ast.Node {
	line, col := p.cur().Line, p.cur().Column
	tipoTok := p.advance()
	tipo := ast.New(ast.KindTipo, tipoTok.Lexeme, tipoTok.Line, tipoTok.Column)

	var names []*ast.Node
	var inits []*ast.Node
	for {
		idTok, ok := p.expect(token.IDENTIFIER, "", "variable declaration")
		if !ok {
			break
		}
		idNode := ast.New(ast.KindId, idTok.Lexeme, idTok.Line, idTok.Column)
		names = append(names, idNode)
		if p.check(token.ASSIGN_OP, "=") {
			eqTok := p.advance()
			rhs := p.expresionOrString()
			inits = append(inits, ast.New(ast.KindAsignacion, "=", idTok.Line, idTok.Column,
				idNode, kwNode(eqTok), rhs))
		}
		if p.check(token.DELIMITER, ",") {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.DELIMITER, ";", "end of variable declaration")

	decl := ast.New(ast.KindDeclaracionVariable, "", line, col, append([]*ast.Node{tipo}, names...)...)
	if len(inits) == 0 {
		return decl
	}
	wrap := ast.New(ast.KindPrograma, "decl+init", line, col, append([]*ast.Node{decl}, inits...)...)
	return wrap
}

// sentencia → seleccion | iteracion | repeticion | sent_in | sent_out | asignacion | ';'
func (p *Parser) sentencia() *ast.Node {
	t := p.cur()
	switch {
	case t.Lexeme == "if":
		return p.seleccion()
	case t.Lexeme == "while":
		return p.iteracion()
	case t.Lexeme == "do":
		return p.repeticion()
	case t.Lexeme == "cin":
		return p.sentIn()
	case t.Lexeme == "cout":
		return p.sentOut()
	case t.Kind == token.DELIMITER && t.Lexeme == ";":
		p.advance()
		return ast.New(ast.KindAsignacion, "noop", t.Line, t.Column)
	case t.Kind == token.IDENTIFIER:
		return p.asignacion()
	default:
		line, col := t.Line, t.Column
		p.errorHere("statement")
		p.synchronize()
		return errNode(line, col)
	}
}

// seleccion → 'if' expresion 'then' lista_sentencias ('else' lista_sentencias)? 'end'
func (p *Parser) seleccion() *ast.Node {
	ifTok := p.advance()
	line, col := ifTok.Line, ifTok.Column
	children := []*ast.Node{kwNode(ifTok)}

	cond := p.expresion()
	children = append(children, cond)

	thenTok, ok := p.expect(token.KEYWORD, "then", "if statement")
	if ok {
		children = append(children, kwNode(thenTok))
	} else {
		children = append(children, errNode(line, col))
	}

	thenBlock := p.listaSentencias()
	children = append(children, thenBlock)

	if p.check(token.KEYWORD, "else") {
		elseTok := p.advance()
		children = append(children, kwNode(elseTok))
		children = append(children, p.listaSentencias())
	}

	endTok, ok := p.expect(token.KEYWORD, "end", "if statement")
	if ok {
		children = append(children, kwNode(endTok))
	}

	return ast.New(ast.KindSeleccion, "", line, col, children...)
}

// iteracion → 'while' expresion lista_sentencias 'end'
func (p *Parser) iteracion() *ast.Node {
	whileTok := p.advance()
	line, col := whileTok.Line, whileTok.Column
	cond := p.expresion()
	body := p.listaSentencias()
	p.expect(token.KEYWORD, "end", "while statement")
	return ast.New(ast.KindIteracion, "", line, col, kwNode(whileTok), cond, body)
}

// repeticion → 'do' lista_sentencias 'until' expresion ';'
func (p *Parser) repeticion() *ast.Node {
	doTok := p.advance()
	line, col := doTok.Line, doTok.Column
	body := p.listaSentencias()
	untilTok, ok := p.expect(token.KEYWORD, "until", "do/until statement")
	var untilNode *ast.Node
	if ok {
		untilNode = kwNode(untilTok)
	} else {
		untilNode = errNode(line, col)
	}
	cond := p.expresion()
	p.expect(token.DELIMITER, ";", "end of do/until statement")
	return ast.New(ast.KindRepeticion, "", line, col, kwNode(doTok), body, untilNode, cond)
}

// sent_in → 'cin' ('>>' IDENT)+ ';'
func (p *Parser) sentIn() *ast.Node {
	cinTok := p.advance()
	line, col := cinTok.Line, cinTok.Column
	children := []*ast.Node{kwNode(cinTok)}
	for p.check(token.STREAM_OP, ">>") {
		p.advance()
		idTok, ok := p.expect(token.IDENTIFIER, "", "cin statement")
		if ok {
			children = append(children, ast.New(ast.KindId, idTok.Lexeme, idTok.Line, idTok.Column))
		}
	}
	p.expect(token.DELIMITER, ";", "end of cin statement")
	return ast.New(ast.KindSentIn, "", line, col, children...)
}

// sent_out → 'cout' ('<<' (STRING | expresion))+ ';'
func (p *Parser) sentOut() *ast.Node {
	coutTok := p.advance()
	line, col := coutTok.Line, coutTok.Column
	children := []*ast.Node{kwNode(coutTok)}
	for p.check(token.STREAM_OP, "<<") {
		p.advance()
		children = append(children, p.expresionOrString())
	}
	p.expect(token.DELIMITER, ";", "end of cout statement")
	return ast.New(ast.KindSentOut, "", line, col, children...)
}

func (p *Parser) expresionOrString() *ast.Node {
	if p.check(token.STRING, "") {
		t := p.advance()
		return ast.New(ast.KindCadena, t.Lexeme, t.Line, t.Column)
	}
	return p.expresion()
}

// asignacion → IDENT ('=' (STRING | expresion) | '++' | '--'
//
//	| ('+='|'-='|'*='|'/='|'%='|'^=') expresion) ';'
//
// Compound operators and increment/decrement desugar here into plain
// asignacion(id, binary_op(id, rhs)) / id = id ± 1 shapes, so every
// later stage only ever deals with simple assignment.
func (p *Parser) asignacion() *ast.Node {
	idTok := p.advance()
	line, col := idTok.Line, idTok.Column
	idNode := ast.New(ast.KindId, idTok.Lexeme, idTok.Line, idTok.Column)

	switch {
	case p.check(token.ASSIGN_OP, "="):
		eq := p.advance()
		rhs := p.expresionOrString()
		p.expect(token.DELIMITER, ";", "end of assignment")
		return ast.New(ast.KindAsignacion, "=", line, col, idNode, kwNode(eq), rhs)

	case p.check(token.INCREMENT_OP, "++"):
		p.advance()
		p.expect(token.DELIMITER, ";", "end of increment")
		return desugarIncDec(idNode, "+", line, col)

	case p.check(token.DECREMENT_OP, "--"):
		p.advance()
		p.expect(token.DELIMITER, ";", "end of decrement")
		return desugarIncDec(idNode, "-", line, col)

	case p.checkAny("+=", "-=", "*=", "/=", "%=", "^="):
		opTok := p.advance()
		rhs := p.expresion()
		p.expect(token.DELIMITER, ";", "end of assignment")
		baseOp := string(opTok.Lexeme[0])
		bin := ast.New(ast.KindExpresionSimple, baseOp, line, col,
			ast.New(ast.KindId, idTok.Lexeme, idTok.Line, idTok.Column), rhs)
		return ast.New(ast.KindAsignacion, "=", line, col, idNode, kwNode(opTok), bin)

	default:
		p.errorHere("assignment")
		p.synchronize()
		return errNode(line, col)
	}
}

func desugarIncDec(idNode *ast.Node, op string, line, col int) *ast.Node {
	one := ast.New(ast.KindNumero, "1", line, col)
	bin := ast.New(ast.KindExpresionSimple, op, line, col,
		ast.New(ast.KindId, idNode.Value, idNode.Line, idNode.Column), one)
	return ast.New(ast.KindAsignacion, "=", line, col, idNode, bin)
}
