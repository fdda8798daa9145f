package parser

import (
	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/token"
)

// expresion → expresion_simple ( (rel_op | log_op) expresion )?
//
// The grammar keeps relational and logical operators at a single flat,
// right-recursive level rather than splitting them into two precedence
// tiers; this is preserved exactly as specified.
func (p *Parser) expresion() *ast.Node {
	left := p.expresionSimple()
	t := p.cur()
	if t.Kind == token.REL_OP || t.Kind == token.LOGIC_OP {
		opTok := p.advance()
		right := p.expresion()
		return ast.New(ast.KindExpresionRelacional, opTok.Lexeme, opTok.Line, opTok.Column, left, right)
	}
	return left
}

// expresion_simple → termino (('+'|'-') termino)*
func (p *Parser) expresionSimple() *ast.Node {
	left := p.termino()
	for p.checkAny("+", "-") && p.cur().Kind == token.ARITH_OP {
		opTok := p.advance()
		right := p.termino()
		left = ast.New(ast.KindExpresionSimple, opTok.Lexeme, opTok.Line, opTok.Column, left, right)
	}
	return left
}

// termino → factor (('*'|'/'|'%') factor)*
func (p *Parser) termino() *ast.Node {
	left := p.factor()
	for p.checkAny("*", "/", "%") && p.cur().Kind == token.ARITH_OP {
		opTok := p.advance()
		right := p.factor()
		left = ast.New(ast.KindTermino, opTok.Lexeme, opTok.Line, opTok.Column, left, right)
	}
	return left
}

// factor → componente ('^' componente)*, right-associative.
func (p *Parser) factor() *ast.Node {
	left := p.componente()
	if p.check(token.ARITH_OP, "^") {
		opTok := p.advance()
		right := p.factor() // right-recursion gives right-associativity
		return ast.New(ast.KindFactor, opTok.Lexeme, opTok.Line, opTok.Column, left, right)
	}
	return left
}

// componente → '(' expresion ')' | INT | FLOAT | IDENT
//
//	| 'true' | 'false' | STRING | '!' componente
func (p *Parser) componente() *ast.Node {
	t := p.cur()
	switch {
	case t.Kind == token.DELIMITER && t.Lexeme == "(":
		p.advance()
		inner := p.expresion()
		p.expect(token.DELIMITER, ")", "parenthesized expression")
		return inner

	case t.Kind == token.INT || t.Kind == token.FLOAT:
		p.advance()
		return ast.New(ast.KindNumero, t.Lexeme, t.Line, t.Column)

	case t.Kind == token.IDENTIFIER:
		p.advance()
		return ast.New(ast.KindId, t.Lexeme, t.Line, t.Column)

	case t.Kind == token.KEYWORD && (t.Lexeme == "true" || t.Lexeme == "false"):
		p.advance()
		return ast.New(ast.KindBool, t.Lexeme, t.Line, t.Column)

	case t.Kind == token.STRING:
		p.advance()
		return ast.New(ast.KindCadena, t.Lexeme, t.Line, t.Column)

	case t.Kind == token.LOGIC_OP && t.Lexeme == "!":
		p.advance()
		operand := p.componente()
		return ast.New(ast.KindExpresionLogica, "!", t.Line, t.Column, operand)

	default:
		p.errorHere("expression")
		errn := errNode(t.Line, t.Column)
		if !p.atEnd() {
			p.advance()
		}
		return errn
	}
}
