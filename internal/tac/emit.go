package tac

import (
	"fmt"

	"github.com/bora-lang/bora/internal/ast"
)

// Emitter walks an annotated AST and lowers it into a Program, allocating
// temporaries and labels as it goes. A fresh Emitter is needed per program.
type Emitter struct {
	prog      Program
	nextTemp  int
	nextLabel int
}

// New creates an Emitter ready to lower a single program.
func New() *Emitter {
	return &Emitter{}
}

// Generate lowers root (the parser's "programa" node) into a complete TAC
// program, including the preamble/postamble and final HALT.
func (e *Emitter) Generate(root *ast.Node) *Program {
	e.emit("# Inicio del Programa")
	if root != nil {
		if body := root.Body(); body != nil {
			e.stmt(body)
		}
	}
	e.emit("# Fin del Programa")
	e.emit("HALT")
	return &e.prog
}

func (e *Emitter) emit(line string) {
	e.prog.Lines = append(e.prog.Lines, line)
}

func (e *Emitter) temp() string {
	t := fmt.Sprintf("t%d", e.nextTemp)
	e.nextTemp++
	return t
}

func (e *Emitter) label() string {
	l := fmt.Sprintf("L%d", e.nextLabel)
	e.nextLabel++
	return l
}

func (e *Emitter) stmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindError:
		return
	case ast.KindDeclaracionVariable:
		e.declaracion(n)
	case ast.KindPrograma:
		switch n.Value {
		case "decl+init":
			e.declaracion(n.Child(0))
			for _, asg := range n.Children[1:] {
				e.stmt(asg)
			}
		default: // "block"
			for _, child := range n.Children {
				e.stmt(child)
			}
		}
	case ast.KindAsignacion:
		e.asignacion(n)
	case ast.KindSeleccion:
		e.seleccion(n)
	case ast.KindIteracion:
		e.iteracion(n)
	case ast.KindRepeticion:
		e.repeticion(n)
	case ast.KindSentIn:
		e.sentIn(n)
	case ast.KindSentOut:
		e.sentOut(n)
	}
}

func (e *Emitter) declaracion(n *ast.Node) {
	if n == nil {
		return
	}
	typ := n.DeclType()
	for _, name := range n.DeclNames() {
		e.emit(fmt.Sprintf("DECLARE %s %s", name.Value, typ.Value))
	}
}

func (e *Emitter) asignacion(n *ast.Node) {
	if n.Value == "noop" {
		return
	}
	target := n.AssignTarget()
	rhs := n.AssignRHS()
	if rhs.Kind == ast.KindCadena {
		e.emit(fmt.Sprintf("%s = %s", target.Value, rhs.Value))
		return
	}
	result := e.expr(rhs)
	e.emit(fmt.Sprintf("%s = %s", target.Value, result))
}

func (e *Emitter) seleccion(n *ast.Node) {
	lElse := e.label()
	lEnd := e.label()
	t := e.expr(n.Condition())
	e.emit(fmt.Sprintf("IF_FALSE %s GOTO %s", t, lElse))
	e.stmt(n.ThenBlock())
	e.emit(fmt.Sprintf("GOTO %s", lEnd))
	e.emit(lElse + ":")
	if n.HasElse() {
		e.stmt(n.ElseBlock())
	}
	e.emit(lEnd + ":")
}

func (e *Emitter) iteracion(n *ast.Node) {
	lStart := e.label()
	lEnd := e.label()
	e.emit(lStart + ":")
	t := e.expr(n.WhileCondition())
	e.emit(fmt.Sprintf("IF_FALSE %s GOTO %s", t, lEnd))
	e.stmt(n.WhileBody())
	e.emit(fmt.Sprintf("GOTO %s", lStart))
	e.emit(lEnd + ":")
}

func (e *Emitter) repeticion(n *ast.Node) {
	lStart := e.label()
	e.emit(lStart + ":")
	e.stmt(n.DoBody())
	t := e.expr(n.UntilCondition())
	e.emit(fmt.Sprintf("IF_FALSE %s GOTO %s", t, lStart))
}

func (e *Emitter) sentIn(n *ast.Node) {
	for _, id := range n.Children[1:] {
		e.emit(fmt.Sprintf("READ %s", id.Value))
	}
}

func (e *Emitter) sentOut(n *ast.Node) {
	for _, operand := range n.Children[1:] {
		if operand.Kind == ast.KindCadena {
			e.emit(fmt.Sprintf("WRITE %s", operand.Value))
			continue
		}
		result := e.expr(operand)
		e.emit(fmt.Sprintf("WRITE %s", result))
	}
}

// expr lowers an expression subtree and returns the name (variable or
// temporary) or literal spelling holding its result.
func (e *Emitter) expr(n *ast.Node) string {
	if n == nil {
		return "0"
	}
	switch n.Kind {
	case ast.KindId, ast.KindNumero, ast.KindBool:
		return n.Value
	case ast.KindCadena:
		return n.Value
	case ast.KindExpresionSimple, ast.KindTermino, ast.KindFactor, ast.KindExpresionRelacional:
		left := e.expr(n.Child(0))
		right := e.expr(n.Child(1))
		t := e.temp()
		e.emit(fmt.Sprintf("%s = %s %s %s", t, left, n.Value, right))
		return t
	case ast.KindExpresionLogica:
		v := e.expr(n.Child(0))
		t := e.temp()
		e.emit(fmt.Sprintf("%s = ! %s", t, v))
		return t
	case ast.KindError:
		return "0"
	default:
		return "0"
	}
}
