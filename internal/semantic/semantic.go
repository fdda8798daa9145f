// Package semantic implements the third pipeline stage: a single top-down
// visitor that builds the symbol/cross-reference table, assigns a
// semantic_type (and, where statically computable, a semantic_value) to
// every expression node, and reports semantic errors without restructuring
// the AST.
package semantic

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/diag"
	"github.com/bora-lang/bora/internal/symtab"
)

// Analyzer walks an AST produced by the parser and annotates it in place.
type Analyzer struct {
	table *symtab.Table
	diags diag.Bag
}

// New creates an Analyzer with a fresh symbol table.
func New() *Analyzer {
	return &Analyzer{table: symtab.New()}
}

// Result is the output of a completed analysis.
type Result struct {
	Root  *ast.Node
	Table *symtab.Table
	Diags []diag.Diagnostic
}

// Analyze visits root (the parser's "programa" node) and returns the
// annotated tree, the symbol table, and any semantic diagnostics.
func (a *Analyzer) Analyze(root *ast.Node) Result {
	if root != nil {
		body := root.Body()
		if body != nil {
			a.visitBlock(body)
		}
	}
	return Result{Root: root, Table: a.table, Diags: a.diags.Items()}
}

func (a *Analyzer) err(line, col int, format string, args ...any) {
	a.diags.Add(diag.Semantic, line, col, format, args...)
}

func (a *Analyzer) visitBlock(block *ast.Node) {
	if block == nil {
		return
	}
	for _, stmt := range block.Children {
		a.visitStmt(stmt)
	}
}

func (a *Analyzer) visitStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindError:
		return
	case ast.KindDeclaracionVariable:
		a.visitDecl(n)
	case ast.KindPrograma: // "block" or "decl+init" wrapper
		switch n.Value {
		case "decl+init":
			a.visitDecl(n.Child(0))
			for _, asg := range n.Children[1:] {
				a.visitStmt(asg)
			}
		default:
			a.visitBlock(n)
		}
	case ast.KindAsignacion:
		a.visitAsignacion(n)
	case ast.KindSeleccion:
		a.visitSeleccion(n)
	case ast.KindIteracion:
		a.visitIteracion(n)
	case ast.KindRepeticion:
		a.visitRepeticion(n)
	case ast.KindSentIn:
		a.visitSentIn(n)
	case ast.KindSentOut:
		a.visitSentOut(n)
	}
}

func (a *Analyzer) visitDecl(n *ast.Node) {
	if n == nil {
		return
	}
	typ := declType(n.DeclType())
	for _, idNode := range n.DeclNames() {
		if _, ok := a.table.Declare(idNode.Value, typ, idNode.Line, idNode.Column); !ok {
			a.err(idNode.Line, idNode.Column, "duplicate declaration of %q", idNode.Value)
		}
		a.table.Touch(idNode.Value, idNode.Line)
	}
}

func declType(tipo *ast.Node) ast.SemType {
	if tipo == nil {
		return ast.TError
	}
	switch tipo.Value {
	case "int":
		return ast.TInt
	case "float":
		return ast.TFloat
	case "bool":
		return ast.TBool
	default:
		return ast.TError
	}
}

func (a *Analyzer) visitAsignacion(n *ast.Node) {
	if n.Value == "noop" {
		return
	}
	target := n.AssignTarget()
	rhs := n.AssignRHS()

	sym := a.table.Lookup(target.Value)
	if sym == nil {
		a.err(target.Line, target.Column, "undeclared %q%s", target.Value, a.didYouMean(target.Value))
		target.SemType = ast.TError
		a.evalExpr(rhs) // still visit to collect nested diagnostics
		return
	}
	a.table.Touch(target.Value, target.Line)
	target.SemType = sym.Type

	rhsType := a.evalExpr(rhs)
	if rhsType == ast.TError {
		return
	}

	if rhsType == ast.TStr {
		// Bora has no string-typed variable; a string literal is only ever
		// legal as a cout operand, never as an assignment RHS.
		a.err(rhs.Line, rhs.Column, "cannot assign string literal to %s %q", sym.Type, sym.Name)
		return
	}

	if sym.Type == rhsType || (sym.Type == ast.TFloat && rhsType == ast.TInt) {
		sym.IsInitialized = true
		sym.ConstValue = rhs.SemValue
		return
	}

	a.err(target.Line, target.Column, "cannot assign %s to %s", rhsType, sym.Type)
	sym.IsInitialized = true
	sym.ConstValue = nil
}

func (a *Analyzer) didYouMean(name string) string {
	ranks := fuzzy.RankFindFold(name, a.table.Names())
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return " (did you mean " + ranks[0].Target + "?)"
}

func (a *Analyzer) visitCondition(cond *ast.Node, line, col int) {
	t := a.evalExpr(cond)
	if t != ast.TBool && t != ast.TError {
		a.err(line, col, "condition must be bool, got %s", t)
	}
}

func (a *Analyzer) visitSeleccion(n *ast.Node) {
	cond := n.Condition()
	a.visitCondition(cond, n.Line, n.Column)
	a.visitStmt(n.ThenBlock())
	if n.HasElse() {
		a.visitStmt(n.ElseBlock())
	}
}

func (a *Analyzer) visitIteracion(n *ast.Node) {
	cond := n.WhileCondition()
	a.visitCondition(cond, n.Line, n.Column)
	a.visitStmt(n.WhileBody())
}

func (a *Analyzer) visitRepeticion(n *ast.Node) {
	a.visitStmt(n.DoBody())
	cond := n.UntilCondition()
	a.visitCondition(cond, n.Line, n.Column)
}

func (a *Analyzer) visitSentIn(n *ast.Node) {
	for _, idNode := range n.Children[1:] {
		sym := a.table.Lookup(idNode.Value)
		if sym == nil {
			a.err(idNode.Line, idNode.Column, "undeclared %q%s", idNode.Value, a.didYouMean(idNode.Value))
			idNode.SemType = ast.TError
			continue
		}
		a.table.Touch(idNode.Value, idNode.Line)
		sym.IsInitialized = true
		sym.ConstValue = nil
		idNode.SemType = sym.Type
	}
}

func (a *Analyzer) visitSentOut(n *ast.Node) {
	for _, operand := range n.Children[1:] {
		if operand.Kind == ast.KindCadena {
			operand.SemType = ast.TStr
			continue
		}
		a.evalExpr(operand)
	}
}
