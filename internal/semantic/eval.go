package semantic

import (
	"strconv"
	"strings"

	"github.com/bora-lang/bora/internal/ast"
)

// evalExpr type-checks n, annotates n.SemType (and n.SemValue when the value
// is statically known), and returns the resulting type. A TError result has
// already been diagnosed by this call or one of its children — callers must
// not re-report it.
func (a *Analyzer) evalExpr(n *ast.Node) ast.SemType {
	if n == nil {
		return ast.TError
	}
	switch n.Kind {
	case ast.KindNumero:
		return a.evalNumero(n)
	case ast.KindBool:
		n.SemType = ast.TBool
		n.SemValue = &ast.Literal{Kind: ast.TBool, Bool: n.Value == "true"}
		return ast.TBool
	case ast.KindCadena:
		n.SemType = ast.TStr
		n.SemValue = &ast.Literal{Kind: ast.TStr, Str: n.Value}
		return ast.TStr
	case ast.KindId:
		return a.evalId(n)
	case ast.KindExpresionSimple:
		return a.evalArith(n, n.Value)
	case ast.KindTermino:
		return a.evalArith(n, n.Value)
	case ast.KindFactor:
		return a.evalArith(n, n.Value)
	case ast.KindExpresionRelacional:
		return a.evalRelOrLogic(n)
	case ast.KindExpresionLogica:
		return a.evalUnaryNot(n)
	case ast.KindError:
		n.SemType = ast.TError
		return ast.TError
	default:
		n.SemType = ast.TError
		return ast.TError
	}
}

func (a *Analyzer) evalNumero(n *ast.Node) ast.SemType {
	if strings.ContainsAny(n.Value, ".eE") {
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			n.SemType = ast.TError
			return ast.TError
		}
		n.SemType = ast.TFloat
		n.SemValue = &ast.Literal{Kind: ast.TFloat, Float: f}
		return ast.TFloat
	}
	i, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		n.SemType = ast.TError
		return ast.TError
	}
	n.SemType = ast.TInt
	n.SemValue = &ast.Literal{Kind: ast.TInt, Int: i}
	return ast.TInt
}

func (a *Analyzer) evalId(n *ast.Node) ast.SemType {
	sym := a.table.Lookup(n.Value)
	if sym == nil {
		a.err(n.Line, n.Column, "undeclared %q%s", n.Value, a.didYouMean(n.Value))
		n.SemType = ast.TError
		return ast.TError
	}
	a.table.Touch(n.Value, n.Line)
	if !sym.IsInitialized {
		a.err(n.Line, n.Column, "%q used before being assigned a value", n.Value)
	}
	n.SemType = sym.Type
	n.SemValue = sym.ConstValue
	return sym.Type
}

// evalArith handles expresion_simple/termino/factor: '+','-','*','/','%','^'.
// int op int -> int; any operand float -> float (promotion); '/ '%' by a
// statically-zero divisor is diagnosed here, not deferred to execution.
func (a *Analyzer) evalArith(n *ast.Node, op string) ast.SemType {
	lt := a.evalExpr(n.Child(0))
	rt := a.evalExpr(n.Child(1))
	if lt == ast.TError || rt == ast.TError {
		n.SemType = ast.TError
		return ast.TError
	}
	if !isNumeric(lt) || !isNumeric(rt) {
		a.err(n.Line, n.Column, "operator %q requires numeric operands, got %s and %s", op, lt, rt)
		n.SemType = ast.TError
		return ast.TError
	}
	if op == "%" && (lt != ast.TInt || rt != ast.TInt) {
		a.err(n.Line, n.Column, "operator %q requires int operands, got %s and %s", op, lt, rt)
		n.SemType = ast.TError
		return ast.TError
	}

	result := ast.TInt
	if lt == ast.TFloat || rt == ast.TFloat {
		result = ast.TFloat
	}
	n.SemType = result

	left, right := n.Child(0).SemValue, n.Child(1).SemValue
	if left == nil || right == nil {
		return result
	}
	if (op == "/" || op == "%") && isZero(right) {
		a.err(n.Line, n.Column, "division by zero")
		return result
	}
	n.SemValue = foldArith(op, result, *left, *right)
	return result
}

func isNumeric(t ast.SemType) bool { return t == ast.TInt || t == ast.TFloat }

func isZero(l *ast.Literal) bool {
	switch l.Kind {
	case ast.TInt:
		return l.Int == 0
	case ast.TFloat:
		return l.Float == 0
	default:
		return false
	}
}

func asFloat(l ast.Literal) float64 {
	if l.Kind == ast.TFloat {
		return l.Float
	}
	return float64(l.Int)
}

func foldArith(op string, result ast.SemType, l, r ast.Literal) *ast.Literal {
	if result == ast.TFloat {
		a, b := asFloat(l), asFloat(r)
		var v float64
		switch op {
		case "+":
			v = a + b
		case "-":
			v = a - b
		case "*":
			v = a * b
		case "/":
			v = a / b
		case "^":
			v = pow(a, b)
		default:
			return nil
		}
		return &ast.Literal{Kind: ast.TFloat, Float: v}
	}
	a, b := l.Int, r.Int
	var v int64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/":
		v = a / b
	case "%":
		v = a % b
	case "^":
		v = ipow(a, b)
	default:
		return nil
	}
	return &ast.Literal{Kind: ast.TInt, Int: v}
}

func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	neg := exp < 0
	if neg {
		exp = -exp
	}
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func ipow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// evalRelOrLogic handles the flattened expresion tier: both relational
// (<,>,<=,>=,==,!=) and logical (&&,||) operators land on the same node kind.
func (a *Analyzer) evalRelOrLogic(n *ast.Node) ast.SemType {
	op := n.Value
	lt := a.evalExpr(n.Child(0))
	rt := a.evalExpr(n.Child(1))
	if lt == ast.TError || rt == ast.TError {
		n.SemType = ast.TError
		return ast.TError
	}

	if op == "&&" || op == "||" {
		if lt != ast.TBool || rt != ast.TBool {
			a.err(n.Line, n.Column, "operator %q requires bool operands, got %s and %s", op, lt, rt)
			n.SemType = ast.TError
			return ast.TError
		}
		n.SemType = ast.TBool
		left, right := n.Child(0).SemValue, n.Child(1).SemValue
		if left != nil && right != nil {
			var v bool
			if op == "&&" {
				v = left.Bool && right.Bool
			} else {
				v = left.Bool || right.Bool
			}
			n.SemValue = &ast.Literal{Kind: ast.TBool, Bool: v}
		}
		return ast.TBool
	}

	// relational: == != < > <= >=
	if op == "==" || op == "!=" {
		if lt != rt && !(isNumeric(lt) && isNumeric(rt)) {
			a.err(n.Line, n.Column, "cannot compare %s with %s", lt, rt)
			n.SemType = ast.TError
			return ast.TError
		}
	} else if !isNumeric(lt) || !isNumeric(rt) {
		a.err(n.Line, n.Column, "operator %q requires numeric operands, got %s and %s", op, lt, rt)
		n.SemType = ast.TError
		return ast.TError
	}
	n.SemType = ast.TBool
	left, right := n.Child(0).SemValue, n.Child(1).SemValue
	if left != nil && right != nil {
		if v, ok := foldRel(op, *left, *right); ok {
			n.SemValue = &ast.Literal{Kind: ast.TBool, Bool: v}
		}
	}
	return ast.TBool
}

func foldRel(op string, l, r ast.Literal) (bool, bool) {
	if l.Kind == ast.TBool || r.Kind == ast.TBool {
		if op == "==" {
			return l.Bool == r.Bool, true
		}
		if op == "!=" {
			return l.Bool != r.Bool, true
		}
		return false, false
	}
	a, b := asFloat(l), asFloat(r)
	switch op {
	case "==":
		return a == b, true
	case "!=":
		return a != b, true
	case "<":
		return a < b, true
	case ">":
		return a > b, true
	case "<=":
		return a <= b, true
	case ">=":
		return a >= b, true
	default:
		return false, false
	}
}

func (a *Analyzer) evalUnaryNot(n *ast.Node) ast.SemType {
	operand := n.Child(0)
	t := a.evalExpr(operand)
	if t == ast.TError {
		n.SemType = ast.TError
		return ast.TError
	}
	if t != ast.TBool {
		a.err(n.Line, n.Column, "operator \"!\" requires a bool operand, got %s", t)
		n.SemType = ast.TError
		return ast.TError
	}
	n.SemType = ast.TBool
	if operand.SemValue != nil {
		n.SemValue = &ast.Literal{Kind: ast.TBool, Bool: !operand.SemValue.Bool}
	}
	return ast.TBool
}
