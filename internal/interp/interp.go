// Package interp implements the fifth pipeline stage: an interpreter that
// executes a TAC program against an input stream, producing an output log
// and final variable state.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bora-lang/bora/internal/diag"
)

// DefaultInstructionBudget bounds runaway loops; it is overridable via
// Option or the `.bora.yaml` `instructionBudget` setting.
const DefaultInstructionBudget = 100000

// Value is the tagged runtime value an interpreter variable can hold.
type Value struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Bool bool
	Str  string
}

// ValueKind tags the active field of a Value.
type ValueKind int

const (
	VNone ValueKind = iota
	VInt
	VFloat
	VBool
	VString
)

// String renders v the way WRITE emits it: integers and floats print their
// natural decimal form, booleans as true/false, strings without quotes.
func (v Value) String() string {
	switch v.Kind {
	case VInt:
		return strconv.FormatInt(v.Int, 10)
	case VFloat:
		return formatFloatForDisplay(v.Flt)
	case VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VString:
		return v.Str
	default:
		return ""
	}
}

// formatFloatForDisplay matches the original runtime's numeric emit rule: a
// float with no fractional part prints without a trailing ".0".
func formatFloatForDisplay(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v Value) truthy() bool {
	switch v.Kind {
	case VBool:
		return v.Bool
	case VInt:
		return v.Int != 0
	case VFloat:
		return v.Flt != 0
	default:
		return false
	}
}

// State is the interpreter's runtime state, returned after Run completes.
type State struct {
	vars   map[string]Value
	order  []string // DECLARE order, for deterministic Variables() output
	Output []string
	Diags  []diag.Diagnostic
	Steps  int
	Halted bool
}

// Variables returns the final value of every variable the program assigned,
// temporaries included, as a map keyed by name — the "final memory dump" the
// original console showed at the end of a run. VariableOrder gives the
// DECLAREd names in declaration order.
func (s *State) Variables() map[string]Value {
	out := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// VariableOrder returns declared variable names in DECLARE order.
func (s *State) VariableOrder() []string {
	return append([]string(nil), s.order...)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithInstructionBudget overrides DefaultInstructionBudget.
func WithInstructionBudget(n int) Option {
	return func(in *Interpreter) { in.budget = n }
}

// Interpreter executes a TAC program (as a slice of instruction lines)
// against an input reader, writing WRITE output into its State.
type Interpreter struct {
	budget int
}

// New creates an Interpreter with the default instruction budget.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{budget: DefaultInstructionBudget}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes lines against in, reading READ input from in and returning
// the resulting State.
func (ip *Interpreter) Run(lines []string, in io.Reader) *State {
	st := &State{vars: make(map[string]Value)}
	labels := resolveLabels(lines)
	reader := bufio.NewReader(in)

	pc := 0
	for pc < len(lines) {
		if st.Steps >= ip.budget {
			st.addDiag(0, 0, "instruction budget of %d exceeded", ip.budget)
			break
		}
		st.Steps++
		line := strings.TrimSpace(lines[pc])
		next, halt := ip.step(st, line, pc, labels, reader)
		if halt {
			st.Halted = true
			break
		}
		pc = next
	}
	return st
}

func (s *State) addDiag(line, col int, format string, args ...any) {
	s.Diags = append(s.Diags, diag.Diagnostic{Severity: diag.Runtime, Message: fmt.Sprintf(format, args...), Line: line, Column: col})
}

func resolveLabels(lines []string) map[string]int {
	out := make(map[string]int)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, " ") {
			out[strings.TrimSuffix(trimmed, ":")] = i
		}
	}
	return out
}

// step executes one instruction at pc and returns the next program counter
// (meaningless when halt is true).
func (ip *Interpreter) step(st *State, line string, pc int, labels map[string]int, in *bufio.Reader) (next int, halt bool) {
	switch {
	case line == "", strings.HasPrefix(line, "#"):
		return pc + 1, false

	case strings.HasSuffix(line, ":") && !strings.Contains(line, " "):
		return pc + 1, false

	case line == "HALT":
		return 0, true

	case strings.HasPrefix(line, "DECLARE "):
		ip.execDeclare(st, line)
		return pc + 1, false

	case strings.HasPrefix(line, "READ "):
		ip.execRead(st, line, in)
		return pc + 1, false

	case strings.HasPrefix(line, "WRITE "):
		ip.execWrite(st, line)
		return pc + 1, false

	case strings.HasPrefix(line, "GOTO "):
		target := strings.TrimSpace(strings.TrimPrefix(line, "GOTO "))
		idx, ok := labels[target]
		if !ok {
			st.addDiag(0, 0, "unknown label %q", target)
			return pc + 1, false
		}
		return idx, false

	case strings.HasPrefix(line, "IF_FALSE "):
		rest := strings.TrimPrefix(line, "IF_FALSE ")
		gotoIdx := strings.Index(rest, " GOTO ")
		if gotoIdx == -1 {
			st.addDiag(0, 0, "malformed IF_FALSE instruction %q", line)
			return pc + 1, false
		}
		cond := rest[:gotoIdx]
		target := strings.TrimSpace(rest[gotoIdx+len(" GOTO "):])
		v := ip.eval(st, cond)
		if !v.truthy() {
			idx, ok := labels[target]
			if !ok {
				st.addDiag(0, 0, "unknown label %q", target)
				return pc + 1, false
			}
			return idx, false
		}
		return pc + 1, false

	default:
		ip.execAssign(st, line)
		return pc + 1, false
	}
}
