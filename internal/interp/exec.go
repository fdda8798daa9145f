package interp

import (
	"bufio"
	"strconv"
	"strings"
)

func (ip *Interpreter) execDeclare(st *State, line string) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		st.addDiag(0, 0, "malformed DECLARE instruction %q", line)
		return
	}
	name, typ := fields[1], fields[2]
	var v Value
	switch typ {
	case "int":
		v = Value{Kind: VInt}
	case "float":
		v = Value{Kind: VFloat}
	case "bool":
		v = Value{Kind: VBool}
	default:
		v = Value{Kind: VNone}
	}
	if _, exists := st.vars[name]; !exists {
		st.order = append(st.order, name)
	}
	st.vars[name] = v
}

func (ip *Interpreter) execRead(st *State, line string, in *bufio.Reader) {
	name := strings.TrimSpace(strings.TrimPrefix(line, "READ "))
	text, err := in.ReadString('\n')
	text = strings.TrimRight(text, "\r\n")
	if err != nil && text == "" {
		st.addDiag(0, 0, "READ %s: end of input", name)
		st.vars[name] = Value{Kind: VInt, Int: 0}
		return
	}
	st.vars[name] = parseReadValue(text)
}

func parseReadValue(text string) Value {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Value{Kind: VInt, Int: i}
	}
	if strings.Contains(text, ".") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Value{Kind: VFloat, Flt: f}
		}
	}
	return Value{Kind: VString, Str: text}
}

func (ip *Interpreter) execWrite(st *State, line string) {
	expr := strings.TrimSpace(strings.TrimPrefix(line, "WRITE "))
	v := ip.eval(st, expr)
	st.Output = append(st.Output, v.String())
}

// execAssign handles "<dest> = <operand>" and "<dest> = ..." forms by
// splitting on the first " = ".
func (ip *Interpreter) execAssign(st *State, line string) {
	idx := strings.Index(line, " = ")
	if idx == -1 {
		st.addDiag(0, 0, "unrecognized instruction %q", line)
		return
	}
	dest := strings.TrimSpace(line[:idx])
	rhs := strings.TrimSpace(line[idx+len(" = "):])
	st.vars[dest] = ip.eval(st, rhs)
}
