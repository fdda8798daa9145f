// Package tac implements the fourth pipeline stage: a flat, textual
// three-address-code intermediate representation emitted from an annotated
// AST, plus the "pretty" numbered listing used for human-facing output.
package tac

import (
	"strconv"
	"strings"
)

// Program is an ordered list of TAC instruction lines, exactly as they would
// be persisted to the `_intermediate.txt` sidecar artifact.
type Program struct {
	Lines []string
}

// String renders the program as newline-terminated TAC text.
func (p *Program) String() string {
	return strings.Join(p.Lines, "\n") + "\n"
}

// Listing renders each line prefixed with a 1-based instruction number,
// matching the original console's numbered TAC display. It is purely a
// display aid — the interpreter never consults it.
func (p *Program) Listing() string {
	var b strings.Builder
	for i, line := range p.Lines {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Labels returns the set of label names defined in the program (lines of the
// form "<name>:").
func (p *Program) Labels() map[string]int {
	out := make(map[string]int)
	for i, line := range p.Lines {
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			out[strings.TrimSuffix(line, ":")] = i
		}
	}
	return out
}
