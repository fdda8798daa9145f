// Package symtab implements the flat, process-wide symbol table and
// cross-reference table the semantic analyzer builds while walking the AST.
package symtab

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/bora-lang/bora/internal/ast"
)

// Symbol is one declared variable.
type Symbol struct {
	Name          string
	Type          ast.SemType // TInt, TFloat, or TBool
	DeclaredLine  int
	DeclaredCol   int
	IsInitialized bool
	ConstValue    *ast.Literal // present only when every assignment so far was statically computable
	Address       int
}

// CrossRef is the per-name cross-reference entry.
type CrossRef struct {
	Name    string
	Type    ast.SemType
	Address int
	Lines   []int // sorted ascending, de-duplicated
}

// Table is the flat symbol/cross-reference table for one compilation.
type Table struct {
	symbols  map[string]*Symbol
	order    []string // declaration order, for deterministic Render/JSON output
	nextAddr int
	touched  map[string]map[int]struct{}
}

// New creates an empty Table. Addresses start at 1.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol), nextAddr: 1}
}

// Declare inserts a new symbol. Returns false if name is already declared
// (the caller is responsible for turning that into a diagnostic — the table
// itself has no notion of errors).
func (t *Table) Declare(name string, typ ast.SemType, line, col int) (*Symbol, bool) {
	if _, exists := t.symbols[name]; exists {
		return t.symbols[name], false
	}
	sym := &Symbol{
		Name:         name,
		Type:         typ,
		DeclaredLine: line,
		DeclaredCol:  col,
		Address:      t.nextAddr,
	}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	t.nextAddr++
	return sym, true
}

// Lookup returns the symbol for name, or nil if undeclared.
func (t *Table) Lookup(name string) *Symbol {
	return t.symbols[name]
}

// Touch records that name was referenced on line — used to build the
// cross-reference table's line set, independent of whether the reference was
// a read, a write, or a cin/cout target.
func (t *Table) Touch(name string, line int) {
	t.lines(name)[line] = struct{}{}
}

func (t *Table) lines(name string) map[int]struct{} {
	if t.touched == nil {
		t.touched = make(map[string]map[int]struct{})
	}
	if t.touched[name] == nil {
		t.touched[name] = make(map[int]struct{})
	}
	return t.touched[name]
}

// CrossRefs returns the cross-reference table, one entry per declared name,
// sorted by address.
func (t *Table) CrossRefs() []CrossRef {
	out := make([]CrossRef, 0, len(t.order))
	for _, name := range t.order {
		sym := t.symbols[name]
		lineSet := t.touched[name]
		lines := make([]int, 0, len(lineSet))
		for l := range lineSet {
			lines = append(lines, l)
		}
		sort.Ints(lines)
		out = append(out, CrossRef{Name: sym.Name, Type: sym.Type, Address: sym.Address, Lines: lines})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Names returns declared names in declaration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Render writes a human-readable cross-reference report, matching the
// original IDE's console table of name/type/address/lines.
func (t *Table) Render(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tADDRESS\tLINES")
	for _, xref := range t.CrossRefs() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", xref.Name, xref.Type, xref.Address, xref.Lines)
	}
	tw.Flush()
}
