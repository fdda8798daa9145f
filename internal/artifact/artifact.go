// Package artifact serializes the JSON sidecar files each pipeline stage
// produces and names their paths, validating the AST, annotated-AST and
// symbol-table artifacts against an embedded JSON Schema so a malformed
// artifact is caught at the producer instead of the next stage's reader.
package artifact

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/symtab"
	"github.com/bora-lang/bora/internal/token"
)

//go:embed schema_ast.json
var astSchemaSrc []byte

//go:embed schema_annotated_ast.json
var annotatedASTSchemaSrc []byte

//go:embed schema_symbol_table.json
var symbolTableSchemaSrc []byte

var (
	astSchema          = mustCompile("ast.json", astSchemaSrc)
	annotatedASTSchema = mustCompile("annotated_ast.json", annotatedASTSchemaSrc)
	symbolTableSchema  = mustCompile("symbol_table.json", symbolTableSchemaSrc)
)

func mustCompile(name string, src []byte) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(string(src))); err != nil {
		panic(fmt.Sprintf("artifact: invalid embedded schema %s: %v", name, err))
	}
	schema, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("artifact: schema %s failed to compile: %v", name, err))
	}
	return schema
}

// BaseName strips the source extension, matching `<base>.txt` → `<base>`.
func BaseName(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext)
}

// Names of the sidecar artifact files produced alongside <base>.txt.
func TokensPath(base string) string       { return base + "_tokens.json" }
func ASTPath(base string) string          { return base + "_ast.json" }
func AnnotatedASTPath(base string) string { return base + "_annotated_ast.json" }
func SymbolTablePath(base string) string  { return base + "_symbol_table.json" }
func IntermediatePath(base string) string { return base + "_intermediate.txt" }

// MarshalAST serializes root and validates it against the plain-AST schema.
func MarshalAST(root *ast.Node) ([]byte, error) {
	return marshalAndValidate(root, astSchema)
}

// MarshalAnnotatedAST serializes root (already annotated by the semantic
// stage) and validates it against the annotated-AST schema.
func MarshalAnnotatedAST(root *ast.Node) ([]byte, error) {
	return marshalAndValidate(root, annotatedASTSchema)
}

func marshalAndValidate(root *ast.Node, schema *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal AST: %w", err)
	}
	if err := validate(schema, data); err != nil {
		return nil, fmt.Errorf("AST artifact failed schema validation: %w", err)
	}
	return data, nil
}

// crossRefWire mirrors the cross-reference JSON shape keyed by name.
type crossRefWire struct {
	Type    string `json:"type"`
	Address int    `json:"address"`
	Lines   []int  `json:"lines"`
}

// MarshalSymbolTable serializes table's cross-reference entries, keyed by
// name, and validates the result against the symbol-table schema.
func MarshalSymbolTable(table *symtab.Table) ([]byte, error) {
	wire := make(map[string]crossRefWire)
	for _, xref := range table.CrossRefs() {
		wire[xref.Name] = crossRefWire{Type: string(xref.Type), Address: xref.Address, Lines: xref.Lines}
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal symbol table: %w", err)
	}
	if err := validate(symbolTableSchema, data); err != nil {
		return nil, fmt.Errorf("symbol table artifact failed schema validation: %w", err)
	}
	return data, nil
}

// tokenWire mirrors the optional tokens sidecar shape; unlike the AST and
// symbol-table artifacts, this one has no pinned schema, so it
// is marshaled directly without validation.
type tokenWire struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// MarshalTokens serializes a token stream for the optional tokens sidecar.
func MarshalTokens(toks []token.Token) ([]byte, error) {
	wire := make([]tokenWire, len(toks))
	for i, t := range toks {
		wire[i] = tokenWire{Kind: t.Kind.String(), Lexeme: t.Lexeme, Line: t.Line, Column: t.Column}
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tokens: %w", err)
	}
	return data, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode for validation: %w", err)
	}
	return schema.Validate(v)
}
