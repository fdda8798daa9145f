package ast

import "encoding/json"

// wireNode is the on-disk JSON shape: node_type/value/line/column/children, plus
// the semantic stage's optional annotations.
type wireNode struct {
	NodeType     string          `json:"node_type"`
	Value        *string         `json:"value"`
	Line         *int            `json:"line"`
	Column       *int            `json:"column"`
	Children     []*wireNode     `json:"children"`
	SemanticType *string         `json:"semantic_type,omitempty"`
	SemanticVal  json.RawMessage `json:"semantic_value,omitempty"`
}

// MarshalJSON serializes n into the artifact wire shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toWire())
}

func (n *Node) toWire() *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{NodeType: n.Kind.String(), Children: make([]*wireNode, 0, len(n.Children))}
	if n.Value != "" {
		v := n.Value
		w.Value = &v
	}
	line, col := n.Line, n.Column
	w.Line, w.Column = &line, &col
	for _, c := range n.Children {
		w.Children = append(w.Children, c.toWire())
	}
	if n.SemType != TNone {
		st := string(n.SemType)
		w.SemanticType = &st
	}
	if n.SemValue != nil {
		raw, _ := json.Marshal(literalWire(*n.SemValue))
		w.SemanticVal = raw
	}
	return w
}

// literalWire mirrors Literal as a plain JSON value rather than its typed
// struct, so "semantic_value" reads as a scalar in the artifact, not an
// object with four mostly-empty fields.
func literalWire(l Literal) any {
	switch l.Kind {
	case TInt:
		return l.Int
	case TFloat:
		return l.Float
	case TBool:
		return l.Bool
	case TStr:
		return l.Str
	default:
		return nil
	}
}

// UnmarshalJSON reconstructs a Node from the wire shape. Because
// semantic_value on the wire is an untyped scalar, round-tripping it exactly
// requires the semantic_type sibling field to know which Literal.Kind to
// reconstruct — this is why ParseJSON (not a bare json.Unmarshal) is the
// supported entry point for the round-trip property test.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = *w.toNode()
	return nil
}

func (w *wireNode) toNode() *Node {
	if w == nil {
		return nil
	}
	n := &Node{Kind: kindFromString(w.NodeType)}
	if w.Value != nil {
		n.Value = *w.Value
	}
	if w.Line != nil {
		n.Line = *w.Line
	}
	if w.Column != nil {
		n.Column = *w.Column
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, c.toNode())
	}
	if w.SemanticType != nil {
		n.SemType = SemType(*w.SemanticType)
	}
	if len(w.SemanticVal) > 0 && n.SemType != TNone && n.SemType != TError {
		var raw any
		_ = json.Unmarshal(w.SemanticVal, &raw)
		lit := Literal{Kind: n.SemType}
		switch v := raw.(type) {
		case float64:
			if n.SemType == TInt {
				lit.Int = int64(v)
			} else {
				lit.Float = v
			}
		case bool:
			lit.Bool = v
		case string:
			lit.Str = v
		}
		n.SemValue = &lit
	}
	return n
}

func kindFromString(s string) Kind {
	for k := KindPrograma; k <= KindError; k++ {
		if k.String() == s {
			return k
		}
	}
	return KindError
}

// ParseJSON parses the AST wire shape back into a Node tree.
func ParseJSON(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Equal reports structural equality of kind, value, position and children;
// SemType/SemValue are never compared. Used by the round-trip property test, which compares
// a freshly parsed tree (no semantic annotation) against itself.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Value != o.Value || n.Line != o.Line || n.Column != o.Column {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
