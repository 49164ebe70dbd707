//go:build cgo

package csharp

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"
)

// Parser wraps tree-sitter pinned to the C# grammar.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser ready to parse C# source.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tscsharp.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses C# source and returns the AST root node.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return tree.RootNode(), nil
}

// ChildrenOfType returns the direct children of node whose type is one of
// wantTypes, in document order.
func ChildrenOfType(node *sitter.Node, wantTypes map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if wantTypes[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

// Descendants walks the subtree rooted at node (depth-first, pre-order) and
// invokes visit for every node whose type is one of wantTypes. visit
// returning false stops descent into that node's children.
func Descendants(node *sitter.Node, wantTypes map[string]bool, visit func(*sitter.Node) bool) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		descend := true
		if wantTypes[n.Type()] {
			descend = visit(n)
		}
		if !descend {
			return
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}

// FieldValue returns the text of node's child under the given field name.
func FieldValue(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return string(source[child.StartByte():child.EndByte()])
}

// Modifiers extracts the modifier tokens (public, abstract, static, sealed,
// ...) preceding a declaration node.
func Modifiers(node *sitter.Node, source []byte) []string {
	var mods []string
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child == nil || child.Type() != ModifierNodeType {
			continue
		}
		mods = append(mods, string(source[child.StartByte():child.EndByte()]))
	}
	return mods
}

// HasModifier reports whether mods contains the given modifier keyword.
func HasModifier(mods []string, keyword string) bool {
	for _, m := range mods {
		if m == keyword {
			return true
		}
	}
	return false
}

// Position converts a tree-sitter point (0-indexed) to 1-indexed line/column.
func Position(point sitter.Point) (line, column int) {
	return int(point.Row) + 1, int(point.Column) + 1
}
