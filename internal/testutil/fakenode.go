// Package testutil provides test doubles for the engine packages. The
// FakeNode tree satisfies parser.Node without tree-sitter, so the core
// comparison logic stays testable in non-CGO builds.
package testutil

import (
	"strings"

	"structdiff/internal/parser"
)

// FakeNode is an in-memory parser.Node for tests.
type FakeNode struct {
	NodeKind      parser.Kind
	NodeName      string
	NodeSignature string
	NodeText      string
	NodeModifiers []string
	NodeSpan      parser.Span

	Kids   []*FakeNode
	parent *FakeNode
}

// NewFakeNode constructs a leaf node.
func NewFakeNode(kind parser.Kind, name, text string) *FakeNode {
	return &FakeNode{NodeKind: kind, NodeName: name, NodeText: text}
}

// WithSignature sets the overload signature.
func (f *FakeNode) WithSignature(sig string) *FakeNode {
	f.NodeSignature = sig
	return f
}

// WithModifiers sets modifier keywords.
func (f *FakeNode) WithModifiers(mods ...string) *FakeNode {
	f.NodeModifiers = mods
	return f
}

// WithSpan sets the source span.
func (f *FakeNode) WithSpan(startLine, endLine int) *FakeNode {
	f.NodeSpan = parser.Span{StartLine: startLine, StartCol: 1, EndLine: endLine, EndCol: 1}
	return f
}

// Add appends children and wires their parent pointers.
func (f *FakeNode) Add(children ...*FakeNode) *FakeNode {
	for _, c := range children {
		c.parent = f
	}
	f.Kids = append(f.Kids, children...)
	return f
}

func (f *FakeNode) Kind() parser.Kind   { return f.NodeKind }
func (f *FakeNode) Name() string        { return f.NodeName }
func (f *FakeNode) Signature() string   { return f.NodeSignature }
func (f *FakeNode) Span() parser.Span   { return f.NodeSpan }
func (f *FakeNode) Modifiers() []string { return f.NodeModifiers }

// Text returns the node's own text; containers without text of their own
// report the concatenation of their children.
func (f *FakeNode) Text() string {
	if f.NodeText != "" {
		return f.NodeText
	}
	parts := make([]string, 0, len(f.Kids))
	for _, c := range f.Kids {
		parts = append(parts, c.Text())
	}
	return strings.Join(parts, "\n")
}

func (f *FakeNode) TextNoTrivia() string {
	return strings.Join(strings.Fields(f.Text()), " ")
}

func (f *FakeNode) Children() []parser.Node {
	children := make([]parser.Node, len(f.Kids))
	for i, c := range f.Kids {
		children[i] = c
	}
	return children
}

func (f *FakeNode) Parent() parser.Node {
	if f.parent == nil {
		return nil
	}
	return f.parent
}
