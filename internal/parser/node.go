// Package parser provides the syntax-tree contract consumed by the
// structural diff engine, implemented over tree-sitter grammars.
// The engine itself never calls tree-sitter directly; it only sees the
// Node interface, so a new grammar plugs in with a kind/name mapping.
package parser

// Kind classifies a declaration-bearing node. It is computed once at
// extraction time so the comparer and matchers never inspect grammar
// node types directly.
type Kind string

const (
	KindNamespace   Kind = "namespace"
	KindType        Kind = "type"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindProperty    Kind = "property"
	KindField       Kind = "field"
	KindEnumMember  Kind = "enum_member"
	KindEvent       Kind = "event"
	KindDelegate    Kind = "delegate"
	KindOther       Kind = "other"

	// KindParameter is never produced by extraction; the impact
	// classifier uses it to flag renames that break named arguments.
	KindParameter Kind = "parameter"

	// KindLine and KindFile are synthetic kinds used only by the
	// line-level fallback differ.
	KindLine Kind = "line"
	KindFile Kind = "file"
)

// IsDeclaration reports whether the kind participates in identity matching.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindNamespace, KindType, KindMethod, KindConstructor,
		KindProperty, KindField, KindEnumMember, KindEvent, KindDelegate:
		return true
	}
	return false
}

// IsOverloadable reports whether two declarations of this kind may share a
// name and must be disambiguated by signature.
func (k Kind) IsOverloadable() bool {
	return k == KindMethod || k == KindConstructor || k == KindDelegate
}

// Span is a 1-based inclusive source range.
type Span struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
}

// Node is a read-only view of one syntax-tree node. Implementations are
// immutable and safe for concurrent reads.
type Node interface {
	// Kind is the declaration classification, KindOther for nodes the
	// grammar mapping does not recognize as declarations.
	Kind() Kind

	// Name is the declared identifier, empty for anonymous constructs.
	Name() string

	// Signature is the normalized parameter-list text for overloadable
	// kinds, empty otherwise.
	Signature() string

	// Span is the node's source range.
	Span() Span

	// Text is the full source slice of the node, formatting included.
	Text() string

	// TextNoTrivia is the source slice with comments removed and
	// whitespace runs collapsed. Used for whitespace-insensitive
	// equivalence checks.
	TextNoTrivia() string

	// Modifiers lists declared modifier keywords (public, static, ...)
	// in source order. Empty for grammars without modifiers.
	Modifiers() []string

	// Children returns the immediate named child nodes.
	Children() []Node

	// Parent returns the enclosing node, nil at the root.
	Parent() Node
}
