//go:build cgo

package parser

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"

	"structdiff/internal/errors"
)

// Parser wraps tree-sitter for multi-language parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source code and returns the root Node for the given grammar.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (Node, error) {
	g, tsLang, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.ParseFailed, "parsing "+string(lang)+" source", err)
	}

	return &tsNode{inner: tree.RootNode(), src: source, g: g}, nil
}

// ParseFile parses a file's contents with the grammar detected from its path.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (Node, error) {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return nil, errors.Newf(errors.UnsupportedLanguage, "no grammar registered for %s", path)
	}
	return p.Parse(ctx, source, lang)
}

func grammarFor(lang Language) (*grammar, *sitter.Language, error) {
	switch lang {
	case LangCSharp:
		return csharpGrammar, csharp.GetLanguage(), nil
	case LangGo:
		return goGrammar, golang.GetLanguage(), nil
	default:
		return nil, nil, errors.Newf(errors.UnsupportedLanguage, "unsupported language: %s", lang)
	}
}

// grammar holds the per-language mapping from raw tree-sitter node types to
// the Node contract. Everything grammar-specific lives here.
type grammar struct {
	kindOf       func(nodeType string) Kind
	nameOf       func(n *sitter.Node, src []byte) string
	commentTypes map[string]bool
}

type tsNode struct {
	inner *sitter.Node
	src   []byte
	g     *grammar
}

func (t *tsNode) Kind() Kind {
	return t.g.kindOf(t.inner.Type())
}

func (t *tsNode) Name() string {
	return t.g.nameOf(t.inner, t.src)
}

func (t *tsNode) Signature() string {
	if !t.Kind().IsOverloadable() {
		return ""
	}
	params := t.inner.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	return collapseWhitespace(params.Content(t.src))
}

func (t *tsNode) Span() Span {
	start := t.inner.StartPoint()
	end := t.inner.EndPoint()
	return Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

func (t *tsNode) Text() string {
	return t.inner.Content(t.src)
}

func (t *tsNode) TextNoTrivia() string {
	text := []byte(t.Text())
	base := t.inner.StartByte()

	// Cut comment ranges out of the slice, back to front so offsets stay valid.
	var comments []*sitter.Node
	collectByType(t.inner, t.g.commentTypes, &comments)
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].StartByte() > comments[j].StartByte()
	})
	for _, c := range comments {
		lo := c.StartByte() - base
		hi := c.EndByte() - base
		text = append(text[:lo], text[hi:]...)
	}

	return collapseWhitespace(string(text))
}

func (t *tsNode) Modifiers() []string {
	var mods []string
	for i := 0; i < int(t.inner.ChildCount()); i++ {
		child := t.inner.Child(i)
		if child.Type() == "modifier" {
			mods = append(mods, strings.TrimSpace(child.Content(t.src)))
		}
	}
	return mods
}

func (t *tsNode) Children() []Node {
	count := int(t.inner.NamedChildCount())
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, &tsNode{inner: t.inner.NamedChild(i), src: t.src, g: t.g})
	}
	return children
}

func (t *tsNode) Parent() Node {
	p := t.inner.Parent()
	if p == nil {
		return nil
	}
	return &tsNode{inner: p, src: t.src, g: t.g}
}

func collectByType(n *sitter.Node, types map[string]bool, out *[]*sitter.Node) {
	if types[n.Type()] {
		*out = append(*out, n)
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectByType(n.Child(i), types, out)
	}
}

// collapseWhitespace reduces every run of whitespace to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// --- C# grammar mapping ---

var csharpGrammar = &grammar{
	kindOf:       csharpKind,
	nameOf:       csharpName,
	commentTypes: map[string]bool{"comment": true},
}

func csharpKind(nodeType string) Kind {
	switch nodeType {
	case "namespace_declaration", "file_scoped_namespace_declaration":
		return KindNamespace
	case "class_declaration", "struct_declaration", "interface_declaration",
		"record_declaration", "enum_declaration":
		return KindType
	case "method_declaration", "operator_declaration", "conversion_operator_declaration":
		return KindMethod
	case "constructor_declaration", "destructor_declaration":
		return KindConstructor
	case "property_declaration", "indexer_declaration":
		return KindProperty
	case "field_declaration":
		return KindField
	case "enum_member_declaration":
		return KindEnumMember
	case "event_declaration", "event_field_declaration":
		return KindEvent
	case "delegate_declaration":
		return KindDelegate
	default:
		return KindOther
	}
}

func csharpName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "field_declaration", "event_field_declaration":
		// Co-declared variables contribute only the first declarator's name.
		decl := firstDescendantOfType(n, "variable_declarator")
		if decl == nil {
			return ""
		}
		if name := decl.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
		if decl.NamedChildCount() > 0 {
			return decl.NamedChild(0).Content(src)
		}
		return ""
	case "indexer_declaration":
		return "this[]"
	}

	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return firstIdentifier(n, src)
}

// --- Go grammar mapping ---

var goGrammar = &grammar{
	kindOf:       goKind,
	nameOf:       goName,
	commentTypes: map[string]bool{"comment": true},
}

func goKind(nodeType string) Kind {
	switch nodeType {
	case "function_declaration", "method_declaration":
		return KindMethod
	case "type_declaration":
		return KindType
	case "const_declaration", "var_declaration":
		return KindField
	default:
		return KindOther
	}
}

func goName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "type_declaration":
		spec := firstDescendantOfType(n, "type_spec")
		if spec == nil {
			spec = firstDescendantOfType(n, "type_alias")
		}
		if spec != nil {
			if name := spec.ChildByFieldName("name"); name != nil {
				return name.Content(src)
			}
		}
		return ""
	case "const_declaration", "var_declaration":
		// First declared identifier only, matching the field rule.
		for _, specType := range []string{"const_spec", "var_spec"} {
			if spec := firstDescendantOfType(n, specType); spec != nil {
				if name := spec.ChildByFieldName("name"); name != nil {
					return name.Content(src)
				}
			}
		}
		return ""
	}

	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return firstIdentifier(n, src)
}

// --- shared tree helpers ---

func firstDescendantOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
		if found := firstDescendantOfType(child, nodeType); found != nil {
			return found
		}
	}
	return nil
}

func firstIdentifier(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}
