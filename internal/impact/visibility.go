// Package impact derives accessibility levels for declarations and maps
// each change to a breaking-change severity with advisory caveats.
package impact

import (
	"strings"

	"structdiff/internal/parser"
	"structdiff/internal/structural"
)

// VisibilityOf derives the accessibility level of a declaration from its
// explicit modifiers, falling back to declaration-context defaults when no
// modifier is present. Combined modifiers are checked before singles:
// protected+internal and private+protected form distinct levels.
func VisibilityOf(node parser.Node) structural.Visibility {
	mods := map[string]bool{}
	for _, m := range node.Modifiers() {
		mods[strings.ToLower(m)] = true
	}

	switch {
	case mods["private"] && mods["protected"]:
		return structural.VisibilityPrivateProtected
	case mods["protected"] && mods["internal"]:
		return structural.VisibilityProtectedInternal
	case mods["public"]:
		return structural.VisibilityPublic
	case mods["protected"]:
		return structural.VisibilityProtected
	case mods["internal"]:
		return structural.VisibilityInternal
	case mods["private"]:
		return structural.VisibilityPrivate
	}

	return defaultVisibility(node)
}

// defaultVisibility applies the language defaults for unmodified
// declarations.
func defaultVisibility(node parser.Node) structural.Visibility {
	// Enum members carry no modifiers and are always public.
	if node.Kind() == parser.KindEnumMember {
		return structural.VisibilityPublic
	}

	enclosing := enclosingDeclaration(node)

	// Interface members default to public.
	if enclosing != nil && enclosing.Kind() == parser.KindType && isInterface(enclosing) {
		return structural.VisibilityPublic
	}

	if node.Kind() == parser.KindType || node.Kind() == parser.KindDelegate {
		// Top-level types default to internal, nested types to private.
		if enclosing == nil || enclosing.Kind() == parser.KindNamespace {
			return structural.VisibilityInternal
		}
		return structural.VisibilityPrivate
	}

	return structural.VisibilityPrivate
}

// enclosingDeclaration walks ancestry to the nearest declaration-bearing
// node.
func enclosingDeclaration(node parser.Node) parser.Node {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Kind().IsDeclaration() {
			return n
		}
	}
	return nil
}

// isInterface checks the declaration header syntactically; the kind enum
// folds classes, structs, and interfaces into one Type kind.
func isInterface(node parser.Node) bool {
	header := node.Text()
	if idx := strings.IndexByte(header, '{'); idx >= 0 {
		header = header[:idx]
	}
	for _, tok := range strings.Fields(header) {
		if tok == "interface" {
			return true
		}
	}
	return false
}
