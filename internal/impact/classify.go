package impact

import (
	"strings"
	"unicode"

	"structdiff/internal/parser"
	"structdiff/internal/structural"
)

// Caveat strings attached alongside a severity. They flag residual risks
// the severity enum alone does not capture.
const (
	CaveatReflection = "rename may break reflection or serialization lookups that resolve this member by name"
	CaveatNamedArgs  = "parameter rename breaks callers that pass this argument by name"
	CaveatReordering = "reordering only, no scope change"
)

// Options carries the classification inputs that are not part of the
// change itself.
type Options struct {
	// SignatureChange marks a modification that altered a callable's
	// parameter list.
	SignatureChange bool

	// SameScopeMove marks a move that is a pure reordering within the
	// same enclosing declaration.
	SameScopeMove bool
}

// Classify maps one change to its breaking-change severity and caveats.
// The mapping is a pure decision table over (change type, symbol kind,
// visibility) plus the option flags; Added and Removed always classify
// symmetrically.
func Classify(changeType structural.ChangeType, kind parser.Kind, visibility structural.Visibility, opts Options) (structural.Impact, []string) {
	switch changeType {
	case structural.Added, structural.Removed:
		return visibilityImpact(visibility), nil

	case structural.Renamed:
		return classifyRename(kind, visibility)

	case structural.Modified:
		if opts.SignatureChange {
			return visibilityImpact(visibility), nil
		}
		return structural.NonBreaking, nil

	case structural.Moved:
		if opts.SameScopeMove {
			return structural.NonBreaking, []string{CaveatReordering}
		}
		return visibilityImpact(visibility), nil

	default:
		return structural.NonBreaking, nil
	}
}

func classifyRename(kind parser.Kind, visibility structural.Visibility) (structural.Impact, []string) {
	var caveats []string

	if visibility == structural.VisibilityPrivate || visibility == structural.VisibilityPrivateProtected {
		caveats = append(caveats, CaveatReflection)
	}
	if kind == parser.KindParameter || visibility == structural.VisibilityLocal {
		caveats = append(caveats, CaveatNamedArgs)
	}

	return visibilityImpact(visibility), caveats
}

// visibilityImpact is the shared visibility-to-severity mapping.
func visibilityImpact(visibility structural.Visibility) structural.Impact {
	switch visibility {
	case structural.VisibilityPublic, structural.VisibilityProtected, structural.VisibilityProtectedInternal:
		return structural.BreakingPublicAPI
	case structural.VisibilityInternal, structural.VisibilityPrivateProtected:
		return structural.BreakingInternalAPI
	default:
		return structural.NonBreaking
	}
}

// IsFormattingOnly reports whether two texts are identical once all
// whitespace is removed. Callers use it to downgrade cosmetic
// modifications for display without altering the stored severity.
func IsFormattingOnly(oldContent, newContent string) bool {
	return stripWhitespace(oldContent) == stripWhitespace(newContent)
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Annotate walks a change tree and writes severity, visibility, and
// caveats onto every change in place. Line-level fallback changes are
// skipped; they have no declaration semantics to classify.
func Annotate(changes []structural.Change) []structural.Change {
	structural.Walk(changes, func(c *structural.Change) {
		if c.Kind == parser.KindLine || c.Kind == parser.KindFile {
			return
		}

		node := c.NewNode
		if node == nil {
			node = c.OldNode
		}
		if node == nil {
			return
		}

		vis := VisibilityOf(node)

		opts := Options{SameScopeMove: c.SameScopeMove}
		if c.OldNode != nil && c.NewNode != nil && c.Kind.IsOverloadable() {
			opts.SignatureChange = c.OldNode.Signature() != c.NewNode.Signature()
		}

		c.Visibility = vis
		c.Impact, c.Caveats = Classify(c.Type, c.Kind, vis, opts)
	})
	return changes
}
