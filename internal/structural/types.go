// Package structural implements declaration-level comparison of two syntax
// trees. It extracts declaration-bearing nodes one level at a time, matches
// them by identity key, and recursively produces a hierarchical change list.
package structural

import (
	"github.com/google/uuid"

	"structdiff/internal/parser"
)

// ChangeType describes what happened to a declaration between versions.
type ChangeType string

const (
	Added     ChangeType = "added"
	Removed   ChangeType = "removed"
	Modified  ChangeType = "modified"
	Unchanged ChangeType = "unchanged"
	Moved     ChangeType = "moved"
	Renamed   ChangeType = "renamed"
)

// Impact is the breaking-change severity assigned by the impact classifier.
// Empty until the classifier pass runs.
type Impact string

const (
	BreakingPublicAPI   Impact = "breaking_public_api"
	BreakingInternalAPI Impact = "breaking_internal_api"
	NonBreaking         Impact = "non_breaking"
	FormattingOnly      Impact = "formatting_only"
)

// Visibility is the accessibility level derived for a declaration.
type Visibility string

const (
	VisibilityPublic            Visibility = "public"
	VisibilityProtected         Visibility = "protected"
	VisibilityProtectedInternal Visibility = "protected_internal"
	VisibilityInternal          Visibility = "internal"
	VisibilityPrivateProtected  Visibility = "private_protected"
	VisibilityPrivate           Visibility = "private"
	VisibilityLocal             Visibility = "local"
)

// Location is a source span plus the display path label for its side.
type Location struct {
	Path string `json:"path,omitempty"`
	parser.Span
}

// Change is the primary output artifact of a comparison. Changes are
// created by the comparer (or by the semantic pass as rewrites) and then
// annotated in place by the impact classifier; after the pipeline returns
// they are treated as immutable.
type Change struct {
	// ID is a synthetic identifier assigned at creation. The semantic
	// rewrite keys its replacement map on it; node identity is not
	// meaningful across grammars.
	ID string `json:"id"`

	Type ChangeType  `json:"type"`
	Kind parser.Kind `json:"kind"`

	Name string `json:"name,omitempty"`
	// OldName is populated only for renames.
	OldName string `json:"oldName,omitempty"`

	OldLocation *Location `json:"oldLocation,omitempty"`
	NewLocation *Location `json:"newLocation,omitempty"`

	OldContent string `json:"oldContent,omitempty"`
	NewContent string `json:"newContent,omitempty"`

	// Children are the recursively computed changes between the old and
	// new versions of this same declaration.
	Children []Change `json:"children,omitempty"`

	// Annotations written by the impact classifier pass.
	Impact     Impact     `json:"impact,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
	Caveats    []string   `json:"caveats,omitempty"`

	// Configurations names the build configurations this change applies
	// to. Empty means all of them; multi-configuration runs fill it in
	// during merge.
	Configurations []string `json:"configurations,omitempty"`

	// Transient node references for downstream passes. Never serialized;
	// nodes only live for the duration of one comparison run.
	OldNode parser.Node `json:"-"`
	NewNode parser.Node `json:"-"`

	// SameScopeMove marks a Moved change whose old and new parent context
	// are equal (pure reordering). Set by the semantic pass.
	SameScopeMove bool `json:"-"`
}

// NewChange creates a change with a fresh synthetic ID.
func NewChange(t ChangeType, kind parser.Kind, name string) Change {
	return Change{
		ID:   uuid.NewString(),
		Type: t,
		Kind: kind,
		Name: name,
	}
}

// BestLine returns the change's display line: the new location's start
// line, falling back to the old location's.
func (c *Change) BestLine() int {
	if c.NewLocation != nil {
		return c.NewLocation.StartLine
	}
	if c.OldLocation != nil {
		return c.OldLocation.StartLine
	}
	return 0
}

// NodeInfo is the derived identity of one structural node, used for
// sibling matching.
type NodeInfo struct {
	Node      parser.Node
	Name      string
	Kind      parser.Kind
	Signature string
}

// identityKey is the (name, kind, signature) triple two nodes must share
// to match across versions.
type identityKey struct {
	name      string
	kind      parser.Kind
	signature string
}

func (i NodeInfo) key() identityKey {
	return identityKey{name: i.Name, kind: i.Kind, signature: i.Signature}
}

// MatchedPair is one identity-matched (old, new) node pair.
type MatchedPair struct {
	Old NodeInfo
	New NodeInfo
}

// MatchResult partitions two sibling sets into matches, removals, and
// additions.
type MatchResult struct {
	Matched      []MatchedPair
	UnmatchedOld []NodeInfo
	UnmatchedNew []NodeInfo
}

// DefaultParallelThreshold is the matched-pair count above which sibling
// subtree comparisons fan out to parallel workers. Chosen empirically to
// amortize task-dispatch overhead.
const DefaultParallelThreshold = 4

// Options controls a comparison run.
type Options struct {
	// IgnoreWhitespace compares subtrees after normalizing incidental
	// formatting instead of exact text equality.
	IgnoreWhitespace bool

	// OldPath and NewPath are display labels attached to locations.
	OldPath string
	NewPath string

	// ParallelThreshold overrides DefaultParallelThreshold when > 0.
	ParallelThreshold int
}

func (o Options) threshold() int {
	if o.ParallelThreshold > 0 {
		return o.ParallelThreshold
	}
	return DefaultParallelThreshold
}
