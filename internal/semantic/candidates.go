package semantic

import (
	"sort"

	"structdiff/internal/parser"
	"structdiff/internal/structural"
)

// MatchCandidate is one scored (removed, added) pairing.
type MatchCandidate struct {
	Removed    *structural.Change
	Added      *structural.Change
	Similarity float64
	// SameParent reports whether both sides share the same enclosing
	// declaration context.
	SameParent bool
}

// FindRenameCandidates scores every (removed, added) pair with equal kind
// and different name, keeping pairs whose body similarity reaches the
// threshold. Candidates come back ordered by similarity descending, ties
// broken in favor of same-parent pairs.
func FindRenameCandidates(removed, added []*structural.Change, threshold float64) []MatchCandidate {
	var candidates []MatchCandidate

	for _, r := range removed {
		for _, a := range added {
			if r.Kind != a.Kind || r.Name == "" || a.Name == "" || r.Name == a.Name {
				continue
			}
			sim := BodySimilarity(r.OldContent, a.NewContent)
			if sim < threshold {
				continue
			}
			candidates = append(candidates, MatchCandidate{
				Removed:    r,
				Added:      a,
				Similarity: sim,
				SameParent: parentContext(r.OldNode) == parentContext(a.NewNode),
			})
		}
	}

	sortCandidates(candidates)
	return candidates
}

// FindMoveCandidates scores every (removed, added) pair with equal kind
// and equal name in a different enclosing declaration, keeping pairs at or
// above the threshold.
func FindMoveCandidates(removed, added []*structural.Change, threshold float64) []MatchCandidate {
	var candidates []MatchCandidate

	for _, r := range removed {
		for _, a := range added {
			if r.Kind != a.Kind || r.Name == "" || r.Name != a.Name {
				continue
			}
			if parentContext(r.OldNode) == parentContext(a.NewNode) {
				continue
			}
			sim := BodySimilarity(r.OldContent, a.NewContent)
			if sim < threshold {
				continue
			}
			candidates = append(candidates, MatchCandidate{
				Removed:    r,
				Added:      a,
				Similarity: sim,
			})
		}
	}

	sortCandidates(candidates)
	return candidates
}

func sortCandidates(candidates []MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		if candidates[i].SameParent != candidates[j].SameParent {
			return candidates[i].SameParent
		}
		return candidates[i].Removed.Name < candidates[j].Removed.Name
	})
}

// parentContext walks node ancestry to the nearest enclosing type or
// namespace declarations and returns the full ancestor name chain.
func parentContext(node parser.Node) string {
	if node == nil {
		return ""
	}

	var chain []string
	for n := node.Parent(); n != nil; n = n.Parent() {
		if k := n.Kind(); k == parser.KindType || k == parser.KindNamespace {
			chain = append(chain, n.Name())
		}
	}

	// Root-first for readability.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	ctx := ""
	for i, name := range chain {
		if i > 0 {
			ctx += "."
		}
		ctx += name
	}
	return ctx
}
