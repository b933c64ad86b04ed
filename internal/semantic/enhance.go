package semantic

import "structdiff/internal/structural"

// Options tunes the similarity acceptance thresholds. The zero value uses
// the package defaults.
type Options struct {
	// RenameThreshold is the minimum body similarity for a rename,
	// the package default when zero.
	RenameThreshold float64

	// MoveThreshold is the minimum body similarity for a move, the
	// package default when zero.
	MoveThreshold float64
}

func (o Options) renameThreshold() float64 {
	if o.RenameThreshold > 0 {
		return o.RenameThreshold
	}
	return RenameThreshold
}

func (o Options) moveThreshold() float64 {
	if o.MoveThreshold > 0 {
		return o.MoveThreshold
	}
	return MoveThreshold
}

// EnhanceWithSemantics rewrites a change tree so that removed/added pairs
// which are really the same declaration show up as a single Renamed or
// Moved change. Renames are paired first, then moves over whatever is
// left; acceptance is greedy in descending-similarity order, and no change
// is ever consumed twice.
//
// The tree is rebuilt by structural copy: every consumed removal is
// replaced in place by its rewrite (keeping its position under its
// parent), and every consumed addition is deleted wherever it appears,
// which may be under a different parent than the removal.
func EnhanceWithSemantics(changes []structural.Change, opts Options) []structural.Change {
	removed, added := collectLeaves(changes)
	if len(removed) == 0 || len(added) == 0 {
		return changes
	}

	replacements := make(map[string]structural.Change)
	dropped := make(map[string]bool)
	consumed := make(map[string]bool)

	accept := func(candidates []MatchCandidate, build func(MatchCandidate) structural.Change) {
		for _, cand := range candidates {
			if consumed[cand.Removed.ID] || consumed[cand.Added.ID] {
				continue
			}
			consumed[cand.Removed.ID] = true
			consumed[cand.Added.ID] = true
			replacements[cand.Removed.ID] = build(cand)
			dropped[cand.Added.ID] = true
		}
	}

	accept(FindRenameCandidates(removed, added, opts.renameThreshold()), renameChange)

	remainingRemoved := unconsumed(removed, consumed)
	remainingAdded := unconsumed(added, consumed)
	accept(FindMoveCandidates(remainingRemoved, remainingAdded, opts.moveThreshold()), moveChange)

	if len(replacements) == 0 {
		return changes
	}
	return rebuild(changes, replacements, dropped)
}

// collectLeaves flattens the tree into its removed and added changes.
func collectLeaves(changes []structural.Change) (removed, added []*structural.Change) {
	structural.Walk(changes, func(c *structural.Change) {
		switch c.Type {
		case structural.Removed:
			removed = append(removed, c)
		case structural.Added:
			added = append(added, c)
		}
	})
	return removed, added
}

func unconsumed(changes []*structural.Change, consumed map[string]bool) []*structural.Change {
	var out []*structural.Change
	for _, c := range changes {
		if !consumed[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func renameChange(cand MatchCandidate) structural.Change {
	c := structural.NewChange(structural.Renamed, cand.Removed.Kind, cand.Added.Name)
	c.OldName = cand.Removed.Name
	c.OldLocation = cand.Removed.OldLocation
	c.NewLocation = cand.Added.NewLocation
	c.OldContent = cand.Removed.OldContent
	c.NewContent = cand.Added.NewContent
	c.OldNode = cand.Removed.OldNode
	c.NewNode = cand.Added.NewNode
	return c
}

func moveChange(cand MatchCandidate) structural.Change {
	c := structural.NewChange(structural.Moved, cand.Removed.Kind, cand.Removed.Name)
	c.OldLocation = cand.Removed.OldLocation
	c.NewLocation = cand.Added.NewLocation
	c.OldContent = cand.Removed.OldContent
	c.NewContent = cand.Added.NewContent
	c.OldNode = cand.Removed.OldNode
	c.NewNode = cand.Added.NewNode
	c.SameScopeMove = cand.SameParent
	return c
}

// rebuild produces the rewritten tree bottom-up. Replacement and deletion
// are keyed on synthetic change IDs, so the rewrite never depends on node
// identity.
func rebuild(changes []structural.Change, replacements map[string]structural.Change, dropped map[string]bool) []structural.Change {
	out := make([]structural.Change, 0, len(changes))
	for _, c := range changes {
		if dropped[c.ID] {
			continue
		}
		if repl, ok := replacements[c.ID]; ok {
			out = append(out, repl)
			continue
		}
		c.Children = rebuild(c.Children, replacements, dropped)
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
