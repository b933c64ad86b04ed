package structural

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"structdiff/internal/errors"
	"structdiff/internal/parser"
)

// Compare walks two parsed trees and returns the hierarchical change list
// between them. An empty list is a valid "no differences" result; callers
// must check the error to distinguish failure from equality.
//
// Cancellation is cooperative: ctx is checked at the entry of every
// recursive call and before every unmatched node. On cancellation the
// whole comparison aborts and no partial results are returned.
func Compare(ctx context.Context, oldRoot, newRoot parser.Node, opts Options) ([]Change, error) {
	if oldRoot == nil || newRoot == nil {
		return nil, errors.Newf(errors.InvalidArgument, "both trees are required")
	}
	return compareSubtree(ctx, oldRoot, newRoot, opts)
}

func compareSubtree(ctx context.Context, oldNode, newNode parser.Node, opts Options) ([]Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.Cancelled, "comparison aborted", err)
	}

	matches := MatchSiblings(
		ExtractImmediateChildren(oldNode),
		ExtractImmediateChildren(newNode),
	)

	changes, err := compareMatched(ctx, matches.Matched, opts)
	if err != nil {
		return nil, err
	}

	for _, info := range matches.UnmatchedOld {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(errors.Cancelled, "comparison aborted", err)
		}
		changes = append(changes, removedChange(info, opts))
	}
	for _, info := range matches.UnmatchedNew {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(errors.Cancelled, "comparison aborted", err)
		}
		changes = append(changes, addedChange(info, opts))
	}

	sortByLine(changes)
	return changes, nil
}

// compareMatched processes identity-matched pairs, fanning out to parallel
// workers once the pair count exceeds the threshold. Workers share no
// mutable state: each writes one optional change into its own slot, and
// the final sort restores determinism regardless of completion order.
func compareMatched(ctx context.Context, pairs []MatchedPair, opts Options) ([]Change, error) {
	results := make([]*Change, len(pairs))

	if len(pairs) > opts.threshold() {
		g, gctx := errgroup.WithContext(ctx)
		for i, pair := range pairs {
			g.Go(func() error {
				c, err := comparePair(gctx, pair, opts)
				if err != nil {
					return err
				}
				results[i] = c
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, pair := range pairs {
			c, err := comparePair(ctx, pair, opts)
			if err != nil {
				return nil, err
			}
			results[i] = c
		}
	}

	var changes []Change
	for _, c := range results {
		if c != nil {
			changes = append(changes, *c)
		}
	}
	return changes, nil
}

// comparePair compares one matched declaration pair. Structurally
// equivalent subtrees short-circuit with no change. A pair whose recursive
// children list is empty still produces a leaf Modified change: the
// declaration's own header or body differs even if no nested declarations
// do.
func comparePair(ctx context.Context, pair MatchedPair, opts Options) (*Change, error) {
	if equivalent(pair.Old.Node, pair.New.Node, opts) {
		return nil, nil
	}

	children, err := compareSubtree(ctx, pair.Old.Node, pair.New.Node, opts)
	if err != nil {
		return nil, err
	}

	c := NewChange(Modified, pair.New.Kind, pair.New.Name)
	c.OldLocation = location(pair.Old.Node, opts.OldPath)
	c.NewLocation = location(pair.New.Node, opts.NewPath)
	c.OldContent = pair.Old.Node.Text()
	c.NewContent = pair.New.Node.Text()
	c.Children = children
	c.OldNode = pair.Old.Node
	c.NewNode = pair.New.Node
	return &c, nil
}

// equivalent reports structural equivalence: exact text equality, or
// equality after trivia normalization when the whitespace-insensitive
// option is set.
func equivalent(oldNode, newNode parser.Node, opts Options) bool {
	if opts.IgnoreWhitespace {
		return oldNode.TextNoTrivia() == newNode.TextNoTrivia()
	}
	return oldNode.Text() == newNode.Text()
}

func removedChange(info NodeInfo, opts Options) Change {
	c := NewChange(Removed, info.Kind, info.Name)
	c.OldLocation = location(info.Node, opts.OldPath)
	c.OldContent = info.Node.Text()
	c.OldNode = info.Node
	return c
}

func addedChange(info NodeInfo, opts Options) Change {
	c := NewChange(Added, info.Kind, info.Name)
	c.NewLocation = location(info.Node, opts.NewPath)
	c.NewContent = info.Node.Text()
	c.NewNode = info.Node
	return c
}

func location(node parser.Node, path string) *Location {
	return &Location{Path: path, Span: node.Span()}
}

// sortByLine orders a level's changes by best available line number so
// unrelated additions, removals, and modifications read top to bottom in
// source order.
func sortByLine(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].BestLine() < changes[j].BestLine()
	})
}
