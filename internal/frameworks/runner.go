package frameworks

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"structdiff/internal/structural"
)

// CompareFunc runs one comparison under a single configuration. The
// caller supplies it so this package stays independent of the parser:
// the CLI wires in filter-parse-compare, tests wire in fakes.
type CompareFunc func(ctx context.Context, cfg Configuration) ([]structural.Change, error)

// ConfigResult is the outcome of one configuration's comparison.
type ConfigResult struct {
	Configuration Configuration
	Changes       []structural.Change
}

// RunConfigurations runs the comparison once per configuration
// concurrently and returns the results in declaration order. Any
// failure cancels the remaining runs and no partial results are
// returned.
func RunConfigurations(ctx context.Context, configs []Configuration, compare CompareFunc) ([]ConfigResult, error) {
	results := make([]ConfigResult, len(configs))

	g, gctx := errgroup.WithContext(ctx)
	for i, cfg := range configs {
		g.Go(func() error {
			changes, err := compare(gctx, cfg)
			if err != nil {
				return err
			}
			results[i] = ConfigResult{Configuration: cfg, Changes: changes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Merge folds per-configuration change lists into one. A change seen in
// every configuration is reported once with no configuration list; a
// change seen in only some carries the names of the configurations it
// applies to. Order follows first appearance across the results.
func Merge(results []ConfigResult) []structural.Change {
	type entry struct {
		change  structural.Change
		configs []string
	}

	var order []string
	byKey := map[string]*entry{}

	for _, res := range results {
		for _, c := range res.Changes {
			key := changeKey(&c)
			e, ok := byKey[key]
			if !ok {
				e = &entry{change: c}
				byKey[key] = e
				order = append(order, key)
			}
			e.configs = append(e.configs, res.Configuration.Name)
		}
	}

	merged := make([]structural.Change, 0, len(order))
	for _, key := range order {
		e := byKey[key]
		if len(e.configs) < len(results) {
			e.change.Configurations = e.configs
		}
		merged = append(merged, e.change)
	}
	return merged
}

// changeKey builds a stable identity for a change across configurations.
// Synthetic IDs differ per run, so the key is the change's observable
// content, children included.
func changeKey(c *structural.Change) string {
	var b strings.Builder
	writeChangeKey(&b, c)
	return b.String()
}

func writeChangeKey(b *strings.Builder, c *structural.Change) {
	fmt.Fprintf(b, "%s|%s|%s|%s|%s|%s", c.Type, c.Kind, c.Name, c.OldName, c.OldContent, c.NewContent)
	b.WriteString("[")
	for i := range c.Children {
		writeChangeKey(b, &c.Children[i])
		b.WriteString(";")
	}
	b.WriteString("]")
}
