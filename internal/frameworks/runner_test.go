package frameworks

import (
	"context"
	"reflect"
	"testing"

	"structdiff/internal/errors"
	"structdiff/internal/parser"
	"structdiff/internal/structural"
)

func namedChange(t structural.ChangeType, kind parser.Kind, name string) structural.Change {
	return structural.NewChange(t, kind, name)
}

func TestRunConfigurations(t *testing.T) {
	configs := []Configuration{
		{Name: "net8.0", Symbols: []string{"NET8_0"}},
		{Name: "net48", Symbols: []string{"NETFRAMEWORK"}},
	}

	results, err := RunConfigurations(context.Background(), configs, func(_ context.Context, cfg Configuration) ([]structural.Change, error) {
		return []structural.Change{namedChange(structural.Added, parser.KindMethod, cfg.Name)}, nil
	})
	if err != nil {
		t.Fatalf("RunConfigurations() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Results stay in declaration order regardless of completion order.
	for i, cfg := range configs {
		if results[i].Configuration.Name != cfg.Name {
			t.Errorf("result %d is %s, want %s", i, results[i].Configuration.Name, cfg.Name)
		}
		if results[i].Changes[0].Name != cfg.Name {
			t.Errorf("result %d carries changes for %s", i, results[i].Changes[0].Name)
		}
	}
}

func TestRunConfigurationsError(t *testing.T) {
	configs := []Configuration{{Name: "a"}, {Name: "b"}}

	results, err := RunConfigurations(context.Background(), configs, func(_ context.Context, cfg Configuration) ([]structural.Change, error) {
		if cfg.Name == "b" {
			return nil, errors.New(errors.ParseFailed, "bad source", nil)
		}
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if results != nil {
		t.Errorf("no partial results on error, got %v", results)
	}
	if errors.CodeOf(err) != errors.ParseFailed {
		t.Errorf("code = %s, want PARSE_FAILED", errors.CodeOf(err))
	}
}

func TestMerge(t *testing.T) {
	shared := func() structural.Change {
		c := namedChange(structural.Modified, parser.KindMethod, "Shared")
		c.NewContent = "void Shared() { return; }"
		return c
	}
	net8Only := namedChange(structural.Added, parser.KindMethod, "FastPath")
	net6Only := namedChange(structural.Removed, parser.KindMethod, "SlowPath")

	results := []ConfigResult{
		{Configuration: Configuration{Name: "net8.0"}, Changes: []structural.Change{shared(), net8Only}},
		{Configuration: Configuration{Name: "net6.0"}, Changes: []structural.Change{shared(), net6Only}},
	}

	merged := Merge(results)
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged changes, got %d", len(merged))
	}

	if merged[0].Name != "Shared" {
		t.Errorf("first merged change = %s, want Shared", merged[0].Name)
	}
	if merged[0].Configurations != nil {
		t.Errorf("change common to all configurations should carry no list, got %v", merged[0].Configurations)
	}

	byName := map[string][]string{}
	for _, c := range merged {
		byName[c.Name] = c.Configurations
	}
	if !reflect.DeepEqual(byName["FastPath"], []string{"net8.0"}) {
		t.Errorf("FastPath configurations = %v", byName["FastPath"])
	}
	if !reflect.DeepEqual(byName["SlowPath"], []string{"net6.0"}) {
		t.Errorf("SlowPath configurations = %v", byName["SlowPath"])
	}
}

func TestMergeDistinguishesChildren(t *testing.T) {
	withChild := namedChange(structural.Modified, parser.KindType, "Service")
	withChild.Children = []structural.Change{namedChange(structural.Added, parser.KindMethod, "Extra")}
	withoutChild := namedChange(structural.Modified, parser.KindType, "Service")

	merged := Merge([]ConfigResult{
		{Configuration: Configuration{Name: "a"}, Changes: []structural.Change{withChild}},
		{Configuration: Configuration{Name: "b"}, Changes: []structural.Change{withoutChild}},
	})
	if len(merged) != 2 {
		t.Fatalf("same name with different children must not merge, got %d", len(merged))
	}
}
