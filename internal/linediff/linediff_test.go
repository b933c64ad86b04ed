package linediff

import (
	"testing"

	"structdiff/internal/structural"
)

func TestCompareIdentical(t *testing.T) {
	text := "a\nb\nc\n"
	result := Compare(text, text, Options{})
	if len(result.Hunks) != 0 {
		t.Errorf("expected no hunks, got %d", len(result.Hunks))
	}
	if len(result.Changes) != 0 {
		t.Errorf("expected no changes, got %d", len(result.Changes))
	}
}

func TestCompareSingleEdit(t *testing.T) {
	old := "one\ntwo\nthree\nfour\nfive\n"
	new := "one\ntwo\nTWO-POINT-FIVE\nthree\nfour\nfive\n"

	result := Compare(old, new, Options{OldPath: "a.txt", NewPath: "b.txt"})

	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(result.Changes))
	}
	c := result.Changes[0]
	if c.Type != structural.Added {
		t.Errorf("type = %s, want added", c.Type)
	}
	if c.NewContent != "TWO-POINT-FIVE" {
		t.Errorf("content = %q", c.NewContent)
	}
	if c.NewLocation == nil || c.NewLocation.StartLine != 3 {
		t.Errorf("expected insertion at line 3, got %+v", c.NewLocation)
	}
	if c.NewLocation.Path != "b.txt" {
		t.Errorf("path = %q, want b.txt", c.NewLocation.Path)
	}

	if len(result.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(result.Hunks))
	}
	h := result.Hunks[0]
	if h.OldStart != 1 || h.NewStart != 1 {
		t.Errorf("hunk starts = %d/%d, want 1/1", h.OldStart, h.NewStart)
	}
	if h.OldLines != 5 || h.NewLines != 6 {
		t.Errorf("hunk sizes = %d/%d, want 5/6", h.OldLines, h.NewLines)
	}
}

func TestCompareReplacement(t *testing.T) {
	result := Compare("alpha\nbeta\ngamma\n", "alpha\nBETA\ngamma\n", Options{})

	if len(result.Changes) != 2 {
		t.Fatalf("expected removal+addition, got %d changes", len(result.Changes))
	}
	var removed, added int
	for _, c := range result.Changes {
		switch c.Type {
		case structural.Removed:
			removed++
			if c.OldContent != "beta" {
				t.Errorf("removed content = %q", c.OldContent)
			}
		case structural.Added:
			added++
			if c.NewContent != "BETA" {
				t.Errorf("added content = %q", c.NewContent)
			}
		}
	}
	if removed != 1 || added != 1 {
		t.Errorf("removed=%d added=%d, want 1/1", removed, added)
	}
}

func TestHunkGrouping(t *testing.T) {
	old := "l01\nl02\nl03\nl04\nl05\nl06\nl07\nl08\nl09\nl10\nl11\nl12\nl13\nl14\nl15\n"
	new := "l01\nX02\nl03\nl04\nl05\nl06\nl07\nl08\nl09\nl10\nl11\nl12\nl13\nX14\nl15\n"

	result := Compare(old, new, Options{Context: 2})
	if len(result.Hunks) != 2 {
		t.Fatalf("edits 11 lines apart with context 2 should split, got %d hunks", len(result.Hunks))
	}

	first := result.Hunks[0]
	if first.OldStart != 1 {
		t.Errorf("first hunk OldStart = %d, want 1", first.OldStart)
	}

	// Context 6 makes the gap small enough to merge.
	merged := Compare(old, new, Options{Context: 6})
	if len(merged.Hunks) != 1 {
		t.Errorf("context 6 should merge into one hunk, got %d", len(merged.Hunks))
	}
}

func TestWhitespaceModes(t *testing.T) {
	old := "value = 1;   \n"
	new := "value  =  1;\n"

	tests := []struct {
		mode        WhitespaceMode
		wantChanges int
	}{
		{Exact, 2},
		{IgnoreTrailing, 2},
		{IgnoreAll, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			result := Compare(old, new, Options{Mode: tt.mode})
			if len(result.Changes) != tt.wantChanges {
				t.Errorf("changes = %d, want %d", len(result.Changes), tt.wantChanges)
			}
		})
	}

	t.Run("trailing only differs", func(t *testing.T) {
		result := Compare("x = 1;  \n", "x = 1;\n", Options{Mode: IgnoreTrailing})
		if len(result.Changes) != 0 {
			t.Errorf("IgnoreTrailing should equate, got %d changes", len(result.Changes))
		}
	})
}

func TestCompareEmptySides(t *testing.T) {
	t.Run("old empty", func(t *testing.T) {
		result := Compare("", "a\nb\n", Options{})
		if len(result.Changes) != 2 {
			t.Fatalf("expected 2 additions, got %d", len(result.Changes))
		}
		if len(result.Hunks) != 1 || result.Hunks[0].OldStart != 0 {
			t.Errorf("all-insert hunk should anchor old side at 0, got %+v", result.Hunks)
		}
	})
	t.Run("both empty", func(t *testing.T) {
		result := Compare("", "", Options{})
		if len(result.Changes) != 0 || len(result.Hunks) != 0 {
			t.Errorf("empty inputs should produce nothing")
		}
	})
}
