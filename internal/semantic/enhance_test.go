package semantic

import (
	"context"
	"testing"

	"structdiff/internal/parser"
	"structdiff/internal/structural"
	"structdiff/internal/testutil"
)

func newFile(decls ...*testutil.FakeNode) *testutil.FakeNode {
	return testutil.NewFakeNode(parser.KindOther, "", "").Add(decls...)
}

func newClass(name string, members ...*testutil.FakeNode) *testutil.FakeNode {
	return testutil.NewFakeNode(parser.KindType, name, "").Add(members...)
}

func compare(t *testing.T, oldRoot, newRoot *testutil.FakeNode) []structural.Change {
	t.Helper()
	changes, err := structural.Compare(context.Background(), oldRoot, newRoot, structural.Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	return changes
}

func findByType(changes []structural.Change, t structural.ChangeType) []*structural.Change {
	var out []*structural.Change
	structural.Walk(changes, func(c *structural.Change) {
		if c.Type == t {
			out = append(out, c)
		}
	})
	return out
}

func TestEnhanceDetectsRename(t *testing.T) {
	oldRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "OldMethod", "int OldMethod(int a, int b) { return a + b; }"),
	))
	newRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "NewMethod", "int NewMethod(int a, int b) { return a + b; }"),
	))

	enhanced := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})

	renames := findByType(enhanced, structural.Renamed)
	if len(renames) != 1 {
		t.Fatalf("expected one rename, got %d", len(renames))
	}
	r := renames[0]
	if r.OldName != "OldMethod" || r.Name != "NewMethod" {
		t.Errorf("rename %q -> %q, want OldMethod -> NewMethod", r.OldName, r.Name)
	}
	if r.OldContent == "" || r.NewContent == "" {
		t.Error("rename must carry both content snapshots")
	}

	if n := len(findByType(enhanced, structural.Removed)); n != 0 {
		t.Errorf("consumed removal still present (%d)", n)
	}
	if n := len(findByType(enhanced, structural.Added)); n != 0 {
		t.Errorf("consumed addition still present (%d)", n)
	}
}

func TestEnhanceDetectsMoveAcrossTypes(t *testing.T) {
	method := func() *testutil.FakeNode {
		return testutil.NewFakeNode(parser.KindMethod, "M", "void M() { work(); more(); }")
	}
	oldRoot := newFile(newClass("A", method()), newClass("B"))
	newRoot := newFile(newClass("A"), newClass("B", method()))

	enhanced := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})

	moves := findByType(enhanced, structural.Moved)
	if len(moves) != 1 {
		t.Fatalf("expected one move, got %d", len(moves))
	}
	m := moves[0]
	if m.Name != "M" || m.OldName != "" {
		t.Errorf("move should keep the name and no old name, got %+v", m)
	}
	if m.SameScopeMove {
		t.Error("cross-type move must not be flagged same-scope")
	}
	if len(findByType(enhanced, structural.Removed))+len(findByType(enhanced, structural.Added)) != 0 {
		t.Error("move must consume both sides of the pair")
	}
}

func TestEnhanceMovePreservesNesting(t *testing.T) {
	// The rewrite replaces the removal in place under its original parent
	// and deletes the addition under the other parent.
	method := func() *testutil.FakeNode {
		return testutil.NewFakeNode(parser.KindMethod, "M", "void M() { work(); }")
	}
	oldRoot := newFile(newClass("A", method()), newClass("B"))
	newRoot := newFile(newClass("A"), newClass("B", method()))

	enhanced := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})

	var parentOfMove string
	for _, top := range enhanced {
		for _, child := range top.Children {
			if child.Type == structural.Moved {
				parentOfMove = top.Name
			}
		}
	}
	if parentOfMove != "A" {
		t.Errorf("move nested under %q, want original parent A", parentOfMove)
	}
}

func TestEnhanceLowSimilarityStaysSplit(t *testing.T) {
	oldRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "OldMethod", "int OldMethod(int a) { return open(a).read().parse(); }"),
	))
	newRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "NewMethod", "int NewMethod(int a) { while (a > 0) { a = step(a); } return a; }"),
	))

	enhanced := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})

	if len(findByType(enhanced, structural.Renamed)) != 0 {
		t.Error("low-similarity pair must not become a rename")
	}
	if len(findByType(enhanced, structural.Removed)) != 1 || len(findByType(enhanced, structural.Added)) != 1 {
		t.Error("pair should remain as separate removal and addition")
	}
}

func TestEnhanceConfiguredThresholds(t *testing.T) {
	// Similar but not identical bodies: above the default rename
	// threshold, below a stricter configured one.
	oldRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "OldMethod", "int OldMethod(int a) { return step(a) + step(a + 1); }"),
	))
	newRoot := newFile(newClass("Calc",
		testutil.NewFakeNode(parser.KindMethod, "NewMethod", "int NewMethod(int a) { return step(a) + twice(a + 1); }"),
	))

	defaults := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})
	if len(findByType(defaults, structural.Renamed)) != 1 {
		t.Fatal("pair must qualify as a rename under the default threshold")
	}

	strict := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{RenameThreshold: 0.99})
	if len(findByType(strict, structural.Renamed)) != 0 {
		t.Error("a raised rename threshold must reject the pair")
	}
	if len(findByType(strict, structural.Removed)) != 1 || len(findByType(strict, structural.Added)) != 1 {
		t.Error("the rejected pair should remain as separate removal and addition")
	}
}

func TestEnhanceConfiguredMoveThreshold(t *testing.T) {
	method := func(body string) *testutil.FakeNode {
		return testutil.NewFakeNode(parser.KindMethod, "M", body)
	}
	oldRoot := newFile(newClass("A", method("void M() { work(); more(); done(); }")), newClass("B"))
	newRoot := newFile(newClass("A"), newClass("B", method("void M() { work(); more(); done(); }")))

	strict := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{MoveThreshold: 0.95})
	if len(findByType(strict, structural.Moved)) != 1 {
		t.Error("identical body must still qualify under an explicit threshold")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.renameThreshold() != RenameThreshold {
		t.Errorf("zero rename threshold = %v, want %v", o.renameThreshold(), RenameThreshold)
	}
	if o.moveThreshold() != MoveThreshold {
		t.Errorf("zero move threshold = %v, want %v", o.moveThreshold(), MoveThreshold)
	}
	o = Options{RenameThreshold: 0.5, MoveThreshold: 0.7}
	if o.renameThreshold() != 0.5 || o.moveThreshold() != 0.7 {
		t.Error("explicit thresholds must win over the defaults")
	}
}

func TestEnhanceNoPairsPassesThrough(t *testing.T) {
	oldRoot := newFile(newClass("Only",
		testutil.NewFakeNode(parser.KindMethod, "M", "void M() { a(); }"),
	))
	newRoot := newFile(newClass("Only",
		testutil.NewFakeNode(parser.KindMethod, "M", "void M() { b(); }"),
	))

	before := compare(t, oldRoot, newRoot)
	after := EnhanceWithSemantics(before, Options{})

	if len(after) != len(before) {
		t.Error("a tree with no removed/added pairs must pass through unchanged")
	}
}

func TestEnhanceMutualExclusivity(t *testing.T) {
	// One removal, two additions that could both pair with it: the rename
	// (higher-ranked candidate pool) consumes it, the move pass must not
	// reuse it.
	body := "void F() { alpha(); beta(); gamma(); }"
	oldRoot := newFile(
		newClass("A", testutil.NewFakeNode(parser.KindMethod, "Orig", "void Orig() { alpha(); beta(); gamma(); }")),
		newClass("B"),
	)
	newRoot := newFile(
		newClass("A", testutil.NewFakeNode(parser.KindMethod, "Renamed", body)),
		newClass("B", testutil.NewFakeNode(parser.KindMethod, "Orig", "void Orig() { alpha(); beta(); gamma(); }")),
	)

	enhanced := EnhanceWithSemantics(compare(t, oldRoot, newRoot), Options{})

	renamesPlusMoves := len(findByType(enhanced, structural.Renamed)) + len(findByType(enhanced, structural.Moved))
	if renamesPlusMoves != 1 {
		t.Fatalf("one removal can be consumed exactly once, got %d rewrites", renamesPlusMoves)
	}
	// The non-consumed addition must survive.
	if len(findByType(enhanced, structural.Added)) != 1 {
		t.Error("the losing addition must remain in the tree")
	}
}

func TestFindRenameCandidatesOrdering(t *testing.T) {
	mk := func(name, content string) *structural.Change {
		c := structural.NewChange(structural.Removed, parser.KindMethod, name)
		c.OldContent = content
		return &c
	}
	mkAdd := func(name, content string) *structural.Change {
		c := structural.NewChange(structural.Added, parser.KindMethod, name)
		c.NewContent = content
		return &c
	}

	removed := []*structural.Change{mk("A", "void A() { x(); y(); z(); }")}
	added := []*structural.Change{
		mkAdd("B", "void B() { x(); y(); w(); }"),
		mkAdd("C", "void C() { x(); y(); z(); }"),
	}

	candidates := FindRenameCandidates(removed, added, RenameThreshold)
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	if candidates[0].Added.Name != "C" {
		t.Errorf("best candidate = %q, want the identical-body C", candidates[0].Added.Name)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Similarity > candidates[i-1].Similarity {
			t.Error("candidates must be ordered by similarity descending")
		}
	}
}
