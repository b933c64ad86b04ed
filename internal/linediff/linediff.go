// Package linediff is the line-based fallback differ for file types
// without a registered grammar. It matches lines with an LCS pass and
// reports the result both as hunks (for unified-diff output) and as
// flat line-level changes so every renderer works on one shape.
package linediff

import (
	"strings"

	"structdiff/internal/parser"
	"structdiff/internal/structural"
)

// WhitespaceMode controls how lines are normalized before comparison.
type WhitespaceMode string

const (
	// Exact compares lines byte for byte.
	Exact WhitespaceMode = "exact"
	// IgnoreTrailing strips trailing whitespace before comparing.
	IgnoreTrailing WhitespaceMode = "ignore_trailing"
	// IgnoreAll collapses all runs of whitespace to a single space.
	IgnoreAll WhitespaceMode = "ignore_all"
)

// DefaultContext is the number of unchanged lines kept around each
// hunk when no context is configured.
const DefaultContext = 3

// Options configures a line comparison.
type Options struct {
	Mode    WhitespaceMode
	Context int

	// OldPath and NewPath are display labels for the two sides.
	OldPath string
	NewPath string
}

func (o Options) mode() WhitespaceMode {
	if o.Mode == "" {
		return Exact
	}
	return o.Mode
}

func (o Options) context() int {
	if o.Context <= 0 {
		return DefaultContext
	}
	return o.Context
}

// LineOp is the disposition of a single line within a hunk.
type LineOp byte

const (
	OpEqual  LineOp = ' '
	OpDelete LineOp = '-'
	OpInsert LineOp = '+'
)

// Line is one line of a hunk with its disposition.
type Line struct {
	Op   LineOp
	Text string
}

// Hunk is a contiguous run of edits plus surrounding context, with
// 1-based start lines on both sides.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Result holds both views of a line comparison.
type Result struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
	Changes []structural.Change
}

// Compare diffs two texts line by line. It never fails: a line diff has
// no parse step and no tree to validate.
func Compare(oldText, newText string, opts Options) Result {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	edits := diffLines(oldLines, newLines, opts.mode())

	return Result{
		OldPath: opts.OldPath,
		NewPath: opts.NewPath,
		Hunks:   buildHunks(edits, oldLines, newLines, opts.context()),
		Changes: buildChanges(edits, oldLines, newLines, opts),
	}
}

// edit pairs up one old line index with one new line index; -1 marks
// the absent side.
type edit struct {
	oldIndex int
	newIndex int
}

func (e edit) op() LineOp {
	switch {
	case e.oldIndex < 0:
		return OpInsert
	case e.newIndex < 0:
		return OpDelete
	default:
		return OpEqual
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	// A trailing newline produces one empty phantom line; drop it so
	// line counts match what an editor shows.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func normalizeLine(line string, mode WhitespaceMode) string {
	switch mode {
	case IgnoreTrailing:
		return strings.TrimRight(line, " \t\r")
	case IgnoreAll:
		return strings.Join(strings.Fields(line), " ")
	default:
		return line
	}
}

// diffLines runs a classic LCS over the normalized lines and emits the
// edit script in order.
func diffLines(oldLines, newLines []string, mode WhitespaceMode) []edit {
	oldKeys := make([]string, len(oldLines))
	for i, l := range oldLines {
		oldKeys[i] = normalizeLine(l, mode)
	}
	newKeys := make([]string, len(newLines))
	for i, l := range newLines {
		newKeys[i] = normalizeLine(l, mode)
	}

	// lcs[i][j] = length of the LCS of oldKeys[i:] and newKeys[j:].
	lcs := make([][]int, len(oldKeys)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(newKeys)+1)
	}
	for i := len(oldKeys) - 1; i >= 0; i-- {
		for j := len(newKeys) - 1; j >= 0; j-- {
			if oldKeys[i] == newKeys[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var edits []edit
	i, j := 0, 0
	for i < len(oldKeys) && j < len(newKeys) {
		switch {
		case oldKeys[i] == newKeys[j]:
			edits = append(edits, edit{oldIndex: i, newIndex: j})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, edit{oldIndex: i, newIndex: -1})
			i++
		default:
			edits = append(edits, edit{oldIndex: -1, newIndex: j})
			j++
		}
	}
	for ; i < len(oldKeys); i++ {
		edits = append(edits, edit{oldIndex: i, newIndex: -1})
	}
	for ; j < len(newKeys); j++ {
		edits = append(edits, edit{oldIndex: -1, newIndex: j})
	}
	return edits
}

// buildHunks groups consecutive edits that lie within 2*context equal
// lines of each other into hunks with context lines attached.
func buildHunks(edits []edit, oldLines, newLines []string, context int) []Hunk {
	// Indexes into edits of every non-equal entry.
	var changed []int
	for i, e := range edits {
		if e.op() != OpEqual {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var hunks []Hunk
	start := changed[0]
	end := changed[0]
	for _, idx := range changed[1:] {
		if idx-end <= 2*context {
			end = idx
			continue
		}
		hunks = append(hunks, makeHunk(edits, oldLines, newLines, start, end, context))
		start, end = idx, idx
	}
	hunks = append(hunks, makeHunk(edits, oldLines, newLines, start, end, context))
	return hunks
}

func makeHunk(edits []edit, oldLines, newLines []string, start, end, context int) Hunk {
	lo := start - context
	if lo < 0 {
		lo = 0
	}
	hi := end + context
	if hi > len(edits)-1 {
		hi = len(edits) - 1
	}

	h := Hunk{OldStart: 0, NewStart: 0}
	for k := lo; k <= hi; k++ {
		e := edits[k]
		var text string
		switch e.op() {
		case OpInsert:
			text = newLines[e.newIndex]
			h.NewLines++
		case OpDelete:
			text = oldLines[e.oldIndex]
			h.OldLines++
		default:
			text = oldLines[e.oldIndex]
			h.OldLines++
			h.NewLines++
		}
		if h.OldStart == 0 && e.oldIndex >= 0 {
			h.OldStart = e.oldIndex + 1
		}
		if h.NewStart == 0 && e.newIndex >= 0 {
			h.NewStart = e.newIndex + 1
		}
		h.Lines = append(h.Lines, Line{Op: e.op(), Text: text})
	}
	// An all-insert or all-delete hunk at file start has no anchor line
	// on one side; unified format uses 0 there, which is already the
	// zero value.
	return h
}

// buildChanges emits one flat line-level Change per edited line so the
// structured renderers and the summary work on line diffs too.
func buildChanges(edits []edit, oldLines, newLines []string, opts Options) []structural.Change {
	var changes []structural.Change
	for _, e := range edits {
		switch e.op() {
		case OpDelete:
			c := structural.NewChange(structural.Removed, parser.KindLine, "")
			c.OldContent = oldLines[e.oldIndex]
			c.OldLocation = lineLocation(opts.OldPath, e.oldIndex)
			changes = append(changes, c)
		case OpInsert:
			c := structural.NewChange(structural.Added, parser.KindLine, "")
			c.NewContent = newLines[e.newIndex]
			c.NewLocation = lineLocation(opts.NewPath, e.newIndex)
			changes = append(changes, c)
		}
	}
	return changes
}

func lineLocation(path string, index int) *structural.Location {
	return &structural.Location{
		Path: path,
		Span: parser.Span{StartLine: index + 1, StartCol: 1, EndLine: index + 1, EndCol: 1},
	}
}
