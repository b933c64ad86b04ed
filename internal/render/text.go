package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"structdiff/internal/structural"
)

var typeMarkers = map[structural.ChangeType]string{
	structural.Added:    "+",
	structural.Removed:  "-",
	structural.Modified: "~",
	structural.Moved:    ">",
	structural.Renamed:  "@",
}

// WriteText writes the human-readable report: a header, the change
// tree, and the tallied summary.
func WriteText(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "%s -> %s\n", report.OldPath, report.NewPath)
	if len(report.Configurations) > 0 {
		fmt.Fprintf(w, "configurations: %s\n", strings.Join(report.Configurations, ", "))
	}
	fmt.Fprintln(w)

	if len(report.Changes) == 0 {
		fmt.Fprintln(w, "no changes")
		return nil
	}

	for i := range report.Changes {
		writeChange(w, &report.Changes[i], 0)
	}

	fmt.Fprintln(w)
	writeSummary(w, report.Summary)
	return nil
}

func writeChange(w io.Writer, c *structural.Change, depth int) {
	indent := strings.Repeat("  ", depth)
	marker := typeMarkers[c.Type]
	if marker == "" {
		marker = " "
	}

	name := c.Name
	if c.Type == structural.Renamed && c.OldName != "" {
		name = c.OldName + " -> " + c.Name
	}
	if name == "" {
		name = firstLine(c.NewContent)
		if name == "" {
			name = firstLine(c.OldContent)
		}
	}

	fmt.Fprintf(w, "%s%s %s %s", indent, marker, c.Kind, name)
	if line := c.BestLine(); line > 0 {
		fmt.Fprintf(w, " (line %d)", line)
	}
	if c.Impact != "" {
		fmt.Fprintf(w, " [%s]", c.Impact)
	}
	if len(c.Configurations) > 0 {
		fmt.Fprintf(w, " {%s}", strings.Join(c.Configurations, ", "))
	}
	fmt.Fprintln(w)

	for _, caveat := range c.Caveats {
		fmt.Fprintf(w, "%s  ! %s\n", indent, caveat)
	}
	for i := range c.Children {
		writeChange(w, &c.Children[i], depth+1)
	}
}

func writeSummary(w io.Writer, s *structural.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%d change(s), %d breaking\n", s.TotalChanges, s.BreakingChanges)
	writeTally(w, "by type", s.ByType)
	writeTally(w, "by impact", s.ByImpact)
}

func writeTally(w io.Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	fmt.Fprintf(w, "  %s: %s\n", label, strings.Join(parts, " "))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
