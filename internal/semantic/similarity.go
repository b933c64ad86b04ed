// Package semantic reclassifies matched add/remove pairs as renames or
// moves using body-similarity scoring, and rewrites the change tree in
// place of the consumed pairs.
package semantic

import "strings"

const (
	// RenameThreshold is the minimum body similarity for a rename
	// candidate (same kind, different name).
	RenameThreshold = 0.80

	// MoveThreshold is the minimum body similarity for a move candidate
	// (same kind, same name, different enclosing declaration).
	MoveThreshold = 0.95
)

// ExtractBody strips the declaration header that carries the name, so a
// pure rename never deflates the similarity score. The body is everything
// from the first brace (block bodies, type member lists) or after the
// arrow (expression bodies); declarations with neither have no body.
func ExtractBody(text string) string {
	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		return text[idx:]
	}
	if idx := strings.Index(text, "=>"); idx >= 0 {
		return text[idx+2:]
	}
	return ""
}

// NormalizeBody re-renders a body with canonical whitespace: intra-line
// runs of spaces and tabs collapse to single spaces, line ends are
// trimmed, and blank lines are dropped.
func NormalizeBody(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			continue
		}
		lines = append(lines, collapsed)
	}
	return strings.Join(lines, "\n")
}

// BodySimilarity scores two declarations' bodies in [0, 1]. Two empty
// normalized bodies are defined as identical (1.0); otherwise the score is
// the normalized Levenshtein similarity of the canonical forms.
func BodySimilarity(oldText, newText string) float64 {
	a := NormalizeBody(ExtractBody(oldText))
	b := NormalizeBody(ExtractBody(newText))

	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if a == b {
		return 1.0
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// levenshteinDistance computes the edit distance between two strings with
// the standard dynamic-programming table, kept to two rows.
func levenshteinDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			curr[j] = min(del, ins, sub)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
