package version

import (
	"strings"
	"testing"
)

func TestFull(t *testing.T) {
	origCommit, origDate := Commit, BuildDate
	defer func() { Commit, BuildDate = origCommit, origDate }()
	Commit = "abc1234"
	BuildDate = "2026-08-29T10:00:00Z"

	full := Full()
	for _, want := range []string{
		"structdiff version " + Version,
		"Commit: abc1234",
		"Built: 2026-08-29T10:00:00Z",
	} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}
