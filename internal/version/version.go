// Package version provides centralized version information for structdiff.
// All packages reference a single source of truth for version info.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X structdiff/internal/version.Version=1.0.0 -X structdiff/internal/version.Commit=abc123"
var (
	// Version is the semantic version of structdiff
	Version = "1.2.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Full returns the complete build information printed by --version.
func Full() string {
	return "structdiff version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
