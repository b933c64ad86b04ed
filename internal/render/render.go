// Package render turns an annotated change tree into output documents.
// Every structured format renders the same Report envelope; the unified
// format is line-diff specific and lives in unified.go.
package render

import (
	"io"
	"time"

	"structdiff/internal/errors"
	"structdiff/internal/structural"
	"structdiff/internal/version"
)

// Format selects an output format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatText    Format = "text"
	FormatHTML    Format = "html"
	FormatUnified Format = "unified"
)

// ParseFormat validates a format name from the CLI.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatText, FormatHTML, FormatUnified:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Newf(errors.InvalidArgument, "unknown output format %q", s)
	}
}

// Report is the serializable envelope around one comparison result.
type Report struct {
	Tool      string    `json:"tool" yaml:"tool"`
	Version   string    `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	OldPath string `json:"oldPath" yaml:"oldPath"`
	NewPath string `json:"newPath" yaml:"newPath"`

	// Configurations lists the build configurations compared, for
	// multi-configuration runs.
	Configurations []string `json:"configurations,omitempty" yaml:"configurations,omitempty"`

	Summary *structural.Summary `json:"summary" yaml:"summary"`
	Changes []structural.Change `json:"changes" yaml:"changes"`
}

// NewReport assembles the envelope for a finished comparison.
func NewReport(oldPath, newPath string, changes []structural.Change) *Report {
	return &Report{
		Tool:      "structdiff",
		Version:   version.Version,
		CreatedAt: time.Now().UTC(),
		OldPath:   oldPath,
		NewPath:   newPath,
		Summary:   structural.Summarize(changes),
		Changes:   changes,
	}
}

// Write renders the report in the given format. FormatUnified is not
// accepted here: it renders hunks, not change trees.
func Write(w io.Writer, format Format, report *Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatYAML:
		return WriteYAML(w, report)
	case FormatText:
		return WriteText(w, report)
	case FormatHTML:
		return WriteHTML(w, report)
	default:
		return errors.Newf(errors.InvalidArgument, "format %q cannot render a change report", format)
	}
}
