package render

import (
	"encoding/json"
	"io"
)

// WriteJSON writes the report as indented JSON. HTML escaping is off so
// code snippets survive round-trips readably.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
