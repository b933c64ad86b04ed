package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes the report as YAML. The report is round-tripped
// through its JSON form first so the YAML keys match the JSON tags
// instead of yaml.v3's lowercased field names.
func WriteYAML(w io.Writer, report *Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
