package render

import (
	"html/template"
	"io"
	"strings"

	"structdiff/internal/structural"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
	"marker": func(t structural.ChangeType) string {
		if m := typeMarkers[t]; m != "" {
			return m
		}
		return " "
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>structdiff: {{.OldPath}} → {{.NewPath}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.change { font-family: monospace; margin: 0.2em 0; }
.children { margin-left: 2em; }
.added { color: #22863a; }
.removed { color: #cb2431; }
.modified { color: #b08800; }
.moved, .renamed { color: #6f42c1; }
.impact { font-size: 0.85em; padding: 0.1em 0.4em; border-radius: 3px; background: #eee; }
.impact.breaking_public_api { background: #ffdce0; }
.impact.breaking_internal_api { background: #fff5b1; }
.caveat { color: #735c0f; font-size: 0.9em; margin-left: 1.5em; }
.configs { color: #586069; font-size: 0.85em; }
.summary { margin-top: 1.5em; color: #586069; }
</style>
</head>
<body>
<h1>{{.OldPath}} &rarr; {{.NewPath}}</h1>
{{- if .Configurations}}
<p class="configs">configurations: {{join .Configurations ", "}}</p>
{{- end}}
{{- if not .Changes}}
<p>No changes.</p>
{{- else}}
{{- range .Changes}}
{{template "change" .}}
{{- end}}
<p class="summary">{{.Summary.TotalChanges}} change(s), {{.Summary.BreakingChanges}} breaking — generated by structdiff {{.Version}}</p>
{{- end}}
</body>
</html>
{{define "change"}}
<div class="change {{.Type}}">
<span>{{marker .Type}}</span>
<strong>{{.Kind}}</strong>
{{if and (eq (printf "%s" .Type) "renamed") .OldName}}{{.OldName}} &rarr; {{end}}{{.Name}}
{{- if .Impact}} <span class="impact {{.Impact}}">{{.Impact}}</span>{{end}}
{{- if .Configurations}} <span class="configs">{{join .Configurations ", "}}</span>{{end}}
</div>
{{- range .Caveats}}
<div class="caveat">{{.}}</div>
{{- end}}
{{- if .Children}}
<div class="children">
{{- range .Children}}
{{template "change" .}}
{{- end}}
</div>
{{- end}}
{{end}}`))

// WriteHTML writes the report as one self-contained page.
func WriteHTML(w io.Writer, report *Report) error {
	return htmlTemplate.Execute(w, report)
}
