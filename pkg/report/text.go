package report

import (
	"fmt"
	"io"
	"text/template"
)

const textTemplate = `Security Explain Plan ({{.Generated}})
--------------------------------------------------
Grade:            {{.Grade}} ({{.Grade.Label}})
Must-fix effort:  {{.Effort}}h
Known exploited:  {{.KEV}}
Findings:         {{.Total}}{{if .Duplicates}} ({{.Duplicates}} duplicates merged){{end}}
{{- if .Skipped}}
Skipped:          {{.Skipped}} malformed entries
{{- end}}
{{range .Tiers}}
{{.Level}}: {{len .Items}} findings, {{.Hours}}h
{{- range .Items}}
  - {{.ID}}{{if .Package}} [{{.Package}}{{if .InstalledVersion}} {{.InstalledVersion}}{{end}}]{{end}} cvss={{printf "%.1f" .CVSSScore}}{{if .KEV}} KEV{{end}} {{.EffortHours}}h
    {{- if .PatchAvailable}} fix={{.FixedVersion}}{{else}} no patch{{end}}
{{- end}}
{{end}}`

var textTmpl = template.Must(template.New("plan").Parse(textTemplate))

func renderText(w io.Writer, v planView) error {
	if err := textTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("failed to execute template plan: %w", err)
	}
	return nil
}
