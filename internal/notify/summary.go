package notify

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/palclasses/site-api/internal/model"
)

var summaryTmpl = template.Must(template.New("summary").Parse(`<h2>{{.Title}}</h2>
<table border="1" cellpadding="8" cellspacing="0" style="border-collapse: collapse; width: 100%; max-width: 600px;">
<tr style="background-color: #f2f2f2;"><th align="left">Field</th><th align="left">Details</th></tr>
{{- range .Fields}}
<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
{{- end}}
</table>
`))

// RenderLeadSummary renders s as an HTML table plus a plain-text
// alternative.  Values are HTML-escaped.
func RenderLeadSummary(s model.LeadSummary) (html, text string, err error) {
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, s); err != nil {
		return "", "", err
	}

	var tb strings.Builder
	tb.WriteString(s.Title)
	tb.WriteString("\n\n")
	for _, f := range s.Fields {
		tb.WriteString(f.Label)
		tb.WriteString(": ")
		tb.WriteString(f.Value)
		tb.WriteString("\n")
	}
	return buf.String(), tb.String(), nil
}
