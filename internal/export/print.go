package export

import (
	"bytes"
	"html/template"

	"inventora/webclient/internal/report"
)

var printTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"cell": cellText,
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; text-align: left; vertical-align: top; white-space: pre-line; }
    th { background: #428bca; color: #fff; }
    tbody tr:nth-child(even) { background: #f5f5f5; }
  </style>
</head>
<body onload="window.print()">
  <h2>{{.Title}}</h2>
  <table>
    <thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>{{range .Rows}}<tr>{{range .}}<td>{{cell .}}</td>{{end}}</tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

// PrintableHTML renders a standalone page that opens the browser's print
// dialog as soon as it loads.
func PrintableHTML(data report.Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
