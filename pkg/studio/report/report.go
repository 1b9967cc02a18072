package report

import (
	"fmt"
	"html/template"
	"io"
)

// Entry is one reviewed artifact: the local image and the prompts behind it.
type Entry struct {
	Label          string
	ImageUrl       string
	OriginalPrompt string
	RevisedPrompt  string
}

// Failure is a batch item that produced no artifact.
type Failure struct {
	Label string
	Error string
}

type Report struct {
	Title    string
	Entries  []Entry
	Failures []Failure
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	// Local file URLs are built by the studio itself; html/template would
	// otherwise replace the file: scheme with #ZgotmplZ.
	"fileUrl": func(u string) template.URL { return template.URL(u) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th>Image</th><th>Style</th><th>Original Prompt</th><th>Revised Prompt</th></tr>
{{- range .Entries}}
<tr>
<td><img src="{{fileUrl .ImageUrl}}" alt="{{.Label}}" width="256"></td>
<td>{{.Label}}</td>
<td>{{.OriginalPrompt}}</td>
<td>{{.RevisedPrompt}}</td>
</tr>
{{- end}}
</table>
{{- if .Failures}}
<h2>Failed</h2>
<ul>
{{- range .Failures}}
<li>{{.Label}}: {{.Error}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

func (r *Report) Render(w io.Writer) error {
	if r.Title == "" {
		r.Title = "Generated images"
	}

	if err := pageTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return nil
}
