package sink

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/rangeplot/pkg/render/scene"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; padding: 16px; background: {{.Background}}; font-family: Helvetica, Arial, sans-serif; }
  .warnings { color: #8a6d3b; background: #fcf8e3; border: 1px solid #faebcc; padding: 8px 16px; margin-bottom: 12px; }
  svg { max-width: 100%; height: auto; }
</style>
</head>
<body>
{{- if .Warnings}}
<ul class="warnings">
{{- range .Warnings}}
  <li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{.SVG}}
</body>
</html>
`))

// RenderHTML wraps the interactive SVG of fig in a standalone page. Figure
// warnings are listed above the plot.
func RenderHTML(fig *scene.Figure, opts ...SVGOption) []byte {
	title := fig.Title
	if title == "" {
		title = "rangeplot"
	}
	opts = append([]SVGOption{WithTooltips(), WithHighlight()}, opts...)

	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title      string
		Background template.CSS
		Warnings   []string
		SVG        template.HTML
	}{
		Title:      title,
		Background: template.CSS(attr(fig.Style.Background)),
		Warnings:   fig.Warnings,
		SVG:        template.HTML(RenderSVG(fig, opts...)),
	})
	if err != nil {
		// Only reachable on a writer error, which bytes.Buffer never returns.
		panic(err)
	}
	return buf.Bytes()
}
