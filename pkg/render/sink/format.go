package sink

import (
	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatPNG, FormatPDF, FormatSVG, FormatHTML, FormatJSON}

// Options configures [Render].
type Options struct {
	Width, Height int  // pixels, figure size when zero
	StaticSVG     bool // draw svg with gonum/plot instead of the interactive writer
}

// Render dispatches to the renderer for format.
func Render(fig *scene.Figure, format string, o Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return RenderJSON(fig)
	case FormatHTML:
		return RenderHTML(fig, WithSize(o.Width, o.Height)), nil
	case FormatSVG:
		if !o.StaticSVG {
			return RenderSVG(fig, WithSize(o.Width, o.Height), WithTooltips(), WithHighlight()), nil
		}
	}
	return RenderStatic(fig, format, o.Width, o.Height)
}
