package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

func exampleFigure(t *testing.T, p prep.Params, opts scene.Options) *scene.Figure {
	t.Helper()
	return themedFigure(t, p, theme.Default(), opts)
}

func themedFigure(t *testing.T, p prep.Params, o *theme.Options, opts scene.Options) *scene.Figure {
	t.Helper()
	p.IDCols = []string{"transcript_id"}
	f, err := prep.Prepare([]*ranges.Dataset{ranges.Example1()}, p, o)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return scene.Build(f, o, opts)
}

func TestRenderStatic(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{Text: true, Legend: true})
	tests := []struct {
		format string
		prefix []byte
	}{
		{FormatPNG, []byte("\x89PNG\r\n\x1a\n")},
		{FormatPDF, []byte("%PDF")},
		{FormatSVG, []byte("<?xml")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := RenderStatic(fig, tt.format, 800, 400)
			if err != nil {
				t.Fatalf("RenderStatic() error: %v", err)
			}
			if !bytes.HasPrefix(data, tt.prefix) {
				t.Errorf("output starts with %q, want %q", data[:min(len(data), 8)], tt.prefix)
			}
		})
	}
}

func TestRenderStaticUnsupported(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{})
	_, err := RenderStatic(fig, FormatHTML, 0, 0)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderStaticWithTrack(t *testing.T) {
	fig := exampleFigure(t, prep.Params{Chromosomes: []string{"1"}}, scene.Options{
		Tracks: []scene.Track{{
			Title: "depth", Height: 0.5, YMin: 0, YMax: 4,
			Points: []scene.Point{{X: 100, Y: 1, Color: "blue", Size: 8}, {X: 130, Y: 3, Color: "red", Size: 8}},
		}},
	})
	data, err := RenderStatic(fig, FormatPNG, 0, 0)
	if err != nil {
		t.Fatalf("RenderStatic() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty PNG")
	}
}

func TestPanelPlotKeepsLimits(t *testing.T) {
	limits, err := prep.ParseLimits("1=20:60")
	if err != nil {
		t.Fatal(err)
	}
	fig := exampleFigure(t, prep.Params{Limits: limits}, scene.Options{Text: true})
	pn := fig.Panels[0]
	if pn.XMin <= 1 {
		t.Fatalf("panel x range %v..%v does not reflect limits", pn.XMin, pn.XMax)
	}
	p, err := panelPlot(fig, 0)
	if err != nil {
		t.Fatalf("panelPlot() error: %v", err)
	}
	got := [4]float64{p.X.Min, p.X.Max, p.Y.Min, p.Y.Max}
	want := [4]float64{pn.XMin, pn.XMax, pn.YMin, pn.YMax}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("axis range mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackPlotKeepsPanelRange(t *testing.T) {
	fig := exampleFigure(t, prep.Params{Chromosomes: []string{"1"}}, scene.Options{
		Tracks: []scene.Track{{
			Title: "depth", Height: 0.5, YMin: 0, YMax: 4,
			Points: []scene.Point{{X: -500, Y: 9, Color: "blue", Size: 8}, {X: 30, Y: 2, Color: "red", Size: 8}},
		}},
	})
	p, err := trackPlot(fig, 0)
	if err != nil {
		t.Fatalf("trackPlot() error: %v", err)
	}
	pn := fig.Panels[0]
	got := [4]float64{p.X.Min, p.X.Max, p.Y.Min, p.Y.Max}
	want := [4]float64{pn.XMin, pn.XMax, 0, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("axis range mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSVG(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{Text: true, Legend: true})
	svg := string(RenderSVG(fig, WithTooltips(), WithHighlight()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`data-gene="t1"`,
		`class="exon"`,
		`data-tip=`,
		`class="legend-item"`,
		`id="tooltip"`,
		`text-anchor="end"`,
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, `<g class="panel"`); got != len(fig.Panels) {
		t.Errorf("panel groups = %d, want %d", got, len(fig.Panels))
	}
}

func TestRenderSVGPlain(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{})
	svg := string(RenderSVG(fig))
	if strings.Contains(svg, "<script>") {
		t.Error("plain SVG should not carry scripts")
	}
	if strings.Contains(svg, "legend-item") {
		t.Error("legend rendered without legend entries")
	}
}

func TestRenderSVGShrunk(t *testing.T) {
	o := theme.Default()
	if err := o.Set("shrink_threshold", 10); err != nil {
		t.Fatal(err)
	}
	fig := themedFigure(t, prep.Params{Packed: true, Shrink: true}, o, scene.Options{})
	svg := string(RenderSVG(fig, WithTooltips()))
	if !strings.Contains(svg, `class="shrunk"`) {
		t.Error("SVG missing shrunk region")
	}
	if !strings.Contains(svg, `stroke-dasharray="3,3"`) {
		t.Error("SVG missing dashed intron")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	fig := &scene.Figure{
		Width: 400, Height: 200,
		Panels: []scene.Panel{{
			Chromosome: "chr<1>", Title: "a & b", XMin: 0, XMax: 10, YMin: 0, YMax: 1, Weight: 1,
			Glyphs: []scene.Glyph{{
				ID:    `"q"`,
				Exons: []scene.Box{{X0: 1, X1: 2, Y0: 0.2, Y1: 0.8, Fill: "red", Tooltip: "x<br>y"}},
			}},
		}},
	}
	svg := string(RenderSVG(fig, WithTooltips()))
	for _, want := range []string{`data-chrom="chr&lt;1&gt;"`, "a &amp; b", `data-gene="&#34;q&#34;"`, `data-tip="x&lt;br&gt;y"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing escaped %q", want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{Warnings: true})
	fig.Title = "Example"
	fig.Warnings = append(fig.Warnings, "too many genes <shown>")
	html := string(RenderHTML(fig))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Example</title>",
		`<ul class="warnings">`,
		"<li>too many genes &lt;shown&gt;</li>",
		"<svg",
		`id="tooltip"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestRenderHTMLWithoutWarnings(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{})
	if strings.Contains(string(RenderHTML(fig)), "warnings\">") {
		t.Error("warnings list rendered for a figure without warnings")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{Text: true, Legend: true})
	data, err := RenderJSON(fig)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	got, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if diff := cmp.Diff(fig, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON([]byte("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestRender(t *testing.T) {
	fig := exampleFigure(t, prep.Params{}, scene.Options{})
	tests := []struct {
		format string
		o      Options
		prefix string
	}{
		{FormatJSON, Options{}, "{"},
		{FormatHTML, Options{}, "<!DOCTYPE html>"},
		{FormatSVG, Options{}, "<svg"},
		{FormatSVG, Options{StaticSVG: true}, "<?xml"},
		{FormatPNG, Options{Width: 300, Height: 200}, "\x89PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(fig, tt.format, tt.o)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("output starts with %q, want %q", string(data[:min(len(data), 12)]), tt.prefix)
			}
		})
	}

	if _, err := Render(fig, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
