package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/shrink"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// Figure defaults.
const (
	DefaultWidth  = 1600
	DefaultHeight = 800
	DefaultTitle  = "Chromosome {chrom}"
)

const (
	intronWidth    = 0.7
	separatorWidth = 1.0
	xMargin        = 0.05
	chevronInset   = 0.01
	hoverFactor    = 1.0 / 160
)

// Options controls what [Build] emits beyond the prepared data.
type Options struct {
	Title    string   // panel title template, {chrom} is replaced
	Text     bool     // draw gene labels
	Legend   bool     // emit the color legend
	YLabels  []string // one per dataset, centered on its band
	Packed   bool     // unpacked panels show gene ids on the y axis
	Tracks   []Track  // aligned scatter tracks, x in original coordinates
	Warnings bool     // copy preparation warnings to the figure
	Width    int
	Height   int
}

// Build lays out every chromosome of f as a panel. A nil o means the light
// theme defaults.
func Build(f *prep.Frame, o *theme.Options, opts Options) *Figure {
	if o == nil {
		o = theme.Default()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	fig := &Figure{
		Width:  orDefault(opts.Width, DefaultWidth),
		Height: orDefault(opts.Height, DefaultHeight),
		Style: Style{
			Background:     o.FigBkg,
			PlotBackground: o.PlotBkg,
			PlotBorder:     o.PlotBorder,
			GridColor:      o.GridColor,
			TitleColor:     o.TitleColor,
			TitleSize:      o.TitleSize,
			TitleFont:      o.TitleFont,
			TextSize:       o.TextSize,
			TagBackground:  o.TagBkg,
		},
	}

	multi := len(f.Counts) > 1
	for ci := range f.Chroms {
		fig.Panels = append(fig.Panels, buildPanel(f, &f.Chroms[ci], o, opts, multi))
	}

	if opts.Legend {
		for _, e := range f.Legend {
			fig.Legend = append(fig.Legend, LegendItem{Tag: e.Tag, Color: e.Color})
		}
	}
	if opts.Warnings {
		for _, w := range f.Warnings {
			fig.Warnings = append(fig.Warnings, w.Message)
		}
	}
	if len(opts.Tracks) > 0 && len(f.Chroms) == 1 {
		fig.Tracks = alignTracks(opts.Tracks, f.Chroms[0].Shrink)
	}
	return fig
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// =============================================================================
// Panels
// =============================================================================

func buildPanel(f *prep.Frame, c *prep.Chrom, o *theme.Options, opts Options, multi bool) Panel {
	span := float64(c.Hi - c.Lo)
	p := Panel{
		Chromosome: c.Name,
		Title:      strings.ReplaceAll(opts.Title, "{chrom}", c.Name),
		XMin:       float64(c.Lo) - xMargin*span,
		XMax:       float64(c.Hi) + xMargin*span,
		YMin:       0.5 - o.ExonHeight/2 - o.VSpacer,
		YMax:       float64(c.Rows) + o.VSpacer,
		Weight:     c.YHeight,
		XTicks:     xTicks(c, o.XTicks),
		YTicks:     yTicks(f, c, opts),
	}

	for _, r := range c.Shrink.All() {
		p.Shrunk = append(p.Shrunk, Region{
			X0:      float64(r.AdjStart),
			X1:      float64(r.AdjEnd),
			Fill:    o.ShrunkBkg,
			Tooltip: fmt.Sprintf("Shrinked region:\n[%d - %d]", r.Start, r.End),
		})
	}

	if multi {
		ys := []float64{p.YMax}
		for _, s := range c.Separators {
			ys = append(ys, float64(s)+0.5)
		}
		for _, y := range ys {
			p.Separators = append(p.Separators, Line{
				X0: p.XMin, Y0: y, X1: p.XMax, Y1: y,
				Color: o.PlotBorder, Width: separatorWidth,
			})
		}
	}

	for _, gi := range c.Genes {
		p.Glyphs = append(p.Glyphs, buildGlyph(f, c, &f.Genes[gi], o, opts, p.XMax-p.XMin))
	}
	return p
}

func yTicks(f *prep.Frame, c *prep.Chrom, opts Options) []Tick {
	var ticks []Tick
	switch {
	case len(opts.YLabels) > 0:
		for i, ds := range c.Datasets {
			if ds < len(opts.YLabels) {
				ticks = append(ticks, Tick{Value: c.Bands[i].Center(), Label: opts.YLabels[ds]})
			}
		}
	case !opts.Packed:
		for _, gi := range c.Genes {
			g := f.Genes[gi]
			ticks = append(ticks, Tick{Value: float64(g.Row) + 0.5, Label: g.ID})
		}
	}
	return ticks
}

// =============================================================================
// Glyphs
// =============================================================================

func buildGlyph(f *prep.Frame, c *prep.Chrom, g *prep.Gene, o *theme.Options, opts Options, xrange float64) Glyph {
	y := float64(g.Row) + 0.5
	gl := Glyph{
		ID:      g.ID,
		Dataset: g.Dataset,
		Y:       y,
		Hover: Box{
			X0: float64(g.Start), X1: float64(g.End),
			Y0: y - o.ExonHeight*hoverFactor, Y1: y + o.ExonHeight*hoverFactor,
			Fill: o.PlotBkg, Border: o.PlotBkg,
			Tooltip: g.Tooltip,
		},
	}
	if len(g.Rows) == 0 {
		return gl
	}

	rows := make([]prep.Row, len(g.Rows))
	for i, ri := range g.Rows {
		rows[i] = f.Rows[ri]
	}
	first := rows[0]

	intronColor := o.IntronColor
	if intronColor == "" {
		intronColor = first.Color
	}
	incl := o.ArrowSize.Of(xrange) / 2
	arrow := chevronSpec{
		incl:   incl,
		height: o.ExonHeight,
		strand: g.Strand,
		color:  o.ArrowColor,
		width:  o.ArrowLineWidth,
	}

	spans := make([]shrink.Span, len(rows))
	for i, r := range rows {
		spans[i] = shrink.Span{Start: r.Start, End: r.End}
	}
	placed := false
	for _, gap := range gaps(shrink.Merge(spans)) {
		gl.Introns = append(gl.Introns, intronSegments(gap, c.Shrink, y, intronColor)...)
		if float64(gap.End-gap.Start) >= 2*incl {
			gl.Chevrons = append(gl.Chevrons, arrow.at(float64(gap.Start+gap.End)/2, y)...)
			placed = true
		}
	}

	slices.SortStableFunc(rows, func(a, b prep.Row) int {
		switch {
		case a.Depth < b.Depth:
			return -1
		case a.Depth > b.Depth:
			return 1
		}
		return 0
	})
	for _, r := range rows {
		gl.Exons = append(gl.Exons, Box{
			X0: float64(r.Start), X1: float64(r.End),
			Y0: y - r.Height/2, Y1: y + r.Height/2,
			Fill:    r.Color,
			Border:  r.Border,
			Tag:     r.Tag,
			Legend:  opts.Legend && r.Legend,
			Tooltip: r.Tooltip,
		})
		if !placed && float64(r.End-r.Start) >= 2*incl {
			gl.Chevrons = append(gl.Chevrons, arrow.at(float64(r.Start+r.End)/2, y)...)
		}
		if opts.Text && g.Label != "" && r.ExonIx == 0 {
			gl.Label = &Label{
				X:    float64(r.Start) - c.TextPad,
				Y:    y,
				Text: g.Label,
				Size: o.TextSize,
			}
		}
	}
	return gl
}

// gaps returns the uncovered stretches between sorted, merged spans.
func gaps(merged []shrink.Span) []shrink.Span {
	var out []shrink.Span
	for i := 1; i < len(merged); i++ {
		out = append(out, shrink.Span{Start: merged[i-1].End, End: merged[i].Start})
	}
	return out
}

// intronSegments draws an intron solid, switching to dashed across every
// shrunk placeholder that starts inside it.
func intronSegments(gap shrink.Span, m *shrink.Map, y float64, color string) []Line {
	seg := func(x0, x1 int, dashed bool) Line {
		return Line{X0: float64(x0), Y0: y, X1: float64(x1), Y1: y, Color: color, Width: intronWidth, Dashed: dashed}
	}
	regions := m.Within(gap.Start, gap.End)
	if len(regions) == 0 {
		return []Line{seg(gap.Start, gap.End, false)}
	}

	var out []Line
	pos := gap.Start
	for _, r := range regions {
		if r.AdjStart > pos {
			out = append(out, seg(pos, r.AdjStart, false))
		}
		out = append(out, seg(r.AdjStart, min(r.AdjEnd, gap.End), true))
		pos = r.AdjEnd
	}
	if pos < gap.End {
		out = append(out, seg(pos, gap.End, false))
	}
	return out
}

type chevronSpec struct {
	incl   float64
	height float64
	strand string
	color  string
	width  float64
}

// at returns the two strokes of a chevron centered at (x, y). Plus strand
// chevrons point right, minus strand ones left; other strands get none.
func (c chevronSpec) at(x, y float64) []Line {
	lo := y - c.height/2 + chevronInset
	hi := y + c.height/2 - chevronInset
	line := func(x0, y0, x1, y1 float64) Line {
		return Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c.color, Width: c.width}
	}
	switch c.strand {
	case "+":
		return []Line{
			line(x-c.incl, lo, x+c.incl, y),
			line(x+c.incl, y, x-c.incl, hi),
		}
	case "-":
		return []Line{
			line(x-c.incl, y, x+c.incl, hi),
			line(x+c.incl, lo, x-c.incl, y),
		}
	}
	return nil
}

// =============================================================================
// Tracks
// =============================================================================

func alignTracks(tracks []Track, m *shrink.Map) []Track {
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		t.Points = slices.Clone(t.Points)
		for j := range t.Points {
			t.Points[j].X = float64(m.Forward(int(t.Points[j].X)))
		}
		out[i] = t
	}
	return out
}
