package sink

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

const (
	dpi         = 96
	trackWeight = 0.6
	markerScale = 0.5
)

var dotted = []vg.Length{vg.Points(2), vg.Points(2)}

// RenderStatic draws fig with gonum/plot. Format is png, pdf or svg. Zero
// width or height fall back to the figure size.
func RenderStatic(fig *scene.Figure, format string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = fig.Width
	}
	if height <= 0 {
		height = fig.Height
	}
	w, h := pixels(width), pixels(height)

	var (
		canvas vg.CanvasWriterTo
		dc     draw.Canvas
	)
	switch format {
	case FormatPNG:
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
		canvas, dc = vgimg.PngCanvas{Canvas: c}, draw.New(c)
	case FormatPDF:
		c := vgpdf.New(w, h)
		canvas, dc = c, draw.New(c)
	case FormatSVG:
		c := vgsvg.New(w, h)
		canvas, dc = c, draw.New(c)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "static rendering does not support %q", format)
	}

	if err := drawFigure(dc, fig); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", format)
	}
	return buf.Bytes(), nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

func drawFigure(dc draw.Canvas, fig *scene.Figure) error {
	dc.FillPolygon(colorOr(fig.Style.Background, color.White), rectPoints(dc.Rectangle))

	var weights []float64
	for _, p := range fig.Panels {
		weights = append(weights, max(p.Weight, 0.5)+trackWeight)
	}
	for _, t := range fig.Tracks {
		weights = append(weights, max(t.Height, 0.5)+trackWeight)
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return nil
	}

	full := dc.Rectangle.Size().Y
	top := vg.Length(0)
	tile := func(w float64) draw.Canvas {
		h := full * vg.Length(w/total)
		c := draw.Crop(dc, 0, 0, full-top-h, -top)
		top += h
		return c
	}

	for i := range fig.Panels {
		p, err := panelPlot(fig, i)
		if err != nil {
			return err
		}
		p.Draw(tile(weights[i]))
	}
	for i := range fig.Tracks {
		p, err := trackPlot(fig, i)
		if err != nil {
			return err
		}
		p.Draw(tile(weights[len(fig.Panels)+i]))
	}
	return nil
}

func newPlot(st scene.Style, title string, titleSize float64, titleColor string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = colorOr(st.Background, color.White)
	p.Title.Text = title
	p.Title.TextStyle.Color = colorOr(titleColor, color.Black)
	if titleSize > 0 {
		p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	}

	fg := colorOr(st.TitleColor, color.Black)
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = fg
		ax.Tick.LineStyle.Color = fg
		ax.Tick.Label.Color = fg
		ax.Label.TextStyle.Color = fg
	}
	return p
}

func panelPlot(fig *scene.Figure, i int) (*plot.Plot, error) {
	pn := fig.Panels[i]
	st := fig.Style
	p := newPlot(st, pn.Title, st.TitleSize, st.TitleColor)
	p.X.Tick.Marker = constantTicks(pn.XTicks)
	p.Y.Tick.Marker = constantTicks(pn.YTicks)

	bkg, err := box(pn.XMin, pn.XMax, pn.YMin, pn.YMax, colorOr(st.PlotBackground, color.White), colorOf(st.PlotBorder), 1)
	if err != nil {
		return nil, err
	}
	p.Add(bkg)

	grid := plotter.NewGrid()
	grid.Vertical.Color = colorOr(st.GridColor, color.Gray{Y: 200})
	grid.Vertical.Dashes = dotted
	grid.Horizontal.Color = nil
	p.Add(grid)

	for _, r := range pn.Shrunk {
		poly, err := box(r.X0, r.X1, pn.YMin, pn.YMax, colorOf(r.Fill), nil, 0)
		if err != nil {
			return nil, err
		}
		p.Add(poly)
	}

	var labels plotter.XYLabels
	var sizes []float64
	for _, g := range pn.Glyphs {
		for _, l := range g.Introns {
			if err := addLine(p, l); err != nil {
				return nil, err
			}
		}
		for _, b := range g.Exons {
			poly, err := box(b.X0, b.X1, b.Y0, b.Y1, colorOf(b.Fill), colorOf(b.Border), 0.5)
			if err != nil {
				return nil, err
			}
			p.Add(poly)
		}
		for _, l := range g.Chevrons {
			if err := addLine(p, l); err != nil {
				return nil, err
			}
		}
		if g.Label != nil {
			labels.XYs = append(labels.XYs, plotter.XY{X: g.Label.X, Y: g.Label.Y})
			labels.Labels = append(labels.Labels, g.Label.Text)
			sizes = append(sizes, g.Label.Size)
		}
	}
	for _, l := range pn.Separators {
		if err := addLine(p, l); err != nil {
			return nil, err
		}
	}

	if len(labels.Labels) > 0 {
		lp, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "labels")
		}
		for j := range lp.TextStyle {
			lp.TextStyle[j].XAlign = text.XRight
			lp.TextStyle[j].YAlign = text.YCenter
			lp.TextStyle[j].Color = colorOr(st.TitleColor, color.Black)
			if sizes[j] > 0 {
				lp.TextStyle[j].Font.Size = vg.Points(sizes[j])
			}
		}
		p.Add(lp)
	}

	if i == 0 && len(fig.Legend) > 0 {
		p.Legend.Top = true
		p.Legend.TextStyle.Color = colorOr(st.TitleColor, color.Black)
		for _, item := range fig.Legend {
			swatch, err := box(0, 1, 0, 1, colorOf(item.Color), nil, 0)
			if err != nil {
				return nil, err
			}
			p.Legend.Add(item.Tag, swatch)
		}
	}

	// Add widens the axes to every plotter's data range; pin them last.
	p.X.Min, p.X.Max = pn.XMin, pn.XMax
	p.Y.Min, p.Y.Max = pn.YMin, pn.YMax
	return p, nil
}

func trackPlot(fig *scene.Figure, i int) (*plot.Plot, error) {
	t := fig.Tracks[i]
	p := newPlot(fig.Style, t.Title, t.TitleSize, t.TitleColor)
	p.Y.Label.Text = t.YLabel
	pin := func() {
		p.Y.Min, p.Y.Max = t.YMin, t.YMax
		if len(fig.Panels) == 1 {
			p.X.Min, p.X.Max = fig.Panels[0].XMin, fig.Panels[0].XMax
		}
	}
	if len(fig.Panels) == 1 {
		p.X.Tick.Marker = constantTicks(fig.Panels[0].XTicks)
	}
	if len(t.Points) == 0 {
		pin()
		return p, nil
	}

	xys := make(plotter.XYs, len(t.Points))
	for j, pt := range t.Points {
		xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "track %q", t.Title)
	}
	sc.GlyphStyleFunc = func(j int) draw.GlyphStyle {
		pt := t.Points[j]
		return draw.GlyphStyle{
			Color:  colorOr(pt.Color, color.Black),
			Radius: vg.Points(pt.Size * markerScale),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)
	pin()
	return p, nil
}

func constantTicks(ticks []scene.Tick) plot.ConstantTicks {
	out := make(plot.ConstantTicks, len(ticks))
	for i, t := range ticks {
		out[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}

func box(x0, x1, y0, y1 float64, fill, border color.Color, width float64) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "polygon")
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	if border != nil {
		poly.LineStyle.Color = border
		poly.LineStyle.Width = vg.Points(width)
	}
	return poly, nil
}

func addLine(p *plot.Plot, l scene.Line) error {
	ln, err := plotter.NewLine(plotter.XYs{{X: l.X0, Y: l.Y0}, {X: l.X1, Y: l.Y1}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "line")
	}
	ln.LineStyle.Color = colorOr(l.Color, color.Black)
	ln.LineStyle.Width = vg.Points(l.Width)
	if l.Dashed {
		ln.LineStyle.Dashes = dotted
	}
	p.Add(ln)
	return nil
}

func rectPoints(r vg.Rectangle) []vg.Point {
	return []vg.Point{
		r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y},
	}
}

// colorOf parses s, returning nil for empty or unknown colors.
func colorOf(s string) color.Color {
	if s == "" {
		return nil
	}
	c, err := theme.ParseColor(s)
	if err != nil {
		return nil
	}
	return c
}

func colorOr(s string, def color.Color) color.Color {
	if c := colorOf(s); c != nil {
		return c
	}
	return def
}
