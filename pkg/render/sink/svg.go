package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/rangeplot/pkg/render/scene"
)

const geneInteractionCSS = `
    text { font-family: Helvetica, Arial, sans-serif; }
    .gene .exon { transition: opacity 0.15s ease; }
    .gene:hover .exon { stroke-width: 1.5; }
    .dim { opacity: 0.25; }
    .legend-item { cursor: pointer; }
    #tooltip { pointer-events: none; }`

const legendHighlightJS = `
    document.querySelectorAll('.legend-item').forEach(item => {
      const tag = item.dataset.tag;
      item.addEventListener('mouseenter', () => {
        document.querySelectorAll('.exon').forEach(e => e.classList.toggle('dim', e.dataset.tag !== tag));
      });
      item.addEventListener('mouseleave', () => {
        document.querySelectorAll('.exon.dim').forEach(e => e.classList.remove('dim'));
      });
    });`

const tooltipJS = `
    (function() {
      const svg = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
      const tip = document.getElementById('tooltip');
      const box = tip.querySelector('rect');
      const txt = tip.querySelector('text');
      function show(ev, raw) {
        while (txt.firstChild) txt.removeChild(txt.firstChild);
        raw.replace(/<\/?b>/g, '').split(/<br>|\n/).forEach((line, i) => {
          const t = document.createElementNS('http://www.w3.org/2000/svg', 'tspan');
          t.setAttribute('x', 6);
          t.setAttribute('dy', i === 0 ? '1.1em' : '1.2em');
          t.textContent = line;
          txt.appendChild(t);
        });
        const pt = svg.createSVGPoint();
        pt.x = ev.clientX; pt.y = ev.clientY;
        const p = pt.matrixTransform(svg.getScreenCTM().inverse());
        const bb = txt.getBBox();
        box.setAttribute('width', bb.width + 12);
        box.setAttribute('height', bb.height + 8);
        tip.setAttribute('transform', 'translate(' + (p.x + 12) + ',' + (p.y + 12) + ')');
        tip.setAttribute('visibility', 'visible');
      }
      document.querySelectorAll('[data-tip]').forEach(el => {
        el.addEventListener('mousemove', ev => show(ev, el.dataset.tip));
        el.addEventListener('mouseleave', () => tip.setAttribute('visibility', 'hidden'));
      });
    })();`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height int
	tooltips      bool
	highlight     bool
}

// WithSize overrides the figure size. Zero values keep the figure's own.
func WithSize(width, height int) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithTooltips adds hover tooltips for genes, shrunk regions and points.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithHighlight dims the other color tags while hovering a legend entry.
func WithHighlight() SVGOption { return func(r *svgRenderer) { r.highlight = true } }

// RenderSVG writes fig as a standalone interactive SVG document.
func RenderSVG(fig *scene.Figure, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	writeSVG(&buf, fig, opts...)
	return buf.Bytes()
}

func newSVGRenderer(fig *scene.Figure, opts ...SVGOption) svgRenderer {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 {
		r.width = fig.Width
	}
	if r.height <= 0 {
		r.height = fig.Height
	}
	return r
}

func writeSVG(buf *bytes.Buffer, fig *scene.Figure, opts ...SVGOption) {
	r := newSVGRenderer(fig, opts...)
	width := float64(r.width)
	panels, tracks := layoutFigure(fig, width, float64(r.height))
	height := figureHeight(panels, tracks, float64(r.height))

	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", geneInteractionCSS)
	fmt.Fprintf(buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", attr(fig.Style.Background))

	for i := range fig.Panels {
		renderPanel(buf, fig, i, panels[i])
	}
	for i := range fig.Tracks {
		renderTrack(buf, fig, i, tracks[i])
	}
	if len(fig.Legend) > 0 {
		renderLegend(buf, fig, width-marginRight-legendWidth+10)
	}

	if r.highlight && len(fig.Legend) > 0 {
		fmt.Fprintf(buf, "  <script><![CDATA[%s\n  ]]></script>\n", legendHighlightJS)
	}
	if r.tooltips {
		renderTooltip(buf, fig.Style)
	}
	buf.WriteString("</svg>\n")
}

// =============================================================================
// Panels
// =============================================================================

func renderPanel(buf *bytes.Buffer, fig *scene.Figure, i int, rc rect) {
	p := fig.Panels[i]
	st := fig.Style
	a := axes{r: rc, xmin: p.XMin, xmax: p.XMax, ymin: p.YMin, ymax: p.YMax}

	fmt.Fprintf(buf, `  <g class="panel" data-chrom="%s">`+"\n", attr(p.Chromosome))
	renderTitle(buf, rc, p.Title, st.TitleSize, st.TitleColor, st.TitleFont)
	fmt.Fprintf(buf, `    <clipPath id="clip-%d"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
		i, rc.X, rc.Y, rc.W, rc.H)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
		rc.X, rc.Y, rc.W, rc.H, attr(st.PlotBackground), attr(st.PlotBorder))

	for _, t := range p.XTicks {
		x := a.px(t.Value)
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="2,2"/>`+"\n",
			x, rc.Y, x, rc.Y+rc.H, attr(st.GridColor))
	}

	fmt.Fprintf(buf, `    <g clip-path="url(#clip-%d)">`+"\n", i)
	for _, s := range p.Shrunk {
		fmt.Fprintf(buf, `      <rect class="shrunk" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`+"\n",
			a.px(s.X0), rc.Y, a.px(s.X1)-a.px(s.X0), rc.H, attr(s.Fill), tipAttr(s.Tooltip))
	}
	for _, g := range p.Glyphs {
		renderGlyph(buf, a, g, st)
	}
	for _, l := range p.Separators {
		renderLine(buf, a, l, "      ")
	}
	buf.WriteString("    </g>\n")

	renderXTicks(buf, a, p.XTicks, st)
	renderYTicks(buf, a, p.YTicks, st)
	buf.WriteString("  </g>\n")
}

func renderGlyph(buf *bytes.Buffer, a axes, g scene.Glyph, st scene.Style) {
	fmt.Fprintf(buf, `      <g class="gene" data-gene="%s" data-dataset="%d">`+"\n", attr(g.ID), g.Dataset)
	h := g.Hover
	fmt.Fprintf(buf, `        <rect class="hover" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`+"\n",
		a.px(h.X0), a.py(h.Y1), a.px(h.X1)-a.px(h.X0), max(a.py(h.Y0)-a.py(h.Y1), 1), attr(h.Fill), tipAttr(h.Tooltip))
	for _, l := range g.Introns {
		renderLine(buf, a, l, "        ")
	}
	for _, b := range g.Exons {
		stroke := "none"
		if b.Border != "" {
			stroke = attr(b.Border)
		}
		fmt.Fprintf(buf, `        <rect class="exon" data-tag="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"%s/>`+"\n",
			attr(b.Tag), a.px(b.X0), a.py(b.Y1), a.px(b.X1)-a.px(b.X0), a.py(b.Y0)-a.py(b.Y1),
			attr(b.Fill), stroke, tipAttr(b.Tooltip))
	}
	for _, l := range g.Chevrons {
		renderLine(buf, a, l, "        ")
	}
	if g.Label != nil {
		fmt.Fprintf(buf, `        <text class="label" x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			a.px(g.Label.X), a.py(g.Label.Y), g.Label.Size, attr(st.TitleColor), escapeXML(g.Label.Text))
	}
	buf.WriteString("      </g>\n")
}

func renderLine(buf *bytes.Buffer, a axes, l scene.Line, indent string) {
	dash := ""
	if l.Dashed {
		dash = ` stroke-dasharray="3,3"`
	}
	fmt.Fprintf(buf, `%s<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
		indent, a.px(l.X0), a.py(l.Y0), a.px(l.X1), a.py(l.Y1), attr(l.Color), l.Width, dash)
}

func renderTitle(buf *bytes.Buffer, rc rect, title string, size float64, color, font string) {
	if title == "" {
		return
	}
	family := ""
	if font != "" {
		family = fmt.Sprintf(` font-family="%s"`, attr(font))
	}
	fmt.Fprintf(buf, `    <text class="title" x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" fill="%s"%s>%s</text>`+"\n",
		rc.X+rc.W/2, rc.Y-10, size, attr(color), family, escapeXML(title))
}

func renderXTicks(buf *bytes.Buffer, a axes, ticks []scene.Tick, st scene.Style) {
	y := a.r.Y + a.r.H
	for _, t := range ticks {
		x := a.px(t.Value)
		if x < a.r.X-0.5 || x > a.r.X+a.r.W+0.5 {
			continue
		}
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", x, y, x, y+4, attr(st.TitleColor))
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x, y+16, st.TextSize, attr(st.TitleColor), escapeXML(t.Label))
	}
}

func renderYTicks(buf *bytes.Buffer, a axes, ticks []scene.Tick, st scene.Style) {
	for _, t := range ticks {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			a.r.X-6, a.py(t.Value), st.TextSize, attr(st.TitleColor), escapeXML(t.Label))
	}
}

// =============================================================================
// Tracks, legend and tooltip
// =============================================================================

func renderTrack(buf *bytes.Buffer, fig *scene.Figure, i int, rc rect) {
	t := fig.Tracks[i]
	st := fig.Style
	a := axes{r: rc, ymin: t.YMin, ymax: t.YMax}
	if len(fig.Panels) == 1 {
		a.xmin, a.xmax = fig.Panels[0].XMin, fig.Panels[0].XMax
	} else if len(t.Points) > 0 {
		a.xmin, a.xmax = t.Points[0].X, t.Points[0].X
		for _, p := range t.Points {
			a.xmin, a.xmax = min(a.xmin, p.X), max(a.xmax, p.X)
		}
	}

	buf.WriteString(`  <g class="track">` + "\n")
	renderTitle(buf, rc, t.Title, t.TitleSize, t.TitleColor, "")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
		rc.X, rc.Y, rc.W, rc.H, attr(st.PlotBackground), attr(st.PlotBorder))
	if t.YLabel != "" {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" fill="%s" transform="rotate(-90 %.2f %.2f)">%s</text>`+"\n",
			rc.X-40, rc.Y+rc.H/2, st.TextSize, attr(st.TitleColor), rc.X-40, rc.Y+rc.H/2, escapeXML(t.YLabel))
	}
	for _, p := range t.Points {
		fmt.Fprintf(buf, `    <circle class="point" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>`+"\n",
			a.px(p.X), a.py(p.Y), p.Size*markerScale, attr(p.Color), tipAttr(p.Tooltip))
	}
	buf.WriteString("  </g>\n")
}

func renderLegend(buf *bytes.Buffer, fig *scene.Figure, x float64) {
	st := fig.Style
	y := panelTitle
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, item := range fig.Legend {
		fmt.Fprintf(buf, `    <g class="legend-item" data-tag="%s">`+"\n", attr(item.Tag))
		fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="14" height="14" fill="%s"/>`+"\n", x, y, attr(item.Color))
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" dominant-baseline="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x+20, y+7, st.TextSize, attr(st.TitleColor), escapeXML(item.Tag))
		buf.WriteString("    </g>\n")
		y += 20
	}
	buf.WriteString("  </g>\n")
}

func renderTooltip(buf *bytes.Buffer, st scene.Style) {
	fmt.Fprintf(buf, `  <g id="tooltip" visibility="hidden"><rect rx="3" fill="%s" stroke="%s"/><text font-size="12" fill="%s"></text></g>`+"\n",
		attr(st.TagBackground), attr(st.PlotBorder), attr(st.TitleColor))
	fmt.Fprintf(buf, "  <script><![CDATA[%s\n  ]]></script>\n", tooltipJS)
}

func tipAttr(tip string) string {
	if tip == "" {
		return ""
	}
	return fmt.Sprintf(` data-tip="%s"`, attr(tip))
}

func attr(s string) string {
	if s == "" {
		return "none"
	}
	return escapeXML(s)
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
