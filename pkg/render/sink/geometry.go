package sink

import "github.com/matzehuels/rangeplot/pkg/render/scene"

const (
	marginLeft   = 90.0
	marginRight  = 30.0
	legendWidth  = 170.0
	panelTitle   = 34.0
	panelAxis    = 30.0
	panelGap     = 8.0
	minPanelSize = 24.0
)

type rect struct{ X, Y, W, H float64 }

// axes maps data coordinates onto a pixel rectangle. Pixel y grows down.
type axes struct {
	r                      rect
	xmin, xmax, ymin, ymax float64
}

func (a axes) px(x float64) float64 {
	if a.xmax == a.xmin {
		return a.r.X
	}
	return a.r.X + (x-a.xmin)/(a.xmax-a.xmin)*a.r.W
}

func (a axes) py(y float64) float64 {
	if a.ymax == a.ymin {
		return a.r.Y + a.r.H
	}
	return a.r.Y + a.r.H - (y-a.ymin)/(a.ymax-a.ymin)*a.r.H
}

// layoutFigure splits the drawing area between panels and tracks, top to
// bottom, with heights proportional to their weights.
func layoutFigure(fig *scene.Figure, width, height float64) (panels, tracks []rect) {
	right := marginRight
	if len(fig.Legend) > 0 {
		right += legendWidth
	}
	plotW := max(width-marginLeft-right, minPanelSize)

	weights := make([]float64, 0, len(fig.Panels)+len(fig.Tracks))
	for _, p := range fig.Panels {
		weights = append(weights, max(p.Weight, 0.5))
	}
	for _, t := range fig.Tracks {
		weights = append(weights, max(t.Height, 0.5))
	}
	n := float64(len(weights))
	total := 0.0
	for _, w := range weights {
		total += w
	}
	avail := height - n*(panelTitle+panelAxis+panelGap)
	if total == 0 {
		total = 1
	}

	y := 0.0
	rects := make([]rect, len(weights))
	for i, w := range weights {
		h := max(avail*w/total, minPanelSize)
		y += panelTitle
		if i >= len(fig.Panels) {
			y += fig.Tracks[i-len(fig.Panels)].YSpace
		}
		rects[i] = rect{X: marginLeft, Y: y, W: plotW, H: h}
		y += h + panelAxis + panelGap
	}
	return rects[:len(fig.Panels)], rects[len(fig.Panels):]
}

// figureHeight is the pixel height needed by layoutFigure's result.
func figureHeight(panels, tracks []rect, height float64) float64 {
	bottom := height
	for _, r := range append(panels, tracks...) {
		bottom = max(bottom, r.Y+r.H+panelAxis+panelGap)
	}
	return bottom
}
