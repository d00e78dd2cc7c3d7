package vcf

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// Scatter defaults.
const (
	DefaultMarkerSize  = 8.0
	DefaultMarkerColor = "blue"
	DefaultTrackHeight = 1.0
)

// ScatterSpec describes an aligned scatter track.
type ScatterSpec struct {
	X          string // x column, Start when empty
	Y          string // required
	ColorBy    string // categorical column mapped onto viridis
	SizeBy     string // numeric marker size column
	Title      string // defaults to Y
	TitleSize  float64
	TitleColor string
	Height     float64 // relative to the gene panel
	YSpace     float64 // gap above the track
}

// MakeScatter builds a scatter track from ds to show under a single
// chromosome gene panel. X values are original coordinates; the scene builder
// maps them when the panel is shrunk.
func MakeScatter(ds *ranges.Dataset, spec ScatterSpec) (scene.Track, error) {
	if spec.Y == "" {
		return scene.Track{}, errors.New(errors.ErrCodeInvalidInput, "the y column is required for a scatter track")
	}
	if spec.X == "" {
		spec.X = ranges.ColStart
	}
	if err := errors.ValidateColumns(ds.HasColumn, spec.X, spec.Y, spec.ColorBy, spec.SizeBy); err != nil {
		return scene.Track{}, err
	}

	colors := categoryColors(ds, spec.ColorBy)

	t := scene.Track{
		Title:      spec.Title,
		TitleSize:  spec.TitleSize,
		TitleColor: spec.TitleColor,
		YLabel:     spec.Y,
		Height:     spec.Height,
		YSpace:     spec.YSpace,
		YMin:       math.Inf(1),
		YMax:       math.Inf(-1),
	}
	if t.Title == "" {
		t.Title = spec.Y
	}
	if t.Height <= 0 {
		t.Height = DefaultTrackHeight
	}

	for i, iv := range ds.Intervals {
		x, err := number(iv, spec.X, i)
		if err != nil {
			return scene.Track{}, err
		}
		y, err := number(iv, spec.Y, i)
		if err != nil {
			return scene.Track{}, err
		}
		p := scene.Point{
			X:       x,
			Y:       y,
			Color:   DefaultMarkerColor,
			Size:    DefaultMarkerSize,
			Tooltip: fmt.Sprintf("<b>Position:</b> %s<br><b>Count:</b> %s", fmtNum(x), fmtNum(y)),
		}
		if spec.ColorBy != "" {
			v, _ := iv.Get(spec.ColorBy)
			p.Color = colors[v]
		}
		if spec.SizeBy != "" {
			if p.Size, err = number(iv, spec.SizeBy, i); err != nil {
				return scene.Track{}, err
			}
		}
		t.Points = append(t.Points, p)
		t.YMin = math.Min(t.YMin, y)
		t.YMax = math.Max(t.YMax, y)
	}

	if len(t.Points) == 0 {
		t.YMin, t.YMax = 0, 1
	}
	pad := 0.05 * (t.YMax - t.YMin)
	if pad == 0 {
		pad = 0.5
	}
	t.YMin -= pad
	t.YMax += pad
	return t, nil
}

// categoryColors codes the distinct values of col in sorted order and spreads
// the codes over the viridis palette.
func categoryColors(ds *ranges.Dataset, col string) map[string]string {
	if col == "" {
		return nil
	}
	seen := make(map[string]bool)
	var cats []string
	for _, iv := range ds.Intervals {
		v, _ := iv.Get(col)
		if !seen[v] {
			seen[v] = true
			cats = append(cats, v)
		}
	}
	sort.Strings(cats)

	pal, _ := theme.Palette("viridis")
	out := make(map[string]string, len(cats))
	for i, c := range cats {
		ix := 0
		if len(cats) > 1 {
			ix = int(math.Round(float64(i) * float64(len(pal)-1) / float64(len(cats)-1)))
		}
		out[c] = pal[ix]
	}
	return out
}

func number(iv ranges.Interval, col string, row int) (float64, error) {
	v, _ := iv.Get(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d: column %s is not numeric (%q)", row, col, v)
	}
	return f, nil
}

func fmtNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
