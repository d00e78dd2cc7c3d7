package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// ParseColor accepts CSS color names, #rgb, #rrggbb and "rgb(r, g, b)".
func ParseColor(s string) (color.Color, error) {
	c, err := parse(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MustColor is ParseColor for trusted values. Unparseable input yields black.
func MustColor(s string) color.Color {
	c, err := parse(s)
	if err != nil {
		return color.Black
	}
	return c
}

// Hex normalizes any accepted color string to lower-case #rrggbb.
func Hex(s string) (string, error) {
	c, err := parse(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Lighten blends a color towards white by t (0 keeps it, 1 gives white).
// It is used for hover highlights.
func Lighten(s string, t float64) string {
	c, err := parse(s)
	if err != nil {
		return s
	}
	return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped().Hex()
}

func parse(s string) (colorful.Color, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return colorful.Color{}, errors.New(errors.ErrCodeInvalidColormap, "empty color")
	}
	lower := strings.ToLower(v)

	if strings.HasPrefix(lower, "#") {
		c, err := colorful.Hex(lower)
		if err != nil {
			return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColormap, err, "bad hex color %q", s)
		}
		return c, nil
	}

	if strings.HasPrefix(lower, "rgb(") {
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(lower, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColormap, err, "bad rgb color %q", s)
		}
		return colorful.Color{R: clamp255(r), G: clamp255(g), B: clamp255(b)}, nil
	}

	if rgba, ok := colornames.Map[lower]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	return colorful.Color{}, errors.New(errors.ErrCodeInvalidColormap, "unknown color %q", s)
}

func clamp255(v int) float64 {
	return float64(max(0, min(255, v))) / 255
}
