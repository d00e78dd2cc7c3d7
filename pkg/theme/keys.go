package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

type optionKey struct {
	name string
	desc string
	show func(*Options) string
	set  func(*Options, any) error
}

var optionKeys = []optionKey{
	colorKey("arrow_color", "Color of the arrow indicating strand.", func(o *Options) *string { return &o.ArrowColor }, false),
	floatKey("arrow_line_width", "Line width of the arrow lines.", func(o *Options) *float64 { return &o.ArrowLineWidth }),
	amountKey("arrow_size", "Float for the fraction of the plot or int for the number of positions occupied by a direction arrow.", func(o *Options) *Amount { return &o.ArrowSize }),
	{
		name: "colormap",
		desc: "Colors for every group of intervals sharing the same color_col value: a palette name, a list of colors or a table {value = color}. Values missing from a table are colored black.",
		show: func(o *Options) string { return o.Colormap.String() },
		set: func(o *Options, v any) error {
			cm, err := toColormap(v)
			if err != nil {
				return err
			}
			if err := cm.Validate(); err != nil {
				return err
			}
			o.Colormap = cm
			return nil
		},
	},
	colorKey("exon_border", "Color of the interval's rectangle border. None uses the interval color.", func(o *Options) *string { return &o.ExonBorder }, true),
	floatKey("exon_height", "Height of the exon rectangle in the plot.", func(o *Options) *float64 { return &o.ExonHeight }),
	colorKey("fig_bkg", "Background color of the whole figure.", func(o *Options) *string { return &o.FigBkg }, false),
	colorKey("grid_color", "Color of x coordinates grid lines.", func(o *Options) *string { return &o.GridColor }, false),
	colorKey("intron_color", "Color of the intron lines. None uses the color of the first interval.", func(o *Options) *string { return &o.IntronColor }, true),
	colorKey("plot_bkg", "Background color of the plots.", func(o *Options) *string { return &o.PlotBkg }, false),
	colorKey("plot_border", "Color of the line delimiting the plots.", func(o *Options) *string { return &o.PlotBorder }, false),
	{
		name: "plotly_port",
		desc: "Port the interactive figure server listens on.",
		show: func(o *Options) string { return strconv.Itoa(o.PlotlyPort) },
		set: func(o *Options, v any) error {
			n, err := toInt(v)
			if err != nil {
				return err
			}
			if err := errors.ValidatePort(n); err != nil {
				return err
			}
			o.PlotlyPort = n
			return nil
		},
	},
	amountKey("shrink_threshold", "Minimum length of an intron or intergenic region for it to be shrunk. A float is a fraction of the plotted range, an int a number of base pairs.", func(o *Options) *Amount { return &o.ShrinkThreshold }),
	colorKey("shrunk_bkg", "Color of the shrunk region background.", func(o *Options) *string { return &o.ShrunkBkg }, false),
	colorKey("tag_bkg", "Background color of the gene tooltip.", func(o *Options) *string { return &o.TagBkg }, false),
	amountKey("text_pad", "Space between an interval and its id label. A float is a fraction of the plotted range, an int a number of base pairs.", func(o *Options) *Amount { return &o.TextPad }),
	floatKey("text_size", "Font size of the text annotation beside the intervals.", func(o *Options) *float64 { return &o.TextSize }),
	colorKey("title_color", "Color of the plots' titles.", func(o *Options) *string { return &o.TitleColor }, false),
	floatKey("title_size", "Size of the plots' titles.", func(o *Options) *float64 { return &o.TitleSize }),
	{
		name: "title_font",
		desc: "Font of the plots' titles.",
		show: func(o *Options) string { return o.TitleFont },
		set: func(o *Options, v any) error {
			s, ok := v.(string)
			if !ok || s == "" {
				return fmt.Errorf("expected a font name, got %v", v)
			}
			o.TitleFont = s
			return nil
		},
	},
	floatKey("v_spacer", "Vertical distance between the intervals and plot border.", func(o *Options) *float64 { return &o.VSpacer }),
	{
		name: "x_ticks",
		desc: "Int, list or table of x ticks. An int is the number of ticks, a list the tick positions. A table maps chromosomes to either. Ticks inside shrunk regions are not shown.",
		show: func(o *Options) string { return o.XTicks.String() },
		set: func(o *Options, v any) error {
			x, err := toXTicks(v, true)
			if err != nil {
				return err
			}
			o.XTicks = x
			return nil
		},
	},
}

var keyIndex = func() map[string]optionKey {
	m := make(map[string]optionKey, len(optionKeys))
	for _, k := range optionKeys {
		m[k.name] = k
	}
	return m
}()

func colorKey(name, desc string, field func(*Options) *string, nullable bool) optionKey {
	return optionKey{
		name: name,
		desc: desc,
		show: func(o *Options) string {
			if v := *field(o); v != "" {
				return v
			}
			return "None"
		},
		set: func(o *Options, v any) error {
			s, isStr := v.(string)
			if v == nil || (isStr && (s == "" || s == "None" || s == "none")) {
				if !nullable {
					return fmt.Errorf("a color is required")
				}
				*field(o) = ""
				return nil
			}
			if !isStr {
				return fmt.Errorf("expected a color string, got %T", v)
			}
			if _, err := parse(s); err != nil {
				return err
			}
			*field(o) = s
			return nil
		},
	}
}

func floatKey(name, desc string, field func(*Options) *float64) optionKey {
	return optionKey{
		name: name,
		desc: desc,
		show: func(o *Options) string { return strconv.FormatFloat(*field(o), 'g', -1, 64) },
		set: func(o *Options, v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			if f < 0 {
				return fmt.Errorf("must not be negative, got %g", f)
			}
			*field(o) = f
			return nil
		},
	}
}

func amountKey(name, desc string, field func(*Options) *Amount) optionKey {
	return optionKey{
		name: name,
		desc: desc,
		show: func(o *Options) string { return field(o).String() },
		set: func(o *Options, v any) error {
			a, err := toAmount(v)
			if err != nil {
				return err
			}
			*field(o) = a
			return nil
		},
	}
}

// =============================================================================
// Value conversion
// =============================================================================

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("expected an integer, got %g", x)
		}
		return int(x), nil
	case string:
		return strconv.Atoi(x)
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

// toAmount keeps the int/float distinction: ints are bp, floats fractions.
func toAmount(v any) (Amount, error) {
	switch x := v.(type) {
	case Amount:
		return x, nil
	case int:
		return BasePairs(x), nil
	case int64:
		return BasePairs(int(x)), nil
	case float64:
		return Fraction(x), nil
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return BasePairs(n), nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("expected an int (bp) or float (fraction), got %q", x)
		}
		return Fraction(f), nil
	}
	return Amount{}, fmt.Errorf("expected an int (bp) or float (fraction), got %T", v)
}

func toXTicks(v any, allowTable bool) (XTicks, error) {
	switch x := v.(type) {
	case nil:
		return XTicks{}, nil
	case XTicks:
		return x, nil
	case []int:
		return XTicks{Values: append([]int{}, x...)}, nil
	case []any:
		vals := make([]int, len(x))
		for i, e := range x {
			n, err := toInt(e)
			if err != nil {
				return XTicks{}, err
			}
			vals[i] = n
		}
		return XTicks{Values: vals}, nil
	case map[string]any:
		if !allowTable {
			return XTicks{}, fmt.Errorf("x_ticks tables cannot be nested")
		}
		by := make(map[string]XTicks, len(x))
		for chrom, e := range x {
			t, err := toXTicks(e, false)
			if err != nil {
				return XTicks{}, fmt.Errorf("x_ticks[%s]: %w", chrom, err)
			}
			by[chrom] = t
		}
		return XTicks{ByChrom: by}, nil
	case string:
		if x == "" || x == "None" {
			return XTicks{}, nil
		}
	}
	n, err := toInt(v)
	if err != nil {
		return XTicks{}, err
	}
	if n < 2 {
		return XTicks{}, fmt.Errorf("x_ticks count must be at least 2, got %d", n)
	}
	return XTicks{Count: n}, nil
}
