// Package theme holds the plot feature options, the built-in themes and the
// color handling shared by every backend.
//
// Options are addressed by the same keys users type on the command line or
// in a TOML options file (arrow_size, colormap, shrunk_bkg, ...). [Options.Set]
// type-checks every value, so bad input fails before any data is prepared.
package theme

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// Amount is a length that is either a fraction of the plotted range or an
// absolute number of base pairs. Options decoded from an integer are in bp,
// from a float a fraction.
type Amount struct {
	Value float64 `json:"value"`
	BP    bool    `json:"bp,omitempty"`
}

// Fraction returns a fractional amount.
func Fraction(f float64) Amount { return Amount{Value: f} }

// BasePairs returns an absolute amount.
func BasePairs(n int) Amount { return Amount{Value: float64(n), BP: true} }

// Of resolves the amount against a range span.
func (a Amount) Of(span float64) float64 {
	if a.BP {
		return a.Value
	}
	return a.Value * span
}

func (a Amount) String() string {
	if a.BP {
		return fmt.Sprintf("%d", int(a.Value))
	}
	return fmt.Sprintf("%g", a.Value)
}

// XTicks controls the x axis ticks. With Count > 0 that many evenly spaced
// ticks are drawn; with Values those positions are used. ByChrom overrides
// either per chromosome.
type XTicks struct {
	Count   int               `json:"count,omitempty"`
	Values  []int             `json:"values,omitempty"`
	ByChrom map[string]XTicks `json:"by_chrom,omitempty"`
}

// For returns the tick setting that applies to chrom.
func (x XTicks) For(chrom string) XTicks {
	if x.ByChrom != nil {
		return x.ByChrom[chrom]
	}
	return x
}

// IsZero reports whether no tick override is set.
func (x XTicks) IsZero() bool {
	return x.Count == 0 && x.Values == nil && x.ByChrom == nil
}

func (x XTicks) String() string {
	switch {
	case x.ByChrom != nil:
		keys := make([]string, 0, len(x.ByChrom))
		for k := range x.ByChrom {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + x.ByChrom[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case x.Values != nil:
		return fmt.Sprint(x.Values)
	case x.Count > 0:
		return fmt.Sprint(x.Count)
	}
	return "None"
}

// Options is the full set of plot features.
type Options struct {
	ArrowColor      string   `json:"arrow_color"`
	ArrowLineWidth  float64  `json:"arrow_line_width"`
	ArrowSize       Amount   `json:"arrow_size"`
	Colormap        Colormap `json:"colormap"`
	ExonBorder      string   `json:"exon_border,omitempty"`
	ExonHeight      float64  `json:"exon_height"`
	FigBkg          string   `json:"fig_bkg"`
	GridColor       string   `json:"grid_color"`
	IntronColor     string   `json:"intron_color,omitempty"`
	PlotBkg         string   `json:"plot_bkg"`
	PlotBorder      string   `json:"plot_border"`
	PlotlyPort      int      `json:"plotly_port"`
	ShrinkThreshold Amount   `json:"shrink_threshold"`
	ShrunkBkg       string   `json:"shrunk_bkg"`
	TagBkg          string   `json:"tag_bkg"`
	TextPad         Amount   `json:"text_pad"`
	TextSize        float64  `json:"text_size"`
	TitleColor      string   `json:"title_color"`
	TitleSize       float64  `json:"title_size"`
	TitleFont       string   `json:"title_font"`
	VSpacer         float64  `json:"v_spacer"`
	XTicks          XTicks   `json:"x_ticks"`
}

// Default returns the options of the light theme.
func Default() *Options {
	return &Options{
		ArrowColor:      "grey",
		ArrowLineWidth:  1,
		ArrowSize:       Fraction(0.006),
		Colormap:        Named("popart"),
		ExonHeight:      0.6,
		FigBkg:          "white",
		GridColor:       "lightgrey",
		PlotBkg:         "white",
		PlotBorder:      "black",
		PlotlyPort:      8050,
		ShrinkThreshold: Fraction(0.01),
		ShrunkBkg:       "lightyellow",
		TagBkg:          "grey",
		TextPad:         Fraction(0.005),
		TextSize:        10,
		TitleColor:      "black",
		TitleSize:       18,
		TitleFont:       "Arial",
		VSpacer:         0.5,
	}
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	c := *o
	c.Colormap.List = slices.Clone(o.Colormap.List)
	if o.Colormap.Map != nil {
		c.Colormap.Map = make(map[string]string, len(o.Colormap.Map))
		for k, v := range o.Colormap.Map {
			c.Colormap.Map[k] = v
		}
	}
	c.XTicks = cloneTicks(o.XTicks)
	return &c
}

func cloneTicks(x XTicks) XTicks {
	out := XTicks{Count: x.Count}
	if x.Values != nil {
		out.Values = append([]int{}, x.Values...)
	}
	if x.ByChrom != nil {
		out.ByChrom = make(map[string]XTicks, len(x.ByChrom))
		for k, v := range x.ByChrom {
			out.ByChrom[k] = cloneTicks(v)
		}
	}
	return out
}

// Set assigns one option by key.
func (o *Options) Set(key string, value any) error {
	k, ok := keyIndex[key]
	if !ok {
		return errors.New(errors.ErrCodeInvalidOption, "unknown option %q (run 'rangeplot options' to list them)", key)
	}
	if err := k.set(o, value); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "option %s", key)
	}
	return nil
}

// Get returns the current value of an option as a display string.
func (o *Options) Get(key string) (string, bool) {
	k, ok := keyIndex[key]
	if !ok {
		return "", false
	}
	return k.show(o), true
}

// Apply sets several options. Keys are applied in sorted order so errors are
// reported deterministically.
func (o *Options) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists all option keys in display order.
func Keys() []string {
	out := make([]string, len(optionKeys))
	for i, k := range optionKeys {
		out[i] = k.name
	}
	return out
}

// Entry is one row of the options table.
type Entry struct {
	Key         string
	Value       string
	Default     string
	Description string
}

// Describe returns every option with its current and default value.
func (o *Options) Describe() []Entry {
	def := Default()
	out := make([]Entry, len(optionKeys))
	for i, k := range optionKeys {
		out[i] = Entry{
			Key:         k.name,
			Value:       k.show(o),
			Default:     k.show(def),
			Description: k.desc,
		}
	}
	return out
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
