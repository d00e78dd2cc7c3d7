// Package pipeline provides the plotting pipeline shared by the CLI and the
// figure server.
//
// The pipeline has three stages:
//
//  1. Prepare: subset genes, assign colors and rows, shrink introns ([prep])
//  2. Build: lay the prepared frame out as a backend-neutral scene ([scene])
//  3. Render: turn the scene into png, pdf, svg, html or json ([sink])
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    IDCols:  []string{"transcript_id"},
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, datasets, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Prepared scenes and rendered artifacts are cached separately, so asking
// for a new format of an unchanged plot skips preparation.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/render/sink"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxShown is how many genes per dataset are plotted.
	DefaultMaxShown = 25

	// DefaultTheme is the theme used when none is named.
	DefaultTheme = "light"

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = sink.FormatHTML
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the plotting pipeline.
type Options struct {
	// Data options
	IDCols       []string    `json:"id_cols,omitempty"`
	MaxShown     int         `json:"max_shown,omitempty"`
	Unpacked     bool        `json:"unpacked,omitempty"` // one row per gene
	ColorCols    []string    `json:"color_cols,omitempty"`
	ThicknessCol string      `json:"thickness_col,omitempty"`
	DepthCol     string      `json:"depth_col,omitempty"`
	Shrink       bool        `json:"shrink,omitempty"`
	Limits       prep.Limits `json:"-"`
	ThickCDS     bool        `json:"thick_cds,omitempty"`
	Chromosomes  []string    `json:"chromosomes,omitempty"`

	// Annotation options
	Text         bool     `json:"text,omitempty"`
	TextTemplate string   `json:"text_template,omitempty"`
	Tooltip      string   `json:"tooltip,omitempty"`
	Legend       bool     `json:"legend,omitempty"`
	TitleChr     string   `json:"title_chr,omitempty"`
	YLabels      []string `json:"y_labels,omitempty"`
	HideWarnings bool     `json:"hide_warnings,omitempty"`

	// Theme options, applied in order: theme, options file, overrides
	Theme       string         `json:"theme,omitempty"`
	OptionsFile string         `json:"-"`
	Overrides   map[string]any `json:"overrides,omitempty"`

	// Render options
	Formats   []string      `json:"formats,omitempty"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
	StaticSVG bool          `json:"static_svg,omitempty"`
	Tracks    []scene.Track `json:"tracks,omitempty"`
	Refresh   bool          `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	theme     *theme.Options
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the built scene.
	Figure *scene.Figure

	// FigureHash is the content hash of the scene JSON.
	FigureHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings raised while preparing the data.
	Warnings []prep.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Intervals   int
	Genes       int
	Chromosomes int
	PrepareTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FigureHit bool // scene came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, sink.Formats); err != nil {
			return err
		}
	}
	return nil
}

// FormatFromPath derives the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	return errors.ValidateExportPath(path, sink.Formats)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options, resolves the theme and applies
// defaults. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxShown == 0 {
		o.MaxShown = DefaultMaxShown
	}
	if o.TitleChr == "" {
		o.TitleChr = scene.DefaultTitle
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Width == 0 {
		o.Width = scene.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = scene.DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "figure size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TextTemplate != "" {
		o.Text = true
	}

	t, err := o.resolveTheme()
	if err != nil {
		return err
	}
	o.theme = t
	o.validated = true
	return nil
}

// resolveTheme layers the named theme, the options file and the overrides.
// A theme named in the options file is used when no theme was given.
func (o *Options) resolveTheme() (*theme.Options, error) {
	var file *theme.File
	if o.OptionsFile != "" {
		f, err := theme.LoadFile(o.OptionsFile)
		if err != nil {
			return nil, err
		}
		file = f
		if o.Theme == "" {
			o.Theme = f.Theme
		}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}

	t, err := theme.ForTheme(o.Theme)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := t.Apply(file.Options); err != nil {
			return nil, err
		}
	}
	if err := t.Apply(o.Overrides); err != nil {
		return nil, err
	}
	return t, nil
}

// ThemeOptions returns the resolved theme. Only valid after
// [Options.ValidateAndSetDefaults].
func (o *Options) ThemeOptions() *theme.Options {
	if o.theme == nil {
		return theme.Default()
	}
	return o.theme
}

// Params converts the data options for [prep.Prepare].
func (o *Options) Params() prep.Params {
	return prep.Params{
		IDCols:       o.IDCols,
		MaxShown:     o.MaxShown,
		Packed:       !o.Unpacked,
		ColorCols:    o.ColorCols,
		ThicknessCol: o.ThicknessCol,
		DepthCol:     o.DepthCol,
		ThickCDS:     o.ThickCDS,
		Shrink:       o.Shrink,
		Limits:       o.Limits,
		Text:         o.Text,
		TextTemplate: o.TextTemplate,
		Tooltip:      o.Tooltip,
		YLabels:      o.YLabels,
		Tracks:       len(o.Tracks),
		Chromosomes:  o.Chromosomes,
	}
}

// SceneOptions converts the layout options for [scene.Build].
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{
		Title:    o.TitleChr,
		Text:     o.Text,
		Legend:   o.Legend,
		YLabels:  o.YLabels,
		Packed:   !o.Unpacked,
		Tracks:   o.Tracks,
		Warnings: !o.HideWarnings,
		Width:    o.Width,
		Height:   o.Height,
	}
}

// RenderOptions returns the sink options for one rendering.
func (o *Options) RenderOptions() sink.Options {
	return sink.Options{Width: o.Width, Height: o.Height, StaticSVG: o.StaticSVG}
}
