package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/render/sink"
	"github.com/matzehuels/rangeplot/pkg/server"
	"github.com/matzehuels/rangeplot/pkg/store"
	"github.com/matzehuels/rangeplot/pkg/theme"
	"github.com/matzehuels/rangeplot/pkg/vcf"
)

// plotFlags holds the flag values for the plot command.
type plotFlags struct {
	output    string
	formats   string
	idCols    []string
	colorCols []string
	maxShown  int
	unpacked  bool
	thickness string
	depth     string
	shrink    bool
	thickCDS  bool
	limits    []string
	chroms    []string
	text      bool
	textTmpl  string
	tooltip   string
	legend    bool
	titleChr  string
	yLabels   []string
	noWarn    bool
	theme     string
	optsFile  string
	set       []string
	width     int
	height    int
	staticSVG bool
	example   int
	pick      bool
	noCache   bool
	refresh   bool

	scatter      string
	scatterY     string
	scatterColor string
	scatterSize  string
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	flags := plotFlags{maxShown: pipeline.DefaultMaxShown}

	cmd := &cobra.Command{
		Use:   "plot [files...]",
		Short: "Plot genomic intervals",
		Long: `Plot one or more interval files, one panel per chromosome.

Each file is one dataset. With -o the figure is written to disk and the format
is taken from the extension (png, pdf, svg, html, json). Without -o the figure
is served on localhost at the theme's plotly_port until interrupted.`,
		Example: `  rangeplot plot genes.gtf --id-col transcript_id -o genes.png
  rangeplot plot a.bed b.bed --shrink --color-col Feature
  rangeplot plot --example 1 --set exon_height=0.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd.Context(), args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (format from extension)")
	f.StringVar(&flags.formats, "formats", "", "extra formats written next to --output: png,pdf,svg,html,json")
	f.StringSliceVar(&flags.idCols, "id-col", nil, "column(s) identifying a gene")
	f.StringSliceVar(&flags.colorCols, "color-col", nil, "column(s) defining the color tag")
	f.IntVar(&flags.maxShown, "max-shown", flags.maxShown, "maximum genes plotted per dataset")
	f.BoolVar(&flags.unpacked, "unpacked", false, "give every gene its own row")
	f.StringVar(&flags.thickness, "thickness-col", "", "two-valued column selecting thick or thin exons")
	f.StringVar(&flags.depth, "depth-col", "", "column ordering overlapping exons")
	f.BoolVar(&flags.shrink, "shrink", false, "compress long regions without intervals")
	f.BoolVar(&flags.thickCDS, "thick-cds", false, "draw CDS thick and UTR exons thin")
	f.StringSliceVar(&flags.limits, "limits", nil, "x limits: start:end or chrom=start:end (repeatable)")
	f.StringSliceVar(&flags.chroms, "chrom", nil, "only plot these chromosomes")
	f.BoolVar(&flags.text, "text", false, "label genes with their id")
	f.StringVar(&flags.textTmpl, "text-template", "", "label template, e.g. {gene_name}")
	f.StringVar(&flags.tooltip, "tooltip", "", "extra tooltip template")
	f.BoolVar(&flags.legend, "legend", false, "show the color legend")
	f.StringVar(&flags.titleChr, "title", "", "panel title template, {chrom} is replaced")
	f.StringSliceVar(&flags.yLabels, "y-label", nil, "one y label per dataset")
	f.BoolVar(&flags.noWarn, "no-warnings", false, "hide preparation warnings")
	f.StringVar(&flags.theme, "theme", "", "theme name (see 'rangeplot themes')")
	f.StringVar(&flags.optsFile, "config", "", "TOML file of theme options")
	f.StringArrayVar(&flags.set, "set", nil, "set a theme option, key=value (repeatable)")
	f.IntVar(&flags.width, "width", 0, "figure width in pixels")
	f.IntVar(&flags.height, "height", 0, "figure height in pixels")
	f.BoolVar(&flags.staticSVG, "static-svg", false, "write svg without tooltips or scripts")
	f.IntVar(&flags.example, "example", 0, "plot a built-in example dataset (1, 2 or 3)")
	f.BoolVar(&flags.pick, "pick", false, "choose chromosomes interactively")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&flags.refresh, "refresh", false, "recompute even when cached")
	f.StringVar(&flags.scatter, "scatter", "", "file with values for an aligned scatter track")
	f.StringVar(&flags.scatterY, "scatter-y", "", "y column of the scatter track")
	f.StringVar(&flags.scatterColor, "scatter-color", "", "category column coloring the scatter markers")
	f.StringVar(&flags.scatterSize, "scatter-size", "", "numeric column sizing the scatter markers")

	cmd.ValidArgsFunction = completeInputFiles
	registerPlotCompletions(cmd)
	_ = cmd.RegisterFlagCompletionFunc("formats", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return sink.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runPlot loads the inputs, runs the pipeline and writes or serves the figure.
func (c *CLI) runPlot(ctx context.Context, args []string, flags plotFlags) error {
	logger := loggerFromContext(ctx)

	datasets, err := loadInputs(ctx, args, flags.example)
	if err != nil {
		return err
	}

	opts, err := flags.options()
	if err != nil {
		return err
	}
	opts.Logger = logger

	if flags.scatter != "" {
		track, err := loadScatter(flags)
		if err != nil {
			return err
		}
		opts.Tracks = append(opts.Tracks, track)
	}

	if flags.pick {
		chroms, err := pickChromosomes(datasets)
		if err != nil {
			return err
		}
		if len(chroms) == 0 {
			printInfo("No chromosomes selected")
			return nil
		}
		opts.Chromosomes = chroms
	}

	if flags.output != "" {
		format, err := pipeline.FormatFromPath(flags.output)
		if err != nil {
			return err
		}
		extra, err := parseFormats(flags.formats)
		if err != nil {
			return err
		}
		opts.Formats = uniqueFormats(append([]string{format}, extra...))
	} else {
		opts.Formats = []string{"html", "svg"}
	}
	defaults := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Plotting")
	spinner.Start()
	var result *pipeline.Result
	withStageHooks(spinner, logger, func() {
		result, err = runner.Execute(ctx, datasets, opts)
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Plotted")

	printStats(result.Stats.Genes, result.Stats.Chromosomes, result.CacheInfo.FigureHit && result.CacheInfo.RenderHit)

	if flags.output != "" {
		return writeArtifacts(flags.output, result)
	}
	return c.serveResult(ctx, runner, defaults, opts.ThemeOptions().PlotlyPort, result, datasetTitle(datasets))
}

// options converts the flags into pipeline options.
func (f plotFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		IDCols:       f.idCols,
		MaxShown:     f.maxShown,
		Unpacked:     f.unpacked,
		ColorCols:    f.colorCols,
		ThicknessCol: f.thickness,
		DepthCol:     f.depth,
		Shrink:       f.shrink,
		ThickCDS:     f.thickCDS,
		Chromosomes:  f.chroms,
		Text:         f.text,
		TextTemplate: f.textTmpl,
		Tooltip:      f.tooltip,
		Legend:       f.legend,
		TitleChr:     f.titleChr,
		YLabels:      f.yLabels,
		HideWarnings: f.noWarn,
		Theme:        f.theme,
		OptionsFile:  f.optsFile,
		Width:        f.width,
		Height:       f.height,
		StaticSVG:    f.staticSVG,
		Refresh:      f.refresh,
	}
	if len(f.limits) > 0 {
		limits, err := prep.ParseLimits(strings.Join(f.limits, ","))
		if err != nil {
			return opts, err
		}
		opts.Limits = limits
	}
	overrides, err := parseSet(f.set)
	if err != nil {
		return opts, err
	}
	opts.Overrides = overrides
	return opts, nil
}

// parseSet turns key=value pairs into theme overrides.
func parseSet(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidOption, "expected key=value, got %q", p)
		}
		out[k] = theme.ParseValue(strings.TrimSpace(v))
	}
	return out, nil
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if err := pipeline.ValidateFormats(formats); err != nil {
		return nil, err
	}
	return formats, nil
}

func uniqueFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// loadInputs reads the input files, or the built-in example when asked.
func loadInputs(ctx context.Context, paths []string, example int) ([]*ranges.Dataset, error) {
	if example != 0 {
		if len(paths) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--example cannot be combined with input files")
		}
		switch example {
		case 1:
			return []*ranges.Dataset{ranges.Example1()}, nil
		case 2:
			return []*ranges.Dataset{ranges.Example2()}, nil
		case 3:
			return []*ranges.Dataset{ranges.Example3()}, nil
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown example %d, expected 1, 2 or 3", example)
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input files given")
	}
	return pipeline.LoadDatasets(ctx, paths)
}

// loadScatter builds the aligned scatter track named by the --scatter flags.
func loadScatter(f plotFlags) (scene.Track, error) {
	ds, err := ranges.ReadFile(f.scatter)
	if err != nil {
		return scene.Track{}, err
	}
	return vcf.MakeScatter(ds, vcf.ScatterSpec{
		Y:       f.scatterY,
		ColorBy: f.scatterColor,
		SizeBy:  f.scatterSize,
	})
}

// writeArtifacts writes the primary output and any extra formats next to it.
func writeArtifacts(output string, result *pipeline.Result) error {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	primary, _ := pipeline.FormatFromPath(output)
	for format, data := range result.Artifacts {
		path := output
		if format != primary {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		printFile(path)
	}
	return nil
}

// serveResult publishes the figure on a local server and blocks until ctx is
// canceled. Uploads to the same server start from defaults.
func (c *CLI) serveResult(ctx context.Context, runner *pipeline.Runner, defaults pipeline.Options, port int, result *pipeline.Result, title string) error {
	observability.SetServerHooks(requestLogHooks{logger: c.Logger})
	srv := server.New(runner, store.NewMemoryStore(), c.Logger, server.WithDefaults(defaults))
	fig, err := srv.Publish(ctx, title, result)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		printSuccess("Serving figure")
		printKeyValue("URL", StyleLink.Render(fmt.Sprintf("http://%s/figures/%s", a, fig.ID)))
		printDetail("Press Ctrl+C to stop")
	})
}

// datasetTitle names a figure after its datasets.
func datasetTitle(datasets []*ranges.Dataset) string {
	names := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		if ds.Name != "" {
			names = append(names, ds.Name)
		}
	}
	if len(names) == 0 {
		return "rangeplot"
	}
	return strings.Join(names, ", ")
}
