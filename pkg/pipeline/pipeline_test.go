package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// memCache is an in-memory cache.Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func example() []*ranges.Dataset {
	return []*ranges.Dataset{ranges.Example1()}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png"}, false},
		{[]string{"pdf", "html", "json"}, false},
		{nil, false},
		{[]string{"svg", "invalid"}, true},
		{[]string{"SVG"}, true}, // case-sensitive
		{[]string{""}, true},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%q) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out.png", "png", false},
		{"dir/plot.PDF", "pdf", false},
		{"plot.svg", "svg", false},
		{"plot.html", "html", false},
		{"plot.json", "json", false},
		{"plot.jpg", "", true},
		{"plot", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.MaxShown != DefaultMaxShown {
		t.Errorf("MaxShown = %d, want %d", o.MaxShown, DefaultMaxShown)
	}
	if o.TitleChr != scene.DefaultTitle {
		t.Errorf("TitleChr = %q, want %q", o.TitleChr, scene.DefaultTitle)
	}
	if diff := cmp.Diff([]string{DefaultFormat}, o.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if o.Width != scene.DefaultWidth || o.Height != scene.DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", o.Width, o.Height, scene.DefaultWidth, scene.DefaultHeight)
	}
	if o.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", o.Theme, DefaultTheme)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if !o.Params().Packed {
		t.Error("Params().Packed should default to true")
	}
}

func TestValidateAndSetDefaultsTextTemplate(t *testing.T) {
	o := Options{TextTemplate: "{transcript_id}"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !o.Text {
		t.Error("a text template should turn labels on")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown theme", Options{Theme: "neon"}, errors.ErrCodeInvalidTheme},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative size", Options{Width: -1}, errors.ErrCodeInvalidOption},
		{"unknown override", Options{Overrides: map[string]any{"no_such_key": 1}}, errors.ErrCodeInvalidOption},
		{"missing options file", Options{OptionsFile: "/nonexistent/rangeplot.toml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.toml")
	content := "theme = \"dark\"\n\n[options]\nexon_height = 0.8\narrow_color = \"red\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	o := Options{OptionsFile: path, Overrides: map[string]any{"arrow_color": "blue"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	dark, err := theme.ForTheme("dark")
	if err != nil {
		t.Fatal(err)
	}

	got := o.ThemeOptions()
	if o.Theme != "dark" {
		t.Errorf("Theme = %q, want dark from the options file", o.Theme)
	}
	if got.FigBkg != dark.FigBkg {
		t.Errorf("FigBkg = %q, want dark theme's %q", got.FigBkg, dark.FigBkg)
	}
	if got.ExonHeight != 0.8 {
		t.Errorf("ExonHeight = %v, want 0.8", got.ExonHeight)
	}
	if got.ArrowColor != "blue" {
		t.Errorf("ArrowColor = %q, overrides should win over the file", got.ArrowColor)
	}
}

func TestExecute(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{IDCols: []string{"transcript_id"}, Formats: []string{"json", "svg"}}

	res, err := r.Execute(context.Background(), example(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.FigureHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want no hits", res.CacheInfo)
	}
	if len(res.Figure.Panels) != 3 {
		t.Errorf("panels = %d, want 3", len(res.Figure.Panels))
	}
	if res.Stats.Chromosomes != 3 || res.Stats.Genes == 0 || res.Stats.Intervals != ranges.Example1().Len() {
		t.Errorf("Stats = %+v", res.Stats)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact should be the interactive SVG")
	}

	again, err := r.Execute(context.Background(), example(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.FigureHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", again.CacheInfo)
	}
	if again.FigureHash != res.FigureHash {
		t.Error("figure hash changed between identical runs")
	}
	if diff := cmp.Diff(res.Artifacts, again.Artifacts); diff != "" {
		t.Errorf("cached artifacts differ (-first +second):\n%s", diff)
	}
}

func TestExecuteNewFormatReusesFigure(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{IDCols: []string{"transcript_id"}, Formats: []string{"json"}}
	if _, err := r.Execute(context.Background(), example(), opts); err != nil {
		t.Fatal(err)
	}

	opts.Formats = []string{"json", "html"}
	res, err := r.Execute(context.Background(), example(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.FigureHit {
		t.Error("figure should come from cache")
	}
	if res.CacheInfo.RenderHit {
		t.Error("html was never rendered, render stage cannot be a full hit")
	}
}

func TestExecuteRefresh(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{IDCols: []string{"transcript_id"}, Formats: []string{"json"}}
	if _, err := r.Execute(context.Background(), example(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(context.Background(), example(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.FigureHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want no hits", res.CacheInfo)
	}
}

func TestExecuteKeysOnOptions(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{IDCols: []string{"transcript_id"}, Formats: []string{"json"}}
	if _, err := r.Execute(context.Background(), example(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Overrides = map[string]any{"exon_height": 0.4}
	res, err := r.Execute(context.Background(), example(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.FigureHit {
		t.Error("a changed theme option must not hit the cached figure")
	}
}

func TestExecuteWarnings(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), example(), Options{
		IDCols:   []string{"transcript_id"},
		MaxShown: 2,
		Formats:  []string{"json"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning for hidden genes")
	}
	if len(res.Figure.Warnings) != len(res.Warnings) {
		t.Errorf("figure warnings = %d, want %d", len(res.Figure.Warnings), len(res.Warnings))
	}

	res, err = r.Execute(context.Background(), example(), Options{
		IDCols:       []string{"transcript_id"},
		MaxShown:     2,
		HideWarnings: true,
		Formats:      []string{"json"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Figure.Warnings) != 0 {
		t.Errorf("hidden warnings still on figure: %v", res.Figure.Warnings)
	}
}

func TestExecuteInvalidColumn(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), example(), Options{IDCols: []string{"nope"}})
	if !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("error = %v, want INVALID_COLUMN", err)
	}
}

func TestRender(t *testing.T) {
	cf, err := BuildFigure(context.Background(), example(), Options{IDCols: []string{"transcript_id"}})
	if err != nil {
		t.Fatal(err)
	}
	arts, err := Render(context.Background(), cf.Figure, Options{
		Formats: []string{"png", "pdf", "svg", "html", "json"},
		Width:   400,
		Height:  300,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(arts) != 5 {
		t.Errorf("artifacts = %d, want 5", len(arts))
	}
	if !strings.HasPrefix(string(arts["pdf"]), "%PDF") {
		t.Error("pdf artifact is not a PDF")
	}
}

func TestRenderCanceled(t *testing.T) {
	cf, err := BuildFigure(context.Background(), example(), Options{IDCols: []string{"transcript_id"}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, cf.Figure, Options{Formats: []string{"json"}}); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnPrepareStart(context.Context, int, int) { h.record("prepare") }
func (h *recordingHooks) OnBuildStart(context.Context, int)        { h.record("build") }
func (h *recordingHooks) OnRenderStart(context.Context, []string)  { h.record("render") }

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), example(), Options{IDCols: []string{"transcript_id"}, Formats: []string{"json"}}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"prepare", "build", "render"}, h.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDatasets(t *testing.T) {
	dir := t.TempDir()
	bed := filepath.Join(dir, "a.bed")
	if err := os.WriteFile(bed, []byte("chr1\t10\t20\tg1\t0\t+\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tsv := filepath.Join(dir, "b.tsv")
	f, err := os.Create(tsv)
	if err != nil {
		t.Fatal(err)
	}
	if err := ranges.WriteTSV(f, ranges.Example1()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := LoadDatasets(context.Background(), []string{bed, tsv})
	if err != nil {
		t.Fatalf("LoadDatasets() error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("datasets = %v, want a then b", got)
	}
	if got[1].Len() != ranges.Example1().Len() {
		t.Errorf("b rows = %d, want %d", got[1].Len(), ranges.Example1().Len())
	}

	if _, err := LoadDatasets(context.Background(), []string{bed, filepath.Join(dir, "missing.bed")}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
