package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rangeplot/pkg/cache"
	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the figure server use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Prepared is the output of the prepare and build stages. It is also the
// cache payload of the figure stage.
type Prepared struct {
	Figure   *scene.Figure  `json:"figure"`
	Warnings []prep.Warning `json:"warnings,omitempty"`
	Genes    int            `json:"genes"`
}

// Execute runs the complete prepare → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, datasets []*ranges.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, ds := range datasets {
		result.Stats.Intervals += ds.Len()
	}

	// Stage 1+2: Prepare and build
	prepStart := time.Now()
	cf, hit, err := r.FigureWithCacheInfo(ctx, datasets, opts)
	if err != nil {
		return nil, err
	}
	result.Figure = cf.Figure
	result.Warnings = cf.Warnings
	result.Stats.Genes = cf.Genes
	result.Stats.Chromosomes = len(cf.Figure.Panels)
	result.Stats.PrepareTime = time.Since(prepStart)
	result.CacheInfo.FigureHit = hit

	if !opts.HideWarnings {
		for _, w := range cf.Warnings {
			r.Logger.Warn(w.Message)
		}
	}
	r.Logger.Info("prepared figure",
		"genes", result.Stats.Genes,
		"chromosomes", result.Stats.Chromosomes,
		"cached", hit,
		"duration", result.Stats.PrepareTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, figHash, renderHit, err := r.RenderWithCacheInfo(ctx, cf.Figure, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.FigureHash = figHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FigureWithCacheInfo prepares and builds the scene, returning whether it
// came from the cache.
func (r *Runner) FigureWithCacheInfo(ctx context.Context, datasets []*ranges.Dataset, opts Options) (*Prepared, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	dataJSON, err := json.Marshal(datasets)
	if err != nil {
		return nil, false, fmt.Errorf("hash datasets: %w", err)
	}
	cacheKey := r.Keyer.FigureKey(cache.Hash(dataJSON), opts.FigureKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cf Prepared
			if err := json.Unmarshal(data, &cf); err == nil && cf.Figure != nil {
				observability.Cache().OnCacheHit(ctx, "figure")
				return &cf, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "figure")
	}

	cf, err := BuildFigure(ctx, datasets, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(cf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.FigureTTL); err != nil {
			r.Logger.Debug("cache figure", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "figure", len(data))
		}
	}
	return cf, false, nil
}

// BuildFigure runs preparation and scene building without caching.
func BuildFigure(ctx context.Context, datasets []*ranges.Dataset, opts Options) (*Prepared, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	o := opts.ThemeOptions()

	intervals := 0
	for _, ds := range datasets {
		intervals += ds.Len()
	}
	hooks.OnPrepareStart(ctx, len(datasets), intervals)
	start := time.Now()
	frame, err := prep.Prepare(datasets, opts.Params(), o)
	if err != nil {
		hooks.OnPrepareComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnPrepareComplete(ctx, len(frame.Genes), len(frame.Chroms), time.Since(start), nil)

	hooks.OnBuildStart(ctx, len(frame.Chroms))
	start = time.Now()
	fig := scene.Build(frame, o, opts.SceneOptions())
	glyphs := 0
	for _, p := range fig.Panels {
		glyphs += len(p.Glyphs)
	}
	hooks.OnBuildComplete(ctx, glyphs, time.Since(start))

	return &Prepared{Figure: fig, Warnings: frame.Warnings, Genes: len(frame.Genes)}, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts. It also returns the scene hash the artifacts are keyed by.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fig *scene.Figure, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}

	figJSON, err := json.Marshal(fig)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize figure for cache key: %w", err)
	}
	figHash := cache.Hash(figJSON)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(figHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && !opts.Refresh {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, figHash, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, fig, renderOpts)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(figHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Debug("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, figHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
