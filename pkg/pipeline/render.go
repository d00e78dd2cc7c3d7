package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/render/scene"
	"github.com/matzehuels/rangeplot/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, fig *scene.Figure, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := sink.Render(fig, format, opts.RenderOptions())
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}
