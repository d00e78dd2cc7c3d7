package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rangeplot/pkg/observability"
)

// stageHooks shows the running pipeline stage on a spinner and logs stage
// timings at debug level.
type stageHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
	logger  *log.Logger
}

func (h stageHooks) OnPrepareStart(_ context.Context, datasets, intervals int) {
	h.spinner.SetMessage("Preparing intervals")
	h.logger.Debug("prepare", "datasets", datasets, "intervals", intervals)
}

func (h stageHooks) OnPrepareComplete(_ context.Context, genes, chromosomes int, d time.Duration, err error) {
	if err == nil {
		h.logger.Debug("prepared", "genes", genes, "chromosomes", chromosomes, "took", d)
	}
}

func (h stageHooks) OnBuildStart(_ context.Context, panels int) {
	h.spinner.SetMessage("Laying out panels")
}

func (h stageHooks) OnBuildComplete(_ context.Context, glyphs int, d time.Duration) {
	h.logger.Debug("built scene", "glyphs", glyphs, "took", d)
}

func (h stageHooks) OnRenderStart(_ context.Context, formats []string) {
	h.spinner.SetMessage("Rendering " + strings.Join(formats, ", "))
}

func (h stageHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err == nil {
		h.logger.Debug("rendered", "formats", formats, "took", d)
	}
}

// withStageHooks registers stage hooks for the duration of fn.
func withStageHooks(s *Spinner, logger *log.Logger, fn func()) {
	observability.SetPipelineHooks(stageHooks{spinner: s, logger: logger})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	fn()
}

// requestLogHooks logs every figure server request.
type requestLogHooks struct {
	observability.NoopServerHooks
	logger *log.Logger
}

func (h requestLogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

func (h requestLogHooks) OnFigureStored(_ context.Context, id string, size int) {
	h.logger.Debug("stored figure", "id", id, "bytes", size)
}
