package renderer

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

// PanicColor replaces samples whose tracing panicked
var PanicColor = core.NewColor(255, 0, 255)

// Tracer traces the photon for sub-sample (si, sj) of pixel (px, py).
// *scene.Scene implements it.
type Tracer interface {
	Trace(px, py, si, sj int) integrator.Result
}

// Options control scheduling and reporting. The zero value is usable.
type Options struct {
	Workers  int          // pixel budget, 0 = DefaultWorkers()
	Logger   *slog.Logger // nil discards logs
	RenderID string       // attached to every log line

	// OnRow is called by the coordinating goroutine after every pixel of row
	// has been dispatched. img is the image being rendered: it may be read
	// during the call but not retained or modified.
	OnRow func(row, rows int, img *image.RGBA)
}

// Renderer renders a black hole image with two levels of bounded parallelism:
// pixels are traced concurrently up to the pixel budget, and each pixel traces
// its sub-samples concurrently up to the share of the budget it was given.
type Renderer struct {
	width, height int
	samples       int
	tracer        Tracer
	opts          Options
	logger        *slog.Logger
}

// NewRenderer creates a renderer for sc
func NewRenderer(sc *scene.Scene, opts Options) *Renderer {
	return NewRendererWithTracer(sc.Params, sc, opts)
}

// NewRendererWithTracer creates a renderer that uses the size and sampling of p
// but traces photons with tracer
func NewRendererWithTracer(p scene.Params, tracer Tracer, opts Options) *Renderer {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}

	logger := core.LoggerOrNop(opts.Logger)
	if opts.RenderID != "" {
		logger = logger.With("render_id", opts.RenderID)
	}

	return &Renderer{
		width:   p.Width,
		height:  p.Height,
		samples: max(1, p.Samples),
		tracer:  tracer,
		opts:    opts,
		logger:  logger,
	}
}

// pixelResult is sent from a pixel worker to the coordinator
type pixelResult struct {
	x, y      int
	color     core.Color
	allotment int
	stats     sampleStats
}

// Render traces every pixel and returns the image. If ctx is cancelled no
// further pixels are dispatched; pixels already in flight are finished and
// the partial image is returned together with ctx.Err().
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	budget := NewBudget(r.opts.Workers)
	results := make(chan pixelResult, budget.Total())
	perPixel := r.samples * r.samples

	stats := RenderStats{
		RenderID: r.opts.RenderID,
		Width:    r.width,
		Height:   r.height,
		Workers:  budget.Total(),
	}
	var totals sampleStats
	inFlight := 0

	receive := func() {
		res := <-results
		img.SetRGBA(res.x, res.y, res.color.RGBA())
		budget.Return(res.allotment)
		totals.merge(res.stats)
		stats.Pixels++
		inFlight--
	}

	r.logger.Info("Starting render",
		"width", r.width, "height", r.height, "samples", r.samples, "workers", budget.Total())

	var err error
dispatch:
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if err = ctx.Err(); err != nil {
				break dispatch
			}
			for budget.Available() == 0 {
				receive()
			}
			allotment := budget.Take(perPixel)
			inFlight++
			go r.renderPixel(x, y, allotment, results)
		}

		r.logger.Debug("Dispatched row", "row", y, "rows", r.height, "elapsed", time.Since(start))
		if r.opts.OnRow != nil {
			r.opts.OnRow(y, r.height, img)
		}
	}

	for inFlight > 0 {
		receive()
	}

	stats.apply(totals)
	stats.Duration = time.Since(start)

	if err != nil {
		r.logger.Warn("Render cancelled", "pixels", stats.Pixels, "elapsed", stats.Duration, "error", err)
		return img, stats, err
	}

	if stats.Panics > 0 {
		r.logger.Error("Samples failed during render", "panics", stats.Panics)
	}
	r.logger.Info("Render complete",
		"duration", stats.Duration,
		"samples", stats.Samples,
		"absorbed", stats.Absorbed,
		"escaped", stats.Escaped,
		"exhausted", stats.Exhausted,
		"avg_steps", stats.AverageSteps())

	return img, stats, nil
}
