package renderer

import (
	"fmt"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
)

// sampleResult is sent from a sample worker to its pixel worker
type sampleResult struct {
	result   integrator.Result
	panicked bool
}

// renderPixel traces the sub-samples of pixel (x, y) with at most allotment of
// them in flight and sends the averaged color to out
func (r *Renderer) renderPixel(x, y, allotment int, out chan<- pixelResult) {
	budget := NewBudget(allotment)
	results := make(chan sampleResult, budget.Total())
	colors := make([]core.Color, 0, r.samples*r.samples)
	var stats sampleStats
	inFlight := 0

	receive := func() {
		s := <-results
		budget.Return(1)
		inFlight--
		if s.panicked {
			colors = append(colors, PanicColor)
			stats.addPanic()
			return
		}
		colors = append(colors, s.result.Color)
		stats.addResult(s.result)
	}

	for sj := 0; sj < r.samples; sj++ {
		for si := 0; si < r.samples; si++ {
			for budget.Available() == 0 {
				receive()
			}
			budget.Take(1)
			inFlight++
			go r.traceSample(x, y, si, sj, results)
		}
	}

	for inFlight > 0 {
		receive()
	}

	out <- pixelResult{
		x:         x,
		y:         y,
		color:     core.Average(colors),
		allotment: allotment,
		stats:     stats,
	}
}

// traceSample traces one photon. A panic is reported as a failed sample so
// the rest of the render carries on.
func (r *Renderer) traceSample(x, y, si, sj int, out chan<- sampleResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Sample panicked",
				"x", x, "y", y, "si", si, "sj", sj, "panic", fmt.Sprint(rec))
			out <- sampleResult{panicked: true}
		}
	}()

	out <- sampleResult{result: r.tracer.Trace(x, y, si, sj)}
}
