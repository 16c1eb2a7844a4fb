package renderer

import (
	"image"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RenderID  string
	Width     int
	Height    int
	Workers   int // pixel budget
	Pixels    int // pixels written to the image
	Samples   int // photons traced
	Absorbed  int
	Escaped   int
	Exhausted int // photons stopped by the step ceiling
	Crossings int // disk layers composited over all photons
	Steps     int64
	MaxSteps  int // most steps taken by a single photon
	Panics    int // samples replaced by PanicColor
	Duration  time.Duration
}

// sampleStats is the per-photon part of RenderStats
type sampleStats struct {
	samples   int
	absorbed  int
	escaped   int
	exhausted int
	crossings int
	steps     int64
	maxSteps  int
	panics    int
}

func (s *sampleStats) addResult(res integrator.Result) {
	s.samples++
	switch res.Outcome {
	case integrator.OutcomeAbsorbed:
		s.absorbed++
	case integrator.OutcomeEscaped:
		s.escaped++
	case integrator.OutcomeExhausted:
		s.exhausted++
	}
	s.crossings += res.Crossings
	s.steps += int64(res.Steps)
	s.maxSteps = max(s.maxSteps, res.Steps)
}

func (s *sampleStats) addPanic() {
	s.samples++
	s.panics++
}

func (s *sampleStats) merge(o sampleStats) {
	s.samples += o.samples
	s.absorbed += o.absorbed
	s.escaped += o.escaped
	s.exhausted += o.exhausted
	s.crossings += o.crossings
	s.steps += o.steps
	s.maxSteps = max(s.maxSteps, o.maxSteps)
	s.panics += o.panics
}

func (rs *RenderStats) apply(s sampleStats) {
	rs.Samples = s.samples
	rs.Absorbed = s.absorbed
	rs.Escaped = s.escaped
	rs.Exhausted = s.exhausted
	rs.Crossings = s.crossings
	rs.Steps = s.steps
	rs.MaxSteps = s.maxSteps
	rs.Panics = s.panics
}

// AverageSteps returns the mean number of integration steps per photon
func (rs RenderStats) AverageSteps() float64 {
	if rs.Samples == 0 {
		return 0
	}
	return float64(rs.Steps) / float64(rs.Samples)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
		}
	}
	return total / float64(pixels)
}
