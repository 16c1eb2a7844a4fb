package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Create a 2x2 image
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0

	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 1.0 / 4 = 0.25

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	// 1x1 White pixel -> Lum = 1.0
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if got := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("Expected 0 for empty image, got %f", got)
	}
}

func TestSampleStats(t *testing.T) {
	var a, b sampleStats
	a.addResult(integrator.Result{Outcome: integrator.OutcomeAbsorbed, Steps: 10, Crossings: 1})
	a.addResult(integrator.Result{Outcome: integrator.OutcomeEscaped, Steps: 30, Crossings: 2})
	b.addResult(integrator.Result{Outcome: integrator.OutcomeExhausted, Steps: 50})
	b.addPanic()
	a.merge(b)

	var rs RenderStats
	rs.apply(a)

	want := RenderStats{
		Samples:   4,
		Absorbed:  1,
		Escaped:   1,
		Exhausted: 1,
		Crossings: 3,
		Steps:     90,
		MaxSteps:  50,
		Panics:    1,
	}
	if rs != want {
		t.Errorf("Expected %+v, got %+v", want, rs)
	}
	if got := rs.AverageSteps(); got != 22.5 {
		t.Errorf("Expected 22.5 average steps, got %v", got)
	}
	if got := (RenderStats{}).AverageSteps(); got != 0 {
		t.Errorf("Expected 0 average steps without samples, got %v", got)
	}
}
