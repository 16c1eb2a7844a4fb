package renderer

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/texture"
)

// uniformScene builds a scene with a flat orange disk and a dark blue sky
func uniformScene(t *testing.T, width, height, samples int) *scene.Scene {
	t.Helper()
	p := scene.DefaultParams()
	p.Width, p.Height, p.Samples = width, height, samples

	sc, err := scene.New(p, &texture.Set{
		Disk:   texture.Uniform(16, 16, core.NewColor(200, 100, 0)),
		Skybox: texture.UniformSkybox(4, core.NewColor(0, 0, 50)),
	})
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return sc
}

func testParams(width, height, samples int) scene.Params {
	p := scene.DefaultParams()
	p.Width, p.Height, p.Samples = width, height, samples
	return p
}

// funcTracer adapts a function to the Tracer interface
type funcTracer func(px, py, si, sj int) integrator.Result

func (f funcTracer) Trace(px, py, si, sj int) integrator.Result { return f(px, py, si, sj) }

func checkImage(t *testing.T, img *image.RGBA, want [][]core.Color, tolerance int) {
	t.Helper()
	for y, row := range want {
		for x, w := range row {
			got := img.RGBAAt(x, y)
			for i, pair := range [][2]uint8{{got.R, w.R}, {got.G, w.G}, {got.B, w.B}} {
				if d := int(pair[0]) - int(pair[1]); d > tolerance || d < -tolerance {
					t.Errorf("Pixel (%d,%d) channel %d: got %d, want %d (±%d)", x, y, i, pair[0], pair[1], tolerance)
				}
			}
			if got.A != 255 {
				t.Errorf("Pixel (%d,%d) not written", x, y)
			}
		}
	}
}

func TestRender_SinglePixelSeesHole(t *testing.T) {
	r := NewRenderer(uniformScene(t, 1, 1, 1), Options{Workers: 1})

	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	checkImage(t, img, [][]core.Color{{core.Black}}, 0)
	if stats.Absorbed != 1 || stats.Samples != 1 {
		t.Errorf("Expected one absorbed sample, got %+v", stats)
	}
}

func TestRender_Golden(t *testing.T) {
	sky := core.NewColor(0, 0, 50)
	edge := core.NewColor(109, 54, 22)

	tests := []struct {
		name                   string
		width, height, samples int
		want                   [][]core.Color
		tolerance              int
	}{
		{
			name:  "4x3 single sample",
			width: 4, height: 3, samples: 1,
			want: [][]core.Color{
				{sky, sky, sky, sky},
				{edge, core.Black, core.Black, edge},
				{sky, sky, sky, sky},
			},
			tolerance: 1,
		},
		{
			name:  "3x2 supersampled",
			width: 3, height: 2, samples: 2,
			want: [][]core.Color{
				{sky, core.NewColor(0, 0, 25), sky},
				{sky, core.NewColor(5, 2, 25), sky},
			},
			tolerance: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range []int{1, 3, 16} {
				r := NewRenderer(uniformScene(t, tt.width, tt.height, tt.samples), Options{Workers: workers})
				img, stats, err := r.Render(context.Background())
				if err != nil {
					t.Fatalf("Render failed: %v", err)
				}
				checkImage(t, img, tt.want, tt.tolerance)

				wantSamples := tt.width * tt.height * tt.samples * tt.samples
				if stats.Samples != wantSamples {
					t.Errorf("Expected %d samples, got %d", wantSamples, stats.Samples)
				}
				if stats.Absorbed+stats.Escaped+stats.Exhausted != stats.Samples {
					t.Errorf("Outcome counts do not add up: %+v", stats)
				}
			}
		})
	}
}

// Pixels finish in random order but each lands at its own coordinates.
func TestRender_OutOfOrderCompletion(t *testing.T) {
	var mu sync.Mutex
	random := rand.New(rand.NewSource(7))
	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		mu.Lock()
		delay := time.Duration(random.Intn(300)) * time.Microsecond
		mu.Unlock()
		time.Sleep(delay)
		return integrator.Result{Color: core.NewColor(uint8(px), uint8(py), 7)}
	})

	r := NewRendererWithTracer(testParams(9, 7, 2), tracer, Options{Workers: 5})
	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := make([][]core.Color, 7)
	for y := range want {
		want[y] = make([]core.Color, 9)
		for x := range want[y] {
			want[y][x] = core.NewColor(uint8(x), uint8(y), 7)
		}
	}
	checkImage(t, img, want, 0)

	if stats.Pixels != 63 || stats.Samples != 63*4 {
		t.Errorf("Expected 63 pixels and 252 samples, got %d and %d", stats.Pixels, stats.Samples)
	}
}

// No more photons are traced at once than the pixel budget allows.
func TestRender_RespectsBudget(t *testing.T) {
	tests := []struct {
		workers, samples int
	}{
		{1, 1},
		{1, 3},
		{3, 2},
		{4, 1},
		{10, 3},
	}

	for _, tt := range tests {
		var active, peak atomic.Int32
		tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(50 * time.Microsecond)
			active.Add(-1)
			return integrator.Result{}
		})

		r := NewRendererWithTracer(testParams(6, 5, tt.samples), tracer, Options{Workers: tt.workers})
		if _, _, err := r.Render(context.Background()); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if got := int(peak.Load()); got > tt.workers {
			t.Errorf("workers=%d samples=%d: %d photons traced at once", tt.workers, tt.samples, got)
		}
	}
}

func TestRender_AveragesSubSamples(t *testing.T) {
	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		if si == 0 && sj == 0 {
			return integrator.Result{Color: core.NewColor(255, 0, 100)}
		}
		return integrator.Result{Color: core.NewColor(1, 0, 100)}
	})

	r := NewRendererWithTracer(testParams(2, 2, 2), tracer, Options{Workers: 3})
	img, _, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// (255 + 3*1) / 4 = 64
	c := core.NewColor(64, 0, 100)
	checkImage(t, img, [][]core.Color{{c, c}, {c, c}}, 0)
}

func TestRender_PanicBecomesSentinel(t *testing.T) {
	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		if px == 1 && py == 1 {
			panic("texture index out of range")
		}
		return integrator.Result{Color: core.NewColor(10, 20, 30), Outcome: integrator.OutcomeEscaped}
	})

	r := NewRendererWithTracer(testParams(3, 3, 1), tracer, Options{Workers: 2})
	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := core.ColorFrom(img.RGBAAt(1, 1)); got != PanicColor {
		t.Errorf("Expected sentinel %v, got %v", PanicColor, got)
	}
	if got := core.ColorFrom(img.RGBAAt(0, 0)); got != core.NewColor(10, 20, 30) {
		t.Errorf("Expected neighbour to render normally, got %v", got)
	}
	if stats.Panics != 1 {
		t.Errorf("Expected 1 panic, got %d", stats.Panics)
	}
	if stats.Escaped != 8 {
		t.Errorf("Expected 8 escaped samples, got %d", stats.Escaped)
	}
}

func TestRender_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var traced atomic.Int32
	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		traced.Add(1)
		return integrator.Result{Color: core.NewColor(1, 2, 3)}
	})

	var rows []int
	opts := Options{
		Workers: 4,
		OnRow: func(row, total int, img *image.RGBA) {
			rows = append(rows, row)
			if row == 0 {
				cancel()
			}
		},
	}

	r := NewRendererWithTracer(testParams(5, 4, 1), tracer, opts)
	img, stats, err := r.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if img == nil {
		t.Fatal("Expected partial image")
	}

	if stats.Pixels != 5 || traced.Load() != 5 {
		t.Errorf("Expected only the first row to render, got %d pixels and %d traces", stats.Pixels, traced.Load())
	}
	for x := 0; x < 5; x++ {
		if img.RGBAAt(x, 0).A != 255 {
			t.Errorf("Pixel (%d,0) should have been written", x)
		}
		if img.RGBAAt(x, 1).A != 0 {
			t.Errorf("Pixel (%d,1) should not have been written", x)
		}
	}
	if len(rows) != 1 {
		t.Errorf("Expected one row callback, got %v", rows)
	}
}

func TestRender_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		t.Error("No photon should be traced")
		return integrator.Result{}
	})

	_, stats, err := NewRendererWithTracer(testParams(3, 3, 1), tracer, Options{}).Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stats.Pixels != 0 {
		t.Errorf("Expected no pixels, got %d", stats.Pixels)
	}
}

func TestRender_RowProgress(t *testing.T) {
	tracer := funcTracer(func(px, py, si, sj int) integrator.Result {
		return integrator.Result{}
	})

	var rows []int
	opts := Options{
		Workers: 2,
		OnRow: func(row, total int, img *image.RGBA) {
			if total != 4 {
				t.Errorf("Expected 4 rows, got %d", total)
			}
			rows = append(rows, row)
		},
	}

	if _, _, err := NewRendererWithTracer(testParams(3, 4, 1), tracer, opts).Render(context.Background()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, row := range rows {
		if row != i {
			t.Fatalf("Expected rows in order, got %v", rows)
		}
	}
	if len(rows) != 4 {
		t.Errorf("Expected 4 row callbacks, got %v", rows)
	}
}

func TestNewRenderer_DefaultWorkers(t *testing.T) {
	r := NewRenderer(uniformScene(t, 2, 2, 1), Options{})
	if r.opts.Workers != DefaultWorkers() {
		t.Errorf("Expected %d workers, got %d", DefaultWorkers(), r.opts.Workers)
	}
	if DefaultWorkers() < 2 {
		t.Errorf("Expected at least 2 workers, got %d", DefaultWorkers())
	}
}
