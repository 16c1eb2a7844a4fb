package texture

import (
	"math"
	"testing"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// markedSkybox gives every face a background identifying the face and a
// distinct marker at its centre pixel.
func markedSkybox(size int) *Skybox {
	var faces [FaceCount]*Texture
	for i := range faces {
		face := Uniform(size, size, core.NewColor(0, uint8(i), 0))
		face.Pixels[(size/2)*size+size/2] = centerMarker(Face(i))
		faces[i] = face
	}
	return NewSkybox(faces)
}

func centerMarker(f Face) core.Color {
	return core.NewColor(255, uint8(f), 255)
}

func TestSkybox_FaceSelectionAtCenter(t *testing.T) {
	sky := markedSkybox(5)

	tests := []struct {
		name string
		dir  core.Vec3
		face Face
	}{
		{"+x selects right", core.NewVec3(1, 0, 0), Right},
		{"-x selects left", core.NewVec3(-1, 0, 0), Left},
		{"+y selects top", core.NewVec3(0, 1, 0), Top},
		{"-y selects bottom", core.NewVec3(0, -1, 0), Bottom},
		{"+z selects front", core.NewVec3(0, 0, 1), Front},
		{"-z selects back", core.NewVec3(0, 0, -1), Back},
		{"magnitude does not matter", core.NewVec3(0, 0, -core.SpeedOfLight), Back},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.dir)
			if p.Face != tt.face {
				t.Errorf("Expected face %s, got %s", tt.face, p.Face)
			}
			if got := sky.Sample(tt.dir); got != centerMarker(tt.face) {
				t.Errorf("Expected centre marker of %s, got %v", tt.face, got)
			}
		})
	}
}

func TestProject_TieBreaking(t *testing.T) {
	tests := []struct {
		name string
		dir  core.Vec3
		face Face
	}{
		{"x ties y goes to y", core.NewVec3(1, 1, 0), Top},
		{"x ties z goes to z", core.NewVec3(1, 0, 1), Front},
		{"y ties z goes to z", core.NewVec3(0, -1, -1), Back},
		{"all equal goes to z", core.NewVec3(1, 1, 1), Front},
		{"zero vector goes to back", core.NewVec3(0, 0, 0), Back},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Project(tt.dir).Face; got != tt.face {
				t.Errorf("Expected %s, got %s", tt.face, got)
			}
		})
	}
}

func TestProject_MainIsPositive(t *testing.T) {
	dirs := []core.Vec3{
		core.NewVec3(-3, 1, 2), core.NewVec3(0.1, -5, 2), core.NewVec3(1, 2, -7),
		core.NewVec3(4, 1, 1), core.NewVec3(0, 3, 1), core.NewVec3(1, 1, 9),
	}
	for _, d := range dirs {
		if p := Project(d); p.Main <= 0 {
			t.Errorf("Direction %v: expected positive main component, got %v", d, p.Main)
		}
	}
}

func TestProjection_Pixel(t *testing.T) {
	const size = 101

	tests := []struct {
		name      string
		dir       core.Vec3
		expectedX int
		expectedY int
	}{
		{"centre", core.NewVec3(0, 0, 1), 50, 50},
		// 45 degrees off axis lands on the face edge
		{"right edge", core.NewVec3(1, 0, 1.0000001), 100, 50},
		{"left edge", core.NewVec3(-1, 0, 1.0000001), 0, 50},
		// Positive vertical component maps to larger row index
		{"vertical edge", core.NewVec3(0, 1, 1.0000001), 50, 100},
		// Beyond 45 degrees is clamped into the face
		{"clamped", core.NewVec3(0.99, -0.99, 1), 100, 0},
		// 30 degrees: (1 + sqrt2 * 0.5) * 50
		{"thirty degrees", core.NewVec3(math.Sin(math.Pi/6), 0, math.Cos(math.Pi/6)), 85, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Project(tt.dir).Pixel(size, size)
			if x != tt.expectedX || y != tt.expectedY {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.expectedX, tt.expectedY, x, y)
			}
		})
	}
}

func TestSkybox_Uniform(t *testing.T) {
	sky := UniformSkybox(3, core.NewColor(0, 0, 50))
	for _, d := range []core.Vec3{core.NewVec3(1, 2, 3), core.NewVec3(-1, -0.5, 0.2), core.NewVec3(0, 0, -1)} {
		if got := sky.Sample(d); got != core.NewColor(0, 0, 50) {
			t.Errorf("Direction %v: expected (0,0,50), got %v", d, got)
		}
	}
}

func TestFace_String(t *testing.T) {
	names := map[Face]string{Front: "front", Back: "back", Left: "left", Right: "right", Top: "top", Bottom: "bottom", Face(42): "unknown"}
	for f, want := range names {
		if got := f.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
