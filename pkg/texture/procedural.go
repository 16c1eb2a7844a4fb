package texture

import (
	"math"
	"math/rand"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// NewRingedDiskTexture creates a procedural accretion disk: hot white-yellow
// near the inner edge fading to dim orange, modulated by thin rings. The
// texture is sized so the full [3, 10) radius band fits at the default scale.
func NewRingedDiskTexture(pixelsPer3Radii int) *Texture {
	size := 2*(pixelsPer3Radii*10/3) + 2
	t := New(size, size)
	center := float64(size / 2)

	inner := core.NewVec3(255, 240, 200)
	outer := core.NewVec3(200, 80, 10)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			radii := math.Sqrt(dx*dx+dy*dy) / float64(pixelsPer3Radii) * 3

			// Interpolate across the band, then add ring modulation
			f := max(0, min(1, (radii-3)/7))
			c := inner.Multiply(1 - f).Add(outer.Multiply(f))
			ring := 0.8 + 0.2*math.Cos(radii*6*math.Pi)
			c = c.Multiply(ring)

			t.Pixels[y*size+x] = core.NewColor(channel(c.X), channel(c.Y), channel(c.Z))
		}
	}

	return t
}

// NewStarfieldTexture creates a square skybox face with a dark blue background
// and randomly placed stars. The same seed always yields the same face.
func NewStarfieldTexture(size int, density float64, seed int64) *Texture {
	random := rand.New(rand.NewSource(seed))
	t := Uniform(size, size, core.NewColor(2, 2, 12))

	stars := int(float64(size*size) * density)
	for i := 0; i < stars; i++ {
		x := random.Intn(size)
		y := random.Intn(size)
		brightness := 120 + random.Intn(136)
		tint := random.Intn(40)
		t.Pixels[y*size+x] = core.NewColor(
			uint8(max(0, brightness-tint)),
			uint8(brightness),
			uint8(min(255, brightness+tint)),
		)
	}

	return t
}

// ProceduralSet builds a complete texture set in memory, for renders without
// texture files on disk
func ProceduralSet(seed int64) *Set {
	var faces [FaceCount]*Texture
	for i := range faces {
		faces[i] = NewStarfieldTexture(512, 0.002, seed+int64(i))
	}
	return &Set{
		Disk:   NewRingedDiskTexture(DefaultPixelsPer3Radii),
		Skybox: NewSkybox(faces),
	}
}

func channel(v float64) uint8 {
	return uint8(max(0, min(255, v)))
}
