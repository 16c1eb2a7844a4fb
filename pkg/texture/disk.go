package texture

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// DefaultPixelsPer3Radii is the disk texture scale: the inner edge of the disk
// (3 horizon radii) lies this many pixels from the texture centre.
const DefaultPixelsPer3Radii = 150

// Disk maps points of the equatorial plane onto the accretion disk texture.
// The texture centre corresponds to the hole.
type Disk struct {
	Texture         *Texture
	PixelsPer3Radii float64
	HorizonRadius   float64
}

// NewDisk creates a disk sampler with the default scale
func NewDisk(t *Texture) *Disk {
	return &Disk{
		Texture:         t,
		PixelsPer3Radii: DefaultPixelsPer3Radii,
		HorizonRadius:   core.HorizonRadius,
	}
}

// Pixel returns the texture coordinates of the plane point p, where p.X is the
// world x coordinate and p.Y the world z coordinate, in meters. The result may
// lie outside the texture.
func (d *Disk) Pixel(p vec.Vec2) (x, y int) {
	scale := d.PixelsPer3Radii / 3 / d.HorizonRadius
	px := p.X*scale + float64(d.Texture.Width/2)
	py := p.Y*scale + float64(d.Texture.Height/2)
	return toPixel(px), toPixel(py)
}

// Sample returns the disk color at plane point p. Points that fall outside the
// texture take the color of the nearest edge pixel.
func (d *Disk) Sample(p vec.Vec2) core.Color {
	x, y := d.Pixel(p)
	return d.Texture.At(x, y)
}

// Intensity returns the opacity of the disk at planar distance r from the
// centre: sqrt(10 - r/Rs) / sqrt(8), about 0.94 at the inner edge and 0 at
// the outer one.
func (d *Disk) Intensity(r float64) float64 {
	return math.Sqrt(10-r/d.HorizonRadius) / (2 * math.Sqrt2)
}

// Contains reports whether planar distance r lies inside the disk band
// [3, 10) horizon radii.
func (d *Disk) Contains(r float64) bool {
	return r >= 3*d.HorizonRadius && r < 10*d.HorizonRadius
}

func toPixel(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}
