package scene

import (
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
)

// Camera is a pinhole camera behind the hole looking along +z, tilted down so
// the hole sits in the centre of the image
type Camera struct {
	Position core.Vec3

	verticalAngle float64 // tilt toward the hole, radians
	perPixel      float64 // angle covered by one pixel, radians
	fovH, fovV    float64 // full horizontal and vertical fields of view
	samples       int
}

// NewCamera creates the camera described by p
func NewCamera(p Params) *Camera {
	back := p.CameraDistance * core.HorizonRadius
	up := p.CameraHeight * core.HorizonRadius
	position := core.NewVec3(0, up, -back)

	fovH := p.FOV * math.Pi / 180
	perPixel := fovH / float64(p.Width)

	return &Camera{
		Position:      position,
		verticalAngle: math.Copysign(math.Acos(back/position.Length()), up),
		perPixel:      perPixel,
		fovH:          fovH,
		fovV:          perPixel * float64(p.Height),
		samples:       max(1, p.Samples),
	}
}

// Angles returns the horizontal and vertical angles of sub-sample (si, sj) of
// pixel (px, py). Sub-samples sit at the centres of a samples x samples grid
// over the pixel footprint.
func (c *Camera) Angles(px, py, si, sj int) (horizontal, vertical float64) {
	n := float64(c.samples)
	horizontal = -c.fovH/2 + c.perPixel*(float64(px)+(float64(si)+0.5)/n)
	vertical = -c.fovV/2 + c.perPixel*(float64(py)+(float64(sj)+0.5)/n) + c.verticalAngle
	return horizontal, vertical
}

// Direction returns the unit direction of sub-sample (si, sj) of pixel
// (px, py). Image rows grow downward, which is -y in world space.
func (c *Camera) Direction(px, py, si, sj int) core.Vec3 {
	h, v := c.Angles(px, py, si, sj)
	return core.NewVec3(
		math.Cos(v)*math.Sin(h),
		-math.Sin(v),
		math.Cos(v)*math.Cos(h),
	)
}

// Photon returns the photon leaving the camera for sub-sample (si, sj) of
// pixel (px, py)
func (c *Camera) Photon(px, py, si, sj int) integrator.Photon {
	return integrator.NewPhoton(c.Position, c.Direction(px, py, si, sj))
}
