package integrator

import (
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// Photon is the state of one simulated light ray. Direction always has
// magnitude core.SpeedOfLight, so Direction*dt is the distance travelled in dt
// seconds.
type Photon struct {
	Position  core.Vec3
	Direction core.Vec3
}

// NewPhoton creates a photon at position travelling along direction. Only the
// orientation of direction is used.
func NewPhoton(position, direction core.Vec3) Photon {
	return Photon{
		Position:  position,
		Direction: direction.Normalize().Multiply(core.SpeedOfLight),
	}
}

// StepSize returns the time step for a photon at dist meters from the centre.
// Inside two horizon radii the step is a fixed 1ms; further out it grows with
// the fourth power of the distance and is capped at 1s.
func StepSize(dist float64) float64 {
	if dist < 2*core.HorizonRadius {
		return 0.001
	}
	d := dist/core.HorizonRadius - 2
	return min(0.999/4096*d*d*d*d+0.001, 1)
}

// Deflect returns the photon with its direction bent toward the centre for a
// step of dt seconds. The bend is the Newtonian acceleration G*M/r^2 scaled by
// the sine of the angle between position and direction; the magnitude of the
// direction is unchanged. A photon moving straight toward or away from the
// centre is not bent.
func (p Photon) Deflect(dt float64) Photon {
	dist := p.Position.Length()
	force := core.Gravitation * core.Mass / dist / dist
	theta := math.Sin(p.Position.Angle(p.Direction)) * force / core.SpeedOfLight * dt

	axis := p.Direction.Cross(p.Position.Negate())
	if axis.Length() != 0 {
		p.Direction = p.Direction.RotateAbout(axis, theta)
	}
	return p
}

// Move returns the photon advanced along its direction for dt seconds
func (p Photon) Move(dt float64) Photon {
	p.Position = p.Position.Add(p.Direction.Multiply(dt))
	return p
}
