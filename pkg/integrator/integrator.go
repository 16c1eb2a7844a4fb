package integrator

import (
	"seehuhn.de/go/geom/vec"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// EscapeRadii is the distance, in horizon radii, beyond which a photon is
// considered to have left the system.
const EscapeRadii = 20

// DefaultMaxSteps bounds the number of integration steps per photon. Photons
// caught near the photon sphere can otherwise circle forever.
const DefaultMaxSteps = 5_000_000

// Background supplies the color seen by escaping photons
type Background interface {
	Sample(dir core.Vec3) core.Color
}

// Disk is the translucent emitter lying in the equatorial (y = 0) plane
type Disk interface {
	Contains(r float64) bool
	Intensity(r float64) float64
	Sample(p vec.Vec2) core.Color
}

// Outcome describes how a photon's integration ended
type Outcome int

const (
	OutcomeAbsorbed  Outcome = iota // fell below the horizon radius
	OutcomeEscaped                  // passed the escape radius
	OutcomeExhausted                // hit the step ceiling; shaded as escaped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAbsorbed:
		return "absorbed"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result is everything one photon observed
type Result struct {
	Outcome   Outcome
	Color     core.Color       // final opaque color
	Disk      core.Accumulated // disk layers gathered before termination
	Crossings int              // disk layers composited
	Steps     int
}

// Integrator traces photons through the gravitational field. It holds only
// read-only state and may be shared between goroutines.
type Integrator struct {
	background Background
	disk       Disk
	maxSteps   int
}

// NewIntegrator creates an integrator. maxSteps <= 0 removes the step ceiling.
func NewIntegrator(background Background, disk Disk, maxSteps int) *Integrator {
	return &Integrator{
		background: background,
		disk:       disk,
		maxSteps:   maxSteps,
	}
}

// Trace integrates p until it is absorbed or escapes, compositing every disk
// crossing front to back.
func (in *Integrator) Trace(p Photon) Result {
	var res Result
	var acc core.Accumulated

	for {
		dist := p.Position.Length()
		if dist < core.HorizonRadius {
			res.Outcome = OutcomeAbsorbed
			res.Color = acc.Opaque(core.Black)
			break
		}
		if dist > EscapeRadii*core.HorizonRadius {
			res.Outcome = OutcomeEscaped
			res.Color = acc.Opaque(in.background.Sample(p.Direction))
			break
		}
		if in.maxSteps > 0 && res.Steps >= in.maxSteps {
			res.Outcome = OutcomeExhausted
			res.Color = acc.Opaque(in.background.Sample(p.Direction))
			break
		}

		dt := StepSize(dist)
		next := p.Deflect(dt).Move(dt)

		if point, ok := PlaneCrossing(p.Position, next.Position); ok {
			r := point.Length()
			if in.disk.Contains(r) {
				acc = acc.Over(in.disk.Sample(point), in.disk.Intensity(r))
				res.Crossings++
			}
		}

		p = next
		res.Steps++
	}

	res.Disk = acc
	return res
}

// PlaneCrossing reports whether the segment from a to b touches the y = 0
// plane and returns the crossing point as (x, z). A segment lying in the plane
// crosses at a.
func PlaneCrossing(a, b core.Vec3) (vec.Vec2, bool) {
	if (a.Y < 0) == (b.Y < 0) && a.Y != 0 && b.Y != 0 {
		return vec.Vec2{}, false
	}

	dy := b.Y - a.Y
	if dy == 0 {
		return vec.Vec2{X: a.X, Y: a.Z}, true
	}
	t := -a.Y / dy
	return vec.Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Z + (b.Z-a.Z)*t,
	}, true
}
