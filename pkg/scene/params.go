package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
	"github.com/df07/go-blackhole-raytracer/pkg/texture"
)

// ErrInvalidParams is wrapped by every parameter validation error
var ErrInvalidParams = errors.New("invalid parameters")

// Params are the physical and camera constants of a render. They are fixed
// once rendering starts.
type Params struct {
	CameraDistance float64 // distance behind the hole along -z, in horizon radii
	CameraHeight   float64 // height above the disk plane, in horizon radii
	FOV            float64 // horizontal field of view in degrees
	Samples        int     // sub-samples per pixel width (Samples^2 rays per pixel)
	Width          int     // output width in pixels
	Height         int     // output height in pixels
	DiskScale      float64 // disk texture pixels per 3 horizon radii
	MaxSteps       int     // integration step ceiling per ray, 0 = unbounded
}

// DefaultParams returns the values used when nothing is specified
func DefaultParams() Params {
	return Params{
		CameraDistance: 15,
		CameraHeight:   1,
		FOV:            90,
		Samples:        1,
		Width:          512,
		Height:         288,
		DiskScale:      texture.DefaultPixelsPer3Radii,
		MaxSteps:       integrator.DefaultMaxSteps,
	}
}

// Validate checks that the parameters describe a renderable scene
func (p Params) Validate() error {
	switch {
	case p.CameraDistance <= 0:
		return fmt.Errorf("%w: camera distance must be positive, got %g", ErrInvalidParams, p.CameraDistance)
	case p.CameraDistance*p.CameraDistance+p.CameraHeight*p.CameraHeight <= 1:
		return fmt.Errorf("%w: camera must be outside the horizon radius", ErrInvalidParams)
	case p.FOV <= 0 || p.FOV >= 360:
		return fmt.Errorf("%w: field of view must be between 0 and 360 degrees, got %g", ErrInvalidParams, p.FOV)
	case p.Samples < 1:
		return fmt.Errorf("%w: samples must be at least 1, got %d", ErrInvalidParams, p.Samples)
	case p.Width < 1 || p.Height < 1:
		return fmt.Errorf("%w: resolution must be at least 1x1, got %dx%d", ErrInvalidParams, p.Width, p.Height)
	case p.DiskScale <= 0:
		return fmt.Errorf("%w: disk scale must be positive, got %g", ErrInvalidParams, p.DiskScale)
	case p.MaxSteps < 0:
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidParams, p.MaxSteps)
	}
	return nil
}

// Resolution formats the output size as WIDTHxHEIGHT
func (p Params) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// ParseResolution parses a WIDTHxHEIGHT string such as "512x288"
func ParseResolution(s string) (width, height int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: resolution %q is not WIDTHxHEIGHT", ErrInvalidParams, s)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid width %q", ErrInvalidParams, parts[0])
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid height %q", ErrInvalidParams, parts[1])
	}
	if width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("%w: resolution must be at least 1x1, got %q", ErrInvalidParams, s)
	}
	return width, height, nil
}
