package scene

import (
	"fmt"

	"github.com/df07/go-blackhole-raytracer/pkg/integrator"
	"github.com/df07/go-blackhole-raytracer/pkg/texture"
)

// Scene is everything a render reads: parameters, camera, textures and the
// integrator built from them. It is never modified after New and is safe to
// share between goroutines.
type Scene struct {
	Params     Params
	Camera     *Camera
	Skybox     *texture.Skybox
	Disk       *texture.Disk
	Integrator *integrator.Integrator
}

// New validates p and assembles a scene around the given textures
func New(p Params, textures *texture.Set) (*Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if textures == nil || textures.Disk == nil || textures.Skybox == nil {
		return nil, fmt.Errorf("%w: incomplete texture set", ErrInvalidParams)
	}

	disk := texture.NewDisk(textures.Disk)
	disk.PixelsPer3Radii = p.DiskScale

	return &Scene{
		Params:     p,
		Camera:     NewCamera(p),
		Skybox:     textures.Skybox,
		Disk:       disk,
		Integrator: integrator.NewIntegrator(textures.Skybox, disk, p.MaxSteps),
	}, nil
}

// Trace follows the photon for sub-sample (si, sj) of pixel (px, py)
func (s *Scene) Trace(px, py, si, sj int) integrator.Result {
	return s.Integrator.Trace(s.Camera.Photon(px, py, si, sj))
}
