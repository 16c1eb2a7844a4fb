package texture

import (
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// Face identifies one side of the skybox cube
type Face int

const (
	Front  Face = iota // +Z
	Back               // -Z
	Left               // -X
	Right              // +X
	Top                // +Y
	Bottom             // -Y

	FaceCount = 6
)

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Projection is a direction expressed in the frame of one skybox face: Main is
// the component along the face normal (always >= 0), Hori and Vert map to the
// texture x and y axes.
type Projection struct {
	Face             Face
	Main, Hori, Vert float64
}

// Project selects the face whose axis dominates dir and expresses dir in that
// face's frame. x wins only when strictly larger than both y and z, y only when
// strictly larger than z, otherwise z.
func Project(dir core.Vec3) Projection {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)
	switch {
	case ax > ay && ax > az:
		if dir.X > 0 {
			return Projection{Right, dir.X, -dir.Z, dir.Y}
		}
		return Projection{Left, -dir.X, dir.Z, dir.Y}
	case ay > az:
		if dir.Y > 0 {
			return Projection{Top, dir.Y, dir.X, -dir.Z}
		}
		return Projection{Bottom, -dir.Y, dir.X, dir.Z}
	default:
		if dir.Z > 0 {
			return Projection{Front, dir.Z, dir.X, dir.Y}
		}
		return Projection{Back, -dir.Z, -dir.X, dir.Y}
	}
}

// Pixel maps the projection onto a width x height face texture. Each face
// covers roughly a 90 degree field of view.
func (p Projection) Pixel(width, height int) (x, y int) {
	sinAlpha := p.Hori / math.Sqrt(p.Hori*p.Hori+p.Main*p.Main)
	sinBeta := p.Vert / math.Sqrt(p.Vert*p.Vert+p.Main*p.Main)
	return facePixel(sinAlpha, width), facePixel(sinBeta, height)
}

func facePixel(sin float64, size int) int {
	last := size - 1
	v := math.Round(float64(last) / 2 * (1 + math.Sqrt2*sin))
	if math.IsNaN(v) {
		return last / 2
	}
	return int(max(0, min(float64(last), v)))
}

// Skybox is a cube map made of six face textures
type Skybox struct {
	Faces [FaceCount]*Texture
}

// NewSkybox creates a skybox from textures indexed by Face
func NewSkybox(faces [FaceCount]*Texture) *Skybox {
	return &Skybox{Faces: faces}
}

// UniformSkybox creates a skybox whose six faces are a single color
func UniformSkybox(size int, c core.Color) *Skybox {
	face := Uniform(size, size, c)
	var faces [FaceCount]*Texture
	for i := range faces {
		faces[i] = face
	}
	return NewSkybox(faces)
}

// Sample returns the background color seen along dir. dir does not have to be
// unit length.
func (s *Skybox) Sample(dir core.Vec3) core.Color {
	p := Project(dir)
	face := s.Faces[p.Face]
	if face == nil {
		return core.Black
	}
	x, y := p.Pixel(face.Width, face.Height)
	return face.At(x, y)
}
