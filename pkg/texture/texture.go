package texture

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// Texture is an immutable row-major RGB pixel array. It is safe for
// concurrent reads.
type Texture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// New creates a texture of the given size filled with black
func New(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// Uniform creates a texture where every pixel has the same color
func Uniform(width, height int, c core.Color) *Texture {
	t := New(width, height)
	for i := range t.Pixels {
		t.Pixels[i] = c
	}
	return t
}

// FromImage copies an image into a texture. The source is first normalized to
// RGBA so paletted and gray images sample the same way as true-color ones.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	t := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			o := rgba.PixOffset(x, y)
			t.Pixels[y*t.Width+x] = core.NewColor(rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2])
		}
	}
	return t
}

// Lookup returns the pixel at (x, y) and whether the coordinates are inside the texture
func (t *Texture) Lookup(x, y int) (core.Color, bool) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return core.Black, false
	}
	return t.Pixels[y*t.Width+x], true
}

// At returns the pixel at (x, y) with coordinates clamped to the texture edges.
// An empty texture returns black.
func (t *Texture) At(x, y int) core.Color {
	if t.Width == 0 || t.Height == 0 {
		return core.Black
	}
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))
	return t.Pixels[y*t.Width+x]
}

// Image returns the texture as an RGBA image
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetRGBA(x, y, t.Pixels[y*t.Width+x].RGBA())
		}
	}
	return img
}
