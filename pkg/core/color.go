package core

import "image/color"

// Color is an 8-bit RGB color
type Color struct {
	R, G, B uint8
}

// Black is the color of absorbed rays
var Black = Color{}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFrom converts any image color to Color, dropping alpha
func ColorFrom(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// RGBA returns the opaque image/color representation
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Combine composites colorB with opacity alphaB behind colorA with opacity
// alphaA (front-to-back over operator). colorA is assumed to be already
// premultiplied by alphaA. Channels saturate at 255.
func Combine(colorA Color, alphaA float64, colorB Color, alphaB float64) (Color, float64) {
	weight := (1 - alphaA) * alphaB
	return Color{
		R: blendChannel(colorA.R, colorB.R, weight),
		G: blendChannel(colorA.G, colorB.G, weight),
		B: blendChannel(colorA.B, colorB.B, weight),
	}, alphaA + weight
}

func blendChannel(front, back uint8, weight float64) uint8 {
	v := float64(front) + weight*float64(back)
	return uint8(max(0, min(255, v)))
}

// Accumulated is a color gathered front to back along a ray together with
// its coverage. The zero value is fully transparent black.
type Accumulated struct {
	Color Color
	Alpha float64
}

// Over returns the accumulation with c (opacity alpha) placed behind it.
// Once Alpha reaches 1 the result is unchanged.
func (a Accumulated) Over(c Color, alpha float64) Accumulated {
	col, al := Combine(a.Color, a.Alpha, c, alpha)
	return Accumulated{Color: col, Alpha: al}
}

// Opaque closes the accumulation with a fully opaque background and returns
// the final color.
func (a Accumulated) Opaque(background Color) Color {
	return a.Over(background, 1).Color
}

// Average returns the per-channel arithmetic mean of colors, truncating.
// An empty slice averages to black.
func Average(colors []Color) Color {
	if len(colors) == 0 {
		return Black
	}
	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(colors)
	return Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}
