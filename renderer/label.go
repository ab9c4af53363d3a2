package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderLabel rasterises text in white on a transparent background and
// upscales it bilinearly by scale.
func RenderLabel(text string, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	pad := 2

	width := font.MeasureString(face, text).Ceil() + 2*pad
	height := (metrics.Ascent + metrics.Descent).Ceil() + 2*pad
	small := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))

	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(pad, pad+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	if scale == 1 {
		return small
	}
	out := image.NewRGBA(image.Rect(0, 0, small.Bounds().Dx()*scale, small.Bounds().Dy()*scale))
	draw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}
