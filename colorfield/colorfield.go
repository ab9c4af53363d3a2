// Package colorfield precomputes the thin-film interference lookup table used to
// tint the displacement surface.
package colorfield

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// Representative wavelengths in nanometres, written to R, G and B respectively.
var Wavelengths = [3]float32{650, 510, 475}

// Parameter limits. Values outside these ranges, and NaN, are clamped, never
// rejected.
const (
	MinSize      = 2
	MaxSize      = 1024
	MaxThickness = 10.0 // micrometres
	MinIndex     = 1.0
	MaxIndex     = 3.0
)

// Params are the construction parameters of a Field.
type Params struct {
	Size      int     // texels per side
	Thickness float32 // film thickness in micrometres
	FilmIndex float32 // refractive index of the film
	BaseIndex float32 // refractive index of the substrate; recorded for consumers, not used by the phase term
}

// DefaultParams returns a soap-film like configuration.
func DefaultParams() Params {
	return Params{
		Size:      64,
		Thickness: 0.38,
		FilmIndex: 1.33,
		BaseIndex: 1.0,
	}
}

// Clamped returns a copy of p with every field forced into its valid range.
func (p Params) Clamped() Params {
	if p.Size < MinSize {
		p.Size = MinSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	p.Thickness = clamp(p.Thickness, 0, MaxThickness)
	p.FilmIndex = clamp(p.FilmIndex, MinIndex, MaxIndex)
	p.BaseIndex = clamp(p.BaseIndex, MinIndex, MaxIndex)
	return p
}

// Field is an immutable N×N table of RGB intensities in [0,1].
// The x axis is derived from the incidence angle; y is a secondary axis that
// currently duplicates x's values row by row.
type Field struct {
	params Params
	values []float32 // rgb triplets, row-major
	img    *image.RGBA
}

// New evaluates the interference formula for every texel.
func New(p Params) *Field {
	p = p.Clamped()
	n := p.Size

	f := &Field{
		params: p,
		values: make([]float32, n*n*3),
		img:    image.NewRGBA(image.Rect(0, 0, n, n)),
	}

	// Every row is identical, so compute one and replicate it.
	row := make([]float32, n*3)
	for x := 0; x < n; x++ {
		u := float32(x) / float32(n-1)
		r, g, b := Intensity(u, p.Thickness, p.FilmIndex)
		row[x*3+0] = r
		row[x*3+1] = g
		row[x*3+2] = b
	}

	for y := 0; y < n; y++ {
		copy(f.values[y*n*3:(y+1)*n*3], row)
		for x := 0; x < n; x++ {
			f.img.SetRGBA(x, y, color.RGBA{
				R: quantize(row[x*3+0]),
				G: quantize(row[x*3+1]),
				B: quantize(row[x*3+2]),
				A: 255,
			})
		}
	}
	return f
}

// Intensity returns the RGB interference intensities for a normalised angle
// coordinate u in [0,1].
func Intensity(u, thickness, filmIndex float32) (r, g, b float32) {
	angle := math32.Acos(1 - u)
	delta := 2 * math32.Pi * thickness * filmIndex * math32.Cos(angle)
	return channel(delta, Wavelengths[0]), channel(delta, Wavelengths[1]), channel(delta, Wavelengths[2])
}

func channel(delta, wavelength float32) float32 {
	v := math32.Cos(delta*1000/wavelength)*0.5 + 0.5
	return v * v
}

// Params returns the clamped parameters the field was built with.
func (f *Field) Params() Params { return f.params }

// Size returns the number of texels per side.
func (f *Field) Size() int { return f.params.Size }

// At returns the unquantised RGB value of texel (x, y).
func (f *Field) At(x, y int) (r, g, b float32) {
	i := (y*f.params.Size + x) * 3
	return f.values[i], f.values[i+1], f.values[i+2]
}

// Image returns a copy of the 8-bit quantised table, ready for texture upload.
// A copy is returned so callers cannot mutate the shared field.
func (f *Field) Image() *image.RGBA {
	cp := image.NewRGBA(f.img.Rect)
	copy(cp.Pix, f.img.Pix)
	return cp
}

func quantize(v float32) uint8 {
	return uint8(clamp(v, 0, 1)*255 + 0.5)
}

// clamp maps NaN to lo.
func clamp(x, lo, hi float32) float32 {
	if math32.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
