package noise

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
)

var sqrt2 = math32.Sqrt(2)

// Domain warp offsets. They only decorrelate the fbm lookups.
var (
	offsetQ  = Vec2{5.2, 1.3}
	offsetR1 = Vec2{1.7, 9.2}
	offsetR2 = Vec2{8.3, 2.8}
)

// Params shape the background field. The same values are uploaded to the
// background shader as uniforms.
type Params struct {
	Scale           float32    // noise-space units across the short screen axis
	DriftX, DriftY  float32    // time multipliers for the two r lookups (k1, k2)
	PointerStrength float32    // warp amplitude added to r at full hover
	PointerFalloff  float32    // gaussian falloff of the pointer warp, in noise space
	ColorA          [3]float32 // low intensity
	ColorB          [3]float32 // high intensity
	ColorC          [3]float32 // mixed in by |q|
	Specular        float32    // weight of pow(f, 3.5)
	Highlight       float32    // weight of f*hover
	Vignette        float32    // darkening at the corners, 0 disables
}

// DefaultParams returns the look used on the landing page.
func DefaultParams() Params {
	return Params{
		Scale:           3.0,
		DriftX:          0.15,
		DriftY:          0.126,
		PointerStrength: 0.6,
		PointerFalloff:  1.5,
		ColorA:          [3]float32{0.06, 0.07, 0.16},
		ColorB:          [3]float32{0.38, 0.22, 0.58},
		ColorC:          [3]float32{0.10, 0.55, 0.65},
		Specular:        0.55,
		Highlight:       0.35,
		Vignette:        0.6,
	}
}

// Input is everything the field depends on for one pixel.
type Input struct {
	UV      Vec2    // screen position in [0,1]², y up
	Aspect  float32 // width / height of the surface
	Time    float32 // elapsed seconds
	Pointer Vec2    // smoothed pointer in NDC [-1,1]², y up
	Hover   float32 // hover intensity in [0,1]
}

// Warp holds the intermediate fields of one evaluation.
type Warp struct {
	Q, R Vec2
	F    float32
}

// Point maps a screen position into noise space. The x axis is stretched by
// the aspect ratio so cells stay square.
func (p Params) Point(uv Vec2, aspect float32) Vec2 {
	return Vec2{(uv.X*2 - 1) * aspect, uv.Y*2 - 1}.Scale(p.Scale)
}

// DomainWarp evaluates q, r and the final intensity f for in.
func (p Params) DomainWarp(in Input) Warp {
	st := p.Point(in.UV, in.Aspect)
	t := in.Time

	q := Vec2{FBM(st), FBM(st.Add(offsetQ))}
	base := st.Add(q)
	r := Vec2{
		FBM(base.Add(offsetR1).Add(Vec2{p.DriftX * t, p.DriftX * t})),
		FBM(base.Add(offsetR2).Add(Vec2{p.DriftY * t, p.DriftY * t})),
	}

	// Pointer ripple: a rotating unit vector, strongest at the hovered point.
	ptr := Vec2{in.Pointer.X * in.Aspect, in.Pointer.Y}.Scale(p.Scale)
	d := st.Sub(ptr).Len()
	prox := math32.Exp(-d * d * p.PointerFalloff)
	k := in.Hover * p.PointerStrength * prox
	r = r.Add(Vec2{math32.Cos(t), math32.Sin(t)}.Scale(k))

	return Warp{Q: q, R: r, F: FBM(st.Add(r))}
}

// Shade returns the final RGB color for in, each channel in [0,1].
func (p Params) Shade(in Input) [3]float32 {
	w := p.DomainWarp(in)
	f := w.F

	mixA := clamp01(f * f * 4)
	mixC := clamp01(w.Q.Len())

	var out [3]float32
	spec := p.Specular * math32.Pow(f, 3.5)
	glow := p.Highlight * f * in.Hover

	c := in.UV.Sub(Vec2{0.5, 0.5}).Len() * sqrt2
	vig := 1 - p.Vignette*c*c

	for i := 0; i < 3; i++ {
		v := mix(p.ColorA[i], p.ColorB[i], mixA)
		v = mix(v, p.ColorC[i], mixC)
		v += spec + glow
		out[i] = clamp01(v * vig)
	}
	return out
}

// Render fills dst with the field, splitting rows across goroutines. Row 0 of
// dst is the top of the screen.
func (p Params) Render(dst *image.RGBA, t float32, pointer Vec2, hover float32) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	aspect := float32(w) / float32(h)

	workers := runtime.NumCPU()
	if workers > h {
		workers = h
	}
	rowsPer := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < h; start += rowsPer {
		end := start + rowsPer
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				v := 1 - (float32(y)+0.5)/float32(h)
				for x := 0; x < w; x++ {
					u := (float32(x) + 0.5) / float32(w)
					c := p.Shade(Input{
						UV:      Vec2{u, v},
						Aspect:  aspect,
						Time:    t,
						Pointer: pointer,
						Hover:   hover,
					})
					dst.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{
						R: uint8(c[0]*255 + 0.5),
						G: uint8(c[1]*255 + 0.5),
						B: uint8(c[2]*255 + 0.5),
						A: 255,
					})
				}
			}
		}(start, end)
	}
	wg.Wait()
}
