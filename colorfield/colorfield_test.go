package colorfield

import (
	"math"
	"testing"
)

func TestZeroThicknessIsMaximumEverywhere(t *testing.T) {
	f := New(Params{Size: 16, Thickness: 0, FilmIndex: 1.33, BaseIndex: 1.0})

	for y := 0; y < f.Size(); y++ {
		for x := 0; x < f.Size(); x++ {
			r, g, b := f.At(x, y)
			if r != 1 || g != 1 || b != 1 {
				t.Fatalf("texel (%d,%d) = (%f,%f,%f), want (1,1,1)", x, y, r, g, b)
			}
		}
	}

	img := f.Image()
	for i := 0; i < len(img.Pix); i++ {
		if img.Pix[i] != 255 {
			t.Fatalf("quantised byte %d = %d, want 255", i, img.Pix[i])
		}
	}
}

func TestIntensityMatchesClosedForm(t *testing.T) {
	const thickness, film = 0.38, 1.33

	for _, u := range []float64{0, 0.1, 0.5, 0.9, 1} {
		angle := math.Acos(1 - u)
		delta := 2 * math.Pi * thickness * film * math.Cos(angle)
		want := make([]float64, 3)
		for i, wl := range Wavelengths {
			c := math.Cos(delta*1000/float64(wl))*0.5 + 0.5
			want[i] = c * c
		}

		r, g, b := Intensity(float32(u), thickness, film)
		got := []float32{r, g, b}
		for i := range got {
			if math.Abs(float64(got[i])-want[i]) > 1e-4 {
				t.Errorf("u=%.2f channel %d: got %f, want %f", u, i, got[i], want[i])
			}
		}
	}
}

func TestGrazingAngleIsPhaseFree(t *testing.T) {
	// u=1 means angle=pi/2, so cos(angle)=0 and every channel peaks.
	r, g, b := Intensity(1, 2.5, 1.5)
	for i, v := range []float32{r, g, b} {
		if math.Abs(float64(v)-1) > 1e-5 {
			t.Errorf("channel %d at grazing angle = %f, want 1", i, v)
		}
	}
}

func TestValuesStayInUnitRange(t *testing.T) {
	f := New(DefaultParams())
	for y := 0; y < f.Size(); y++ {
		for x := 0; x < f.Size(); x++ {
			r, g, b := f.At(x, y)
			for _, v := range []float32{r, g, b} {
				if v < 0 || v > 1 {
					t.Fatalf("texel (%d,%d) out of range: %f", x, y, v)
				}
			}
		}
	}
}

func TestRowsDuplicateSecondaryAxis(t *testing.T) {
	f := New(Params{Size: 8, Thickness: 0.5, FilmIndex: 1.4, BaseIndex: 1})
	for x := 0; x < f.Size(); x++ {
		r0, g0, b0 := f.At(x, 0)
		for y := 1; y < f.Size(); y++ {
			r, g, b := f.At(x, y)
			if r != r0 || g != g0 || b != b0 {
				t.Fatalf("column %d differs between row 0 and row %d", x, y)
			}
		}
	}
}

func TestParamsAreClamped(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"too small", Params{Size: 0, Thickness: -1, FilmIndex: 0.5, BaseIndex: 0}, Params{Size: MinSize, Thickness: 0, FilmIndex: MinIndex, BaseIndex: MinIndex}},
		{"too large", Params{Size: 5000, Thickness: 99, FilmIndex: 7, BaseIndex: 4}, Params{Size: MaxSize, Thickness: MaxThickness, FilmIndex: MaxIndex, BaseIndex: MaxIndex}},
		{"valid", DefaultParams(), DefaultParams()},
		{"nan", Params{Size: 8, Thickness: nan, FilmIndex: nan, BaseIndex: nan}, Params{Size: 8, Thickness: 0, FilmIndex: MinIndex, BaseIndex: MinIndex}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Clamped(); got != tc.want {
				t.Errorf("Clamped() = %+v, want %+v", got, tc.want)
			}
		})
	}

	f := New(Params{Size: 1, Thickness: -3})
	if f.Size() != MinSize {
		t.Errorf("New did not clamp size: %d", f.Size())
	}
}

func TestNaNThicknessBuildsFiniteTable(t *testing.T) {
	f := New(Params{Size: 4, Thickness: float32(math.NaN()), FilmIndex: 1.33, BaseIndex: 1})

	for x := 0; x < f.Size(); x++ {
		r, g, b := f.At(x, 0)
		for i, v := range []float32{r, g, b} {
			if v != 1 {
				t.Errorf("texel %d channel %d = %f, want 1 (thickness treated as 0)", x, i, v)
			}
		}
	}
}

func TestImageIsACopy(t *testing.T) {
	f := New(Params{Size: 4, Thickness: 0.2, FilmIndex: 1.3, BaseIndex: 1})
	img := f.Image()
	img.Pix[0] = 7

	if f.Image().Pix[0] == 7 {
		t.Error("mutating Image() result changed the field")
	}
}
