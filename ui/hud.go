package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/effect"
	"github.com/pthm-cable/sheen/telemetry"
)

// HUDData holds everything the overlay shows for one frame.
type HUDData struct {
	Title  string
	FPS    int32
	State  effect.State
	Frame  effect.FrameInfo
	Perf   telemetry.PerfStats
	Film   *colorfield.Field
	Width  int32
	Height int32
}

// HUD renders the diagnostic overlay.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	film     []rl.Color
	filmSrc  *colorfield.Field
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 260}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	th := r.Theme
	x, y := h.x+th.Padding, h.y+th.Padding
	inner := h.width - 2*th.Padding

	r.DrawPanel(h.x, h.y, h.width, h.height(data))

	y = r.DrawSectionHeader(x, y, data.Title)

	stateColor := th.ValueColor
	if data.State != effect.Running {
		stateColor = th.WarnColor
	}
	y = r.DrawLabelValue(x, y, "State", data.State.String(), stateColor)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS), th.ValueColor)
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d  %.1fs", data.Frame.Frame, data.Frame.Elapsed), th.ValueColor)
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%dx%d", data.Width, data.Height), th.ValueColor)

	p := data.Frame.Pointer
	y = r.DrawBar(x, y, "Hover", p.Hover, inner)
	y = r.DrawCenteredBar(x, y, "Ptr X", p.Smoothed[0], inner)
	y = r.DrawCenteredBar(x, y, "Ptr Y", p.Smoothed[1], inner)

	focus := "none"
	if data.Frame.Focus.Valid {
		f := data.Frame.Focus.Position
		focus = fmt.Sprintf("(%.2f, %.2f, %.2f)", f.X, f.Y, f.Z)
		if !data.Frame.Hit {
			focus += " kept"
		}
	}
	y = r.DrawLabelValue(x, y, "Focus", focus, th.ValueColor)

	if data.Film != nil {
		y = r.DrawSwatchStrip(x, y, "Film", h.filmColors(data.Film), inner)
	}

	if data.Perf.AvgFrameDuration > 0 {
		y = r.DrawLabelValue(x, y, "CPU", data.Perf.AvgFrameDuration.Round(time.Microsecond).String(), th.ValueColor)
		for _, phase := range telemetry.Phases {
			pct, ok := data.Perf.PhasePct[phase]
			if !ok {
				continue
			}
			y = r.DrawBar(x, y, phase, float32(pct/100), inner)
		}
	}
}

func (h *HUD) height(data HUDData) int32 {
	th := h.renderer.Theme
	lines := int32(10)
	if data.Film != nil {
		lines++
	}
	if data.Perf.AvgFrameDuration > 0 {
		lines += 1 + int32(len(data.Perf.PhasePct))
	}
	return 2*th.Padding + lines*(th.LineHeight+2)
}

// filmColors samples the lookup along its angle axis, caching per field.
func (h *HUD) filmColors(f *colorfield.Field) []rl.Color {
	if h.filmSrc == f {
		return h.film
	}
	const samples = 24
	n := f.Size()
	h.film = h.film[:0]
	for i := 0; i < samples; i++ {
		x := i * (n - 1) / (samples - 1)
		cr, cg, cb := f.At(x, 0)
		h.film = append(h.film, rl.Color{
			R: uint8(cr*255 + 0.5),
			G: uint8(cg*255 + 0.5),
			B: uint8(cb*255 + 0.5),
			A: 255,
		})
	}
	h.filmSrc = f
	return h.film
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
