// Field preview tool - tune the background field and thin-film table with sliders.
//
// Usage: go run ./cmd/fieldpreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/config"
	"github.com/pthm-cable/sheen/effect"
	"github.com/pthm-cable/sheen/noise"
)

const (
	windowWidth   = 1100
	windowHeight  = 760
	previewWidth  = 640
	previewHeight = 360
	gridWidth     = 256
	gridHeight    = 144
	panelWidth    = windowWidth - previewWidth - 30
)

// tuned is the subset of the config this tool edits, in config file layout.
type tuned struct {
	Background config.BackgroundConfig `yaml:"background"`
	ColorField config.ColorFieldConfig `yaml:"color_field"`
}

// panel lays out slider rows top to bottom.
type panel struct {
	x, y  float32
	dirty bool
}

func (p *panel) slider(label, format string, v *float64, lo, hi float64) {
	rl.DrawText(label, int32(p.x), int32(p.y), 14, rl.Gray)
	p.y += 18
	nv := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: p.y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(*v), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(p.x+float32(panelWidth-70)), int32(p.y+2), 16, rl.DarkGray)
	if float64(nv) != float64(float32(*v)) {
		*v = float64(nv)
		p.dirty = true
	}
	p.y += 30
}

func (p *panel) header(text string) {
	rl.DrawLine(int32(p.x), int32(p.y), int32(p.x)+panelWidth-20, int32(p.y), rl.LightGray)
	p.y += 8
	rl.DrawText(text, int32(p.x), int32(p.y), 16, rl.DarkGray)
	p.y += 24
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	defaults := tuned{
		Background: config.Cfg().Background,
		ColorField: config.Cfg().ColorField,
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	frame := image.NewRGBA(image.Rect(0, 0, gridWidth, gridHeight))
	img := rl.GenImageColor(gridWidth, gridHeight, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var t float32
	animating := false
	field := colorfield.New(filmParams(params))
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			needsRegen = true
		}

		// Pointer over the preview drives the hover warp.
		var ptr noise.Vec2
		var hover float32
		m := rl.GetMousePosition()
		if m.X >= 10 && m.X < 10+previewWidth && m.Y >= 10 && m.Y < 10+previewHeight {
			ptr = noise.Vec2{X: 2*(m.X-10)/previewWidth - 1, Y: 1 - 2*(m.Y-10)/previewHeight}
			hover = 1
			needsRegen = true
		}

		if needsRegen {
			backgroundParams(params).Render(frame, t, ptr, hover)
			updateTexture(texture, frame)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridWidth, Height: gridHeight},
			rl.Rectangle{X: 10, Y: 10, Width: previewWidth, Height: previewHeight},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewWidth, previewHeight, rl.DarkGray)

		// Thin-film strip, incidence angle left to right.
		stripY := int32(previewHeight + 25)
		rl.DrawText("Thin-film table (normal -> grazing)", 15, stripY, 16, rl.DarkGray)
		stripY += 22
		n := field.Size()
		for x := 0; x < previewWidth; x++ {
			r, g, b := field.At(x*n/previewWidth, 0)
			rl.DrawRectangle(int32(10+x), stripY, 1, 40, rl.NewColor(byte(r*255), byte(g*255), byte(b*255), 255))
		}
		rl.DrawRectangleLines(10, stripY, previewWidth, 40, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f", t), 15, stripY+50, 16, rl.DarkGray)

		p := &panel{x: float32(previewWidth + 20), y: 10}
		rl.DrawText("Field Parameters", int32(p.x), int32(p.y), 20, rl.DarkGray)
		p.y += 32

		bg := &params.Background
		p.slider("Scale (noise units across the short axis)", "%.2f", &bg.Scale, 0.5, 10)
		p.slider("Drift X", "%.3f", &bg.DriftX, 0, 0.5)
		p.slider("Drift Y", "%.3f", &bg.DriftY, 0, 0.5)
		p.slider("Pointer strength", "%.2f", &bg.PointerStrength, 0, 2)
		p.slider("Pointer falloff", "%.2f", &bg.PointerFalloff, 0.1, 5)
		p.slider("Specular", "%.2f", &bg.Specular, 0, 1.5)
		p.slider("Highlight", "%.2f", &bg.Highlight, 0, 1.5)
		p.slider("Vignette", "%.2f", &bg.Vignette, 0, 1)
		bgDirty := p.dirty

		p.header("Thin film")
		p.dirty = false
		cf := &params.ColorField
		p.slider("Thickness (um)", "%.3f", &cf.Thickness, 0, 2)
		p.slider("Film index", "%.3f", &cf.FilmIndex, colorfield.MinIndex, 2.5)
		if p.dirty {
			field = colorfield.New(filmParams(params))
		}
		needsRegen = needsRegen || bgDirty

		p.y += 10
		if gui.Button(rl.Rectangle{X: p.x, Y: p.y, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: p.x + 130, Y: p.y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			field = colorfield.New(filmParams(params))
			t = 0
			needsRegen = true
		}
		p.y += 45

		out, err := yaml.Marshal(params)
		if err != nil {
			out = []byte(err.Error())
		}
		rl.DrawText("YAML Config:", int32(p.x), int32(p.y), 16, rl.DarkGray)
		p.y += 22
		for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
			if p.y > windowHeight-40 {
				break
			}
			rl.DrawText(line, int32(p.x), int32(p.y), 12, rl.Gray)
			p.y += 14
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(p.x), windowHeight-24, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(string(out))
		}

		rl.EndDrawing()
	}
}

func backgroundParams(p tuned) noise.Params {
	cfg := config.Config{Background: p.Background}
	return effect.OptionsFromConfig(&cfg, nil).Background
}

func filmParams(p tuned) colorfield.Params {
	cfg := config.Config{ColorField: p.ColorField}
	return effect.OptionsFromConfig(&cfg, nil).ColorField
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture copies the rendered frame into the GPU texture.
func updateTexture(texture rl.Texture2D, frame *image.RGBA) {
	b := frame.Bounds()
	pixels := make([]color.RGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, frame.RGBAAt(x, y))
		}
	}
	rl.UpdateTexture(texture, pixels)
}
