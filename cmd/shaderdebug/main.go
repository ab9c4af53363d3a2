// Shader debug tool - renders the CPU reference of the procedural passes to PNG
// files so they can be compared against a screenshot of the running effect.
//
// Usage: go run ./cmd/shaderdebug -config config.yaml -out debug
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/config"
	"github.com/pthm-cable/sheen/effect"
	"github.com/pthm-cable/sheen/noise"
	"github.com/pthm-cable/sheen/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outDir := flag.String("out", "debug", "Output directory")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	t := flag.Float64("time", 0, "Elapsed seconds to render the background at")
	px := flag.Float64("pointer-x", 0, "Pointer x in NDC")
	py := flag.Float64("pointer-y", 0, "Pointer y in NDC")
	hover := flag.Float64("hover", 0, "Hover intensity in [0,1]")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	opts := effect.OptionsFromConfig(config.Cfg(), nil)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	bg := image.NewRGBA(image.Rect(0, 0, *width, *height))
	opts.Background.Render(bg, float32(*t), noise.Vec2{X: float32(*px), Y: float32(*py)}, float32(*hover))

	field := colorfield.New(opts.ColorField)
	label := renderer.RenderLabel(opts.Label.Text, opts.Label.TextScale)

	outputs := []struct {
		name string
		img  image.Image
	}{
		{"background.png", bg},
		{"colorfield.png", field.Image()},
		{"label.png", label},
	}
	for _, o := range outputs {
		path := filepath.Join(*outDir, o.name)
		if err := writePNG(path, o.img); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		b := o.img.Bounds()
		fmt.Printf("Rendered: %s (%dx%d)\n", path, b.Dx(), b.Dy())
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
