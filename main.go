package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sheen/config"
	"github.com/pthm-cable/sheen/effect"
	"github.com/pthm-cable/sheen/gpu/glbackend"
	"github.com/pthm-cable/sheen/platform"
	"github.com/pthm-cable/sheen/telemetry"
	"github.com/pthm-cable/sheen/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	showHUD := flag.Bool("hud", false, "Show the diagnostic overlay (toggle with H)")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	win := platform.Open(platform.Config{
		Width:     cfg.Screen.Width,
		Height:    cfg.Screen.Height,
		TargetFPS: cfg.Screen.TargetFPS,
		Title:     cfg.Screen.Title,
		Fallback:  cfg.Derived.FallbackRGBA,
	})
	defer win.Close()

	opts := effect.OptionsFromConfig(cfg, glbackend.Backend{})
	opts.Logger = logger
	opts.Perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	// A failed mount leaves the fallback color on screen; the cause is
	// already logged.
	inst, err := effect.Mount(win, win, opts)
	defer inst.Dispose()
	if err == nil {
		slog.Info("effect mounted",
			"gl", glbackend.Version(),
			"width", cfg.Screen.Width,
			"height", cfg.Screen.Height,
		)
	}

	hud := ui.NewHUD()
	perf := inst.Perf()
	window := int64(perf.WindowSize())
	logEvery := int64(cfg.Derived.LogIntervalFr)

	var frames, lastWritten int64
	for !win.ShouldClose() {
		if rl.IsKeyPressed(rl.KeyH) {
			*showHUD = !*showHUD
		}

		win.Frame(func() {
			if !*showHUD {
				return
			}
			w, h := win.Size()
			hud.Draw(ui.HUDData{
				Title:  cfg.Screen.Title,
				FPS:    rl.GetFPS(),
				State:  inst.State(),
				Frame:  inst.Info(),
				Perf:   perf.Stats(),
				Film:   inst.ColorField(),
				Width:  int32(w),
				Height: int32(h),
			})
			hud.DrawControls(int32(h), "H: toggle overlay")
		})
		frames++

		if n := perf.Frames(); n > 0 && n != lastWritten && n%window == 0 {
			lastWritten = n
			if err := out.WritePerf(perf.Stats(), n); err != nil {
				slog.Warn("failed to write perf", "error", err)
			}
		}
		if logEvery > 0 && frames%logEvery == 0 && perf.Frames() > 0 {
			perf.Stats().Log(logger)
		}

		if *maxFrames > 0 && frames >= int64(*maxFrames) {
			slog.Info("max frames reached", "frames", frames)
			break
		}
	}
}
