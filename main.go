package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cabana/config"
	"github.com/pthm-cable/cabana/raster"
	"github.com/pthm-cable/cabana/sketch"
	"github.com/pthm-cable/cabana/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for PNG frame snapshots")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Point seed (0 = config, then time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames; the last update is shortened to land on N (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Frames advanced per update call, at most 10 (0 = config)")
	filter := flag.String("filter", "", "Display filter: nearest or bilinear (empty = config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *stepsPerUpdate < 0 || *stepsPerUpdate > config.MaxStepsPerUpdate {
		slog.Error("invalid -steps-per-update", "value", *stepsPerUpdate, "max", config.MaxStepsPerUpdate)
		os.Exit(1)
	}

	if *filter != "" {
		f, err := raster.ParseFilter(*filter)
		if err != nil {
			slog.Error("invalid filter", "error", err)
			os.Exit(1)
		}
		cfg.Screen.Filter = f
	}

	// Set up seed
	pointSeed := cfg.Points.ResolveSeed(*seed)

	opts := sketch.Options{
		Seed:           pointSeed,
		LogStats:       *logStats,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		MaxFrames:      *maxFrames,
	}

	if *headless {
		// Headless mode - pure CPU evaluation, no raylib needed
		s, err := sketch.NewSketch(cfg, opts)
		if err != nil {
			slog.Error("failed to create sketch", "error", err)
			os.Exit(1)
		}
		defer s.Close()

		slog.Info("starting headless run",
			"seed", pointSeed,
			"raster", cfg.Raster,
			"points", cfg.Points.Count,
			"max_frames", *maxFrames,
			"steps_per_update", s.StepsPerUpdate(),
		)

		for {
			s.UpdateHeadless()

			if s.Done() {
				slog.Info("max frames reached", "frame", s.Rendered())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Cabana")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sketch.NewSketch(cfg, opts)
	if err != nil {
		slog.Error("failed to create sketch", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	v := viewer.New(s)
	defer v.Unload()

	slog.Info("starting", "seed", pointSeed, "raster", cfg.Raster, "filter", cfg.Screen.Filter)

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if s.Done() {
			break
		}
	}
}
