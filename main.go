package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/redjul/armsim/config"
	"github.com/redjul/armsim/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	levelID := flag.Int("level", 0, "Level to start (-1 = sandbox)")
	progressPath := flag.String("progress", "", "Progress file path (empty = config default)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output telemetry windows via slog")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited, headless only)")
	headlessDT := flag.Float64("dt", 1.0/60.0, "Synthetic frame time for headless mode")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	storePath := *progressPath
	if storePath == "" {
		storePath = cfg.Store.Path
	}

	opts := game.Options{
		ProgressPath: storePath,
		OutputDir:    *outputDir,
		Headless:     *headless,
		LogStats:     *logStats,
		StartLevel:   *levelID,
	}

	if *headless {
		g, err := game.NewGame(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"level", *levelID,
			"dt", *headlessDT,
			"max_frames", *maxFrames,
		)

		for {
			g.UpdateHeadless(*headlessDT)
			if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame())
				return
			}
		}
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Arm Sim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // ESC exits the level, not the app

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}
