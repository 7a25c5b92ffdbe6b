package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/game"
	"github.com/pthm-cable/minhoca/pilot"
	"github.com/pthm-cable/minhoca/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, steered by the configured pilot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation speed multiplier in graphical mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxTicks); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Minhoca")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if err := viewer.New(g, *stepsPerUpdate).Run(*maxTicks); err != nil {
		slog.Error("simulation failed", "error", err)
	}
}

// runHeadless steps the game at the fixed dt with the pilot supplying the pointer.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) error {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	p := pilot.New(cfg.Pilot, cfg.Physics.DT, opts.Seed)

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"pilot", cfg.Pilot.Mode,
		"max_ticks", maxTicks,
	)

	for {
		head, err := g.HeadTransform()
		if err != nil {
			return err
		}
		in := game.Input{
			Delta:   cfg.Physics.DT,
			Pointer: p.Target(g.Tick(), head, g.FoodPositions()),
		}
		res, err := g.Step(in)
		if err != nil {
			return err
		}

		if res.Over {
			slog.Info("run over", "tick", res.Tick, "score", g.Score())
			return nil
		}
		if maxTicks > 0 && int(res.Tick) >= maxTicks {
			slog.Info("max ticks reached", "tick", res.Tick, "score", g.Score())
			return nil
		}
	}
}
