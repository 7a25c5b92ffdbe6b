// Package game owns the simulation context: the entity world, the worm chain
// and the ordered tick pipeline.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/telemetry"
)

// Tick precondition failures. The tick does not run when one is returned.
var (
	ErrInvalidDelta = errors.New("invalid tick delta")
	ErrHeadMissing  = errors.New("head entity missing")
	ErrChainBroken  = errors.New("chain references a dead entity")
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses the config value
	OutputDir      string  // empty disables CSV output

	// StatsCallback, when set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Input is the per-tick data supplied by the collaborator.
type Input struct {
	Delta   float64
	Pointer *r2.Vec // world-space target, nil when absent
	Keys    systems.KeyState
}

// EntityTransform is one tracked entity's transform after a tick.
type EntityTransform struct {
	Entity    ecs.Entity
	Template  components.Template
	Transform components.Transform
	Radius    float64
}

// SpawnRequest asks the collaborator to realize a new entity.
type SpawnRequest struct {
	Entity   ecs.Entity
	Template components.Template
	Pos      r2.Vec
	Radius   float64
}

// TickResult is everything a collaborator needs to present one tick.
type TickResult struct {
	Tick       int32
	Head       components.Transform
	Transforms []EntityTransform
	Spawned    []SpawnRequest
	Despawned  []ecs.Entity
	Events     []telemetry.Event
	Over       bool
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	headMapper   *ecs.Map3[components.Transform, components.Collider, components.Head]
	segMapper    *ecs.Map3[components.Transform, components.Collider, components.Segment]
	boundsMapper *ecs.Map3[components.Transform, components.Collider, components.Bounds]
	tfMap        *ecs.Map[components.Transform]
	colMap       *ecs.Map[components.Collider]
	headMap      *ecs.Map[components.Head]
	foodFilter   *ecs.Filter2[components.Transform, components.Food]
	colFilter    *ecs.Filter2[components.Transform, components.Collider]

	area        systems.PlayArea
	heading     *systems.HeadingSystem
	follower    *systems.ChainFollower
	containment systems.Containment
	resolver    *systems.CollisionResolver
	spawner     *systems.FoodSpawner
	sampler     systems.Sampler
	registry    *systems.SystemRegistry

	// chain[0] is the head
	chain  []ecs.Entity
	bounds ecs.Entity

	// State
	tick      int32
	score     float64
	over      bool
	foodCount int

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a game from a validated config and spawns the worm.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	area, err := systems.NewPlayArea(cfg.PlayArea)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	sampler := systems.NewSampler(cfg.Food.Sampler)

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		seed:  opts.Seed,

		headMapper:   ecs.NewMap3[components.Transform, components.Collider, components.Head](world),
		segMapper:    ecs.NewMap3[components.Transform, components.Collider, components.Segment](world),
		boundsMapper: ecs.NewMap3[components.Transform, components.Collider, components.Bounds](world),
		tfMap:        ecs.NewMap[components.Transform](world),
		colMap:       ecs.NewMap[components.Collider](world),
		headMap:      ecs.NewMap[components.Head](world),
		foodFilter:   ecs.NewFilter2[components.Transform, components.Food](world),
		colFilter:    ecs.NewFilter2[components.Transform, components.Collider](world),

		area:        area,
		heading:     systems.NewHeadingSystem(systems.NewControlScheme(cfg.Control)),
		follower:    systems.NewChainFollower(world, cfg.Chain.SegmentSize, systems.ParseFollowMode(cfg.Chain.FollowMode), cfg.Chain.AlignTurnRate),
		containment: systems.NewContainment(area),
		resolver:    systems.NewCollisionResolver(world, systems.NewSelfCollisionPolicy(cfg.Collision)),
		spawner:     systems.NewFoodSpawner(world, cfg.Food, area, sampler, rng),
		sampler:     sampler,
		registry:    systems.NewSystemRegistry(),

		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	windowTicks := cfg.Derived.StatsWindowTick
	if opts.StatsWindowSec > 0 {
		windowTicks = config.SecondsToTicks(opts.StatsWindowSec, cfg.Physics.DT)
	}
	g.collector = telemetry.NewCollector(windowTicks, cfg.Physics.DT)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.bookmarks = telemetry.NewBookmarkDetector(10)

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.spawnWorld()

	slog.Info("game created",
		"seed", opts.Seed,
		"area", cfg.PlayArea.Shape,
		"segments", cfg.Chain.Segments,
		"follow_mode", cfg.Chain.FollowMode,
		"control", cfg.Control.Scheme,
		"stats_window_ticks", g.collector.WindowDurationTicks(),
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Head returns the head entity.
func (g *Game) Head() ecs.Entity {
	return g.chain[0]
}

// Chain returns a copy of the head-to-tail entity chain.
func (g *Game) Chain() []ecs.Entity {
	out := make([]ecs.Entity, len(g.chain))
	copy(out, g.chain)
	return out
}

// FoodCount returns the number of live food entities.
func (g *Game) FoodCount() int {
	return g.foodCount
}

// Score returns the total amount of food eaten.
func (g *Game) Score() float64 {
	return g.score
}

// Over reports whether the self-collision policy ended the run.
func (g *Game) Over() bool {
	return g.over
}

// Area returns the play area.
func (g *Game) Area() systems.PlayArea {
	return g.area
}

// Config returns the config the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Registry returns the pipeline stage registry.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// PerfCollector returns the performance collector.
func (g *Game) PerfCollector() *telemetry.PerfCollector {
	return g.perf
}

// FoodPositions returns the positions of all live food.
func (g *Game) FoodPositions() []r2.Vec {
	out := make([]r2.Vec, 0, g.foodCount)
	query := g.foodFilter.Query()
	for query.Next() {
		tf, _ := query.Get()
		out = append(out, tf.Pos)
	}
	return out
}

// Snapshot returns the current transforms without advancing the simulation.
func (g *Game) Snapshot() *TickResult {
	return g.snapshot(&TickResult{Tick: g.tick, Over: g.over})
}

// HeadTransform returns the head's current transform.
func (g *Game) HeadTransform() (components.Transform, error) {
	head := g.chain[0]
	if !g.world.Alive(head) || !g.tfMap.Has(head) {
		return components.Transform{}, ErrHeadMissing
	}
	return *g.tfMap.Get(head), nil
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
