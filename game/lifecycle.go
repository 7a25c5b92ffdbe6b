package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
)

// spawnWorld creates the bounds marker and the worm: head at the origin facing
// +Y, segments trailing straight behind it at segment spacing.
func (g *Game) spawnWorld() {
	cfg := g.cfg

	g.bounds = g.boundsMapper.NewEntity(
		&components.Transform{},
		&components.Collider{Layer: components.LayerBounds, Radius: g.area.BoundaryRadius()},
		&components.Bounds{},
	)

	g.chain = make([]ecs.Entity, 0, cfg.Chain.Segments+1)
	head := g.headMapper.NewEntity(
		&components.Transform{},
		&components.Collider{Layer: components.LayerHead, Radius: cfg.Head.Radius},
		&components.Head{MovementSpeed: cfg.Head.MovementSpeed, RotationSpeed: cfg.Head.RotationSpeed},
	)
	g.chain = append(g.chain, head)

	for i := 1; i <= cfg.Chain.Segments; i++ {
		seg := g.segMapper.NewEntity(
			&components.Transform{Pos: r2.Vec{Y: -float64(i) * cfg.Chain.SegmentSize}},
			&components.Collider{Layer: components.LayerSegment, Radius: cfg.Chain.SegmentRadius},
			&components.Segment{Index: i},
		)
		g.chain = append(g.chain, seg)
	}
}

// removeEntities despawns the given entities. Must not be called while a query is open.
func (g *Game) removeEntities(entities []ecs.Entity) {
	for _, e := range entities {
		if g.world.Alive(e) {
			g.world.RemoveEntity(e)
		}
	}
}

// Reset clears the world and respawns the worm with the seed it was created with.
func (g *Game) Reset() {
	var all []ecs.Entity
	query := g.colFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	g.removeEntities(all)

	g.rng.Seed(g.seed)
	g.spawner.Reset()
	g.collector.Reset(0)
	g.bookmarks.Reset()
	g.perf.Reset()
	g.tick = 0
	g.score = 0
	g.over = false
	g.foodCount = 0

	g.spawnWorld()
	slog.Info("game reset", "seed", g.seed)
}
