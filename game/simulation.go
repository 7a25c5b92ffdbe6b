package game

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/telemetry"
)

// Step runs one tick: heading, chain follow, containment, collision, food
// spawning, in that order. Preconditions are checked before anything moves, so
// an error leaves the world as it was.
func (g *Game) Step(in Input) (*TickResult, error) {
	if math.IsNaN(in.Delta) || math.IsInf(in.Delta, 0) || in.Delta < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, in.Delta)
	}
	if err := g.checkChain(); err != nil {
		return nil, err
	}

	if g.over {
		return g.snapshot(&TickResult{Tick: g.tick, Over: true}), nil
	}

	dt := in.Delta

	tick := g.tick + 1
	res := &TickResult{Tick: tick}
	head := g.chain[0]

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseHeading)
	headTf := g.tfMap.Get(head)
	prev := headTf.Pos
	g.heading.Update(g.headMap.Get(head), headTf, in.Pointer, in.Keys, dt)
	travelled := r2.Norm(r2.Sub(headTf.Pos, prev))

	g.perf.StartPhase(telemetry.PhaseChain)
	if err := g.follower.Update(g.chain, prev, dt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChainBroken, err)
	}

	g.perf.StartPhase(telemetry.PhaseContainment)
	if pos, moved := g.containment.Contain(headTf.Pos); moved {
		headTf.Pos = pos
		g.emit(res, telemetry.NewContainedEvent(tick, head, pos))
		if g.area.Shape != systems.ShapeTorus {
			travelled = r2.Norm(r2.Sub(pos, prev))
		}
	}
	g.collector.RecordDistance(travelled)

	g.perf.StartPhase(telemetry.PhaseCollision)
	contacts := g.resolver.Resolve(head, *headTf, *g.colMap.Get(head))
	// The resolver's query is closed; structural changes are safe from here.
	for _, c := range contacts.Consumed {
		g.score += c.Amount
		g.foodCount--
		res.Despawned = append(res.Despawned, c.Entity)
		g.emit(res, telemetry.NewFoodConsumedEvent(tick, c.Entity, c.Pos, c.Amount))
	}
	g.removeEntities(res.Despawned)
	for _, b := range contacts.Bites {
		g.over = true
		g.emit(res, telemetry.NewSelfBiteEvent(tick, b.Entity, b.Index))
	}
	if len(contacts.Bites) > 0 {
		g.logGameOver(tick, contacts.Bites[0])
	}

	g.perf.StartPhase(telemetry.PhaseSpawner)
	for _, s := range g.spawner.Update(dt, g.foodCount) {
		g.foodCount++
		res.Spawned = append(res.Spawned, SpawnRequest{
			Entity:   s.Entity,
			Template: components.TemplateFood,
			Pos:      s.Pos,
			Radius:   g.cfg.Food.Radius,
		})
		g.emit(res, telemetry.NewFoodSpawnedEvent(tick, s.Entity, s.Pos, s.Amount))
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick = tick
	res.Over = g.over
	g.snapshot(res)
	g.flushTelemetry()

	g.perf.EndTick()
	return res, nil
}

// checkChain verifies the head and every chain link are alive.
func (g *Game) checkChain() error {
	if len(g.chain) == 0 {
		return ErrHeadMissing
	}
	head := g.chain[0]
	if !g.world.Alive(head) || !g.headMap.Has(head) || !g.tfMap.Has(head) || !g.colMap.Has(head) {
		return ErrHeadMissing
	}
	for i, e := range g.chain[1:] {
		if !g.world.Alive(e) || !g.tfMap.Has(e) {
			return fmt.Errorf("%w: segment %d", ErrChainBroken, i+1)
		}
	}
	return nil
}

// emit appends an event to the tick result and counts it in the stats window.
func (g *Game) emit(res *TickResult, ev telemetry.Event) {
	res.Events = append(res.Events, ev)
	g.collector.Record(ev)
}

// snapshot fills the head transform and the transforms of every collidable entity.
func (g *Game) snapshot(res *TickResult) *TickResult {
	res.Head = *g.tfMap.Get(g.chain[0])
	res.Transforms = res.Transforms[:0]
	query := g.colFilter.Query()
	for query.Next() {
		tf, col := query.Get()
		res.Transforms = append(res.Transforms, EntityTransform{
			Entity:    query.Entity(),
			Template:  components.TemplateFor(col.Layer),
			Transform: *tf,
			Radius:    col.Radius,
		})
	}
	return res
}

// linkLengths returns the distance between consecutive chain links.
func (g *Game) linkLengths() []float64 {
	out := make([]float64, 0, len(g.chain)-1)
	for i := 1; i < len(g.chain); i++ {
		a := g.tfMap.Get(g.chain[i-1]).Pos
		b := g.tfMap.Get(g.chain[i]).Pos
		out = append(out, r2.Norm(r2.Sub(b, a)))
	}
	return out
}
