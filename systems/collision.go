package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/geom"
)

// Action is the response to the head overlapping an entity of a given layer.
type Action uint8

const (
	ActionIgnore Action = iota
	ActionConsume
	ActionBite
)

// SelfCollisionPolicy decides whether touching a body segment ends the run.
type SelfCollisionPolicy interface {
	Bites(segmentIndex int) bool
}

// NoSelfCollision never bites. This is the default.
type NoSelfCollision struct{}

// Bites implements SelfCollisionPolicy.
func (NoSelfCollision) Bites(int) bool { return false }

// SkipNearHead bites on any segment past the first Skip links, which always
// overlap the head by construction.
type SkipNearHead struct {
	Skip int
}

// Bites implements SelfCollisionPolicy.
func (p SkipNearHead) Bites(segmentIndex int) bool {
	return segmentIndex > p.Skip
}

// NewSelfCollisionPolicy returns the policy selected in config.
func NewSelfCollisionPolicy(cfg config.CollisionConfig) SelfCollisionPolicy {
	if cfg.SelfCollision {
		return SkipNearHead{Skip: cfg.SelfCollisionSkip}
	}
	return NoSelfCollision{}
}

// Consumed describes a food entity the head overlapped this tick.
type Consumed struct {
	Entity ecs.Entity
	Pos    r2.Vec
	Amount float64
}

// Bite describes a body segment the head overlapped with self-collision enabled.
type Bite struct {
	Entity ecs.Entity
	Index  int
}

// Contacts are the despawn and game-over decisions from one resolver pass.
type Contacts struct {
	Consumed []Consumed
	Bites    []Bite
}

// CollisionResolver tests the head against every other collider each tick.
// It keeps no state across ticks and has no spatial partitioning, so cost is
// linear in the number of colliders.
type CollisionResolver struct {
	filter   *ecs.Filter2[components.Transform, components.Collider]
	foodMap  *ecs.Map[components.Food]
	segMap   *ecs.Map[components.Segment]
	policy   SelfCollisionPolicy
	dispatch [components.NumLayers]Action
}

// NewCollisionResolver creates a resolver with the standard layer table.
func NewCollisionResolver(w *ecs.World, policy SelfCollisionPolicy) *CollisionResolver {
	if policy == nil {
		policy = NoSelfCollision{}
	}
	r := &CollisionResolver{
		filter:  ecs.NewFilter2[components.Transform, components.Collider](w),
		foodMap: ecs.NewMap[components.Food](w),
		segMap:  ecs.NewMap[components.Segment](w),
		policy:  policy,
	}
	r.dispatch[components.LayerHead] = ActionIgnore
	r.dispatch[components.LayerBounds] = ActionIgnore
	r.dispatch[components.LayerSegment] = ActionBite
	r.dispatch[components.LayerFood] = ActionConsume
	return r
}

// ActionFor returns the response configured for a layer.
func (r *CollisionResolver) ActionFor(l components.Layer) Action {
	if l >= components.NumLayers {
		return ActionIgnore
	}
	return r.dispatch[l]
}

// Resolve checks the head against all colliders. It does not modify the world;
// the caller applies the returned decisions once the query has closed.
func (r *CollisionResolver) Resolve(head ecs.Entity, headTf components.Transform, headCol components.Collider) Contacts {
	var out Contacts

	query := r.filter.Query()
	for query.Next() {
		e := query.Entity()
		if e == head {
			continue
		}
		tf, col := query.Get()

		action := r.ActionFor(col.Layer)
		if action == ActionIgnore {
			continue
		}
		if !geom.CirclesOverlap(headTf.Pos, headCol.Radius, tf.Pos, col.Radius) {
			continue
		}

		switch action {
		case ActionConsume:
			c := Consumed{Entity: e, Pos: tf.Pos}
			if r.foodMap.Has(e) {
				c.Amount = r.foodMap.Get(e).Amount
			}
			out.Consumed = append(out.Consumed, c)
		case ActionBite:
			if !r.segMap.Has(e) {
				continue
			}
			idx := r.segMap.Get(e).Index
			if r.policy.Bites(idx) {
				out.Bites = append(out.Bites, Bite{Entity: e, Index: idx})
			}
		}
	}

	return out
}
