package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
)

// timerSlack absorbs the rounding left by summing fixed deltas, so a period
// that is an exact multiple of the delta completes on its own tick.
const timerSlack = 1e-9

// Timer is a repeating countdown.
type Timer struct {
	Interval float64
	elapsed  float64
}

// Tick advances the timer and returns how many periods completed.
func (t *Timer) Tick(dt float64) int {
	if t.Interval <= 0 || dt <= 0 {
		return 0
	}
	t.elapsed += dt
	n := int(t.elapsed/t.Interval + timerSlack)
	if n > 0 {
		t.elapsed = max(0, t.elapsed-float64(n)*t.Interval)
	}
	return n
}

// Reset clears the accumulated time.
func (t *Timer) Reset() {
	t.elapsed = 0
}

// Sampler draws a uniformly distributed point inside a play area.
type Sampler interface {
	Sample(rng *rand.Rand, area PlayArea) r2.Vec
}

// RejectionSampler draws in the bounding square of a circular area and redraws
// until the point falls inside the disk. Expected draws per sample are 4/pi.
type RejectionSampler struct {
	Draws int // total square draws so far
}

// Sample implements Sampler.
func (s *RejectionSampler) Sample(rng *rand.Rand, area PlayArea) r2.Vec {
	half := area.Bounding()
	for {
		s.Draws++
		p := r2.Vec{
			X: (rng.Float64()*2 - 1) * half.X,
			Y: (rng.Float64()*2 - 1) * half.Y,
		}
		if area.Contains(p) {
			return p
		}
	}
}

// PolarSampler draws directly in polar coordinates with r = R*sqrt(u), so it
// needs no retry loop. Non-circular areas are sampled as boxes.
type PolarSampler struct{}

// Sample implements Sampler.
func (PolarSampler) Sample(rng *rand.Rand, area PlayArea) r2.Vec {
	if area.Shape != ShapeCircle {
		half := area.Bounding()
		return r2.Vec{
			X: (rng.Float64()*2 - 1) * half.X,
			Y: (rng.Float64()*2 - 1) * half.Y,
		}
	}
	r := area.Radius * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// NewSampler returns the sampler selected in config.
func NewSampler(name string) Sampler {
	if name == config.SamplerPolar {
		return PolarSampler{}
	}
	return &RejectionSampler{}
}

// Spawned is a food entity created this tick.
type Spawned struct {
	Entity ecs.Entity
	Pos    r2.Vec
	Amount float64
}

// FoodSpawner places food at a fixed interval, independently of entity positions.
type FoodSpawner struct {
	mapper  *ecs.Map3[components.Transform, components.Collider, components.Food]
	timer   Timer
	sampler Sampler
	area    PlayArea
	radius  float64
	amount  float64
	max     int // 0 = uncapped
	rng     *rand.Rand
}

// NewFoodSpawner creates a spawner from the food config.
func NewFoodSpawner(w *ecs.World, cfg config.FoodConfig, area PlayArea, sampler Sampler, rng *rand.Rand) *FoodSpawner {
	return &FoodSpawner{
		mapper:  ecs.NewMap3[components.Transform, components.Collider, components.Food](w),
		timer:   Timer{Interval: cfg.Interval},
		sampler: sampler,
		area:    area,
		radius:  cfg.Radius,
		amount:  cfg.Amount,
		max:     cfg.Max,
		rng:     rng,
	}
}

// Update ticks the timer and spawns one food per completed period.
// outstanding is the number of live food entities before this call.
func (s *FoodSpawner) Update(dt float64, outstanding int) []Spawned {
	n := s.timer.Tick(dt)
	if n == 0 {
		return nil
	}

	spawned := make([]Spawned, 0, n)
	for i := 0; i < n; i++ {
		if s.max > 0 && outstanding >= s.max {
			break
		}
		p := s.sampler.Sample(s.rng, s.area)
		spawned = append(spawned, Spawned{Entity: s.Spawn(p), Pos: p, Amount: s.amount})
		outstanding++
		slog.Debug("food spawned", "x", p.X, "y", p.Y)
	}
	return spawned
}

// Spawn creates a food entity at p.
func (s *FoodSpawner) Spawn(p r2.Vec) ecs.Entity {
	return s.mapper.NewEntity(
		&components.Transform{Pos: p},
		&components.Collider{Layer: components.LayerFood, Radius: s.radius},
		&components.Food{Amount: s.amount},
	)
}

// Reset restarts the spawn timer and the sampler's counters.
func (s *FoodSpawner) Reset() {
	s.timer.Reset()
	if r, ok := s.sampler.(*RejectionSampler); ok {
		r.Draws = 0
	}
}
