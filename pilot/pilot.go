// Package pilot produces pointer targets for runs without a human at the controls.
package pilot

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/geom"
)

// Pilot picks the pointer target for a tick. A nil target means no pointer.
type Pilot interface {
	Target(tick int32, head components.Transform, food []r2.Vec) *r2.Vec
}

// New returns the pilot selected in config. dt converts ticks to simulated seconds.
func New(cfg config.PilotConfig, dt float64, seed int64) Pilot {
	switch cfg.Mode {
	case config.PilotNoise:
		return NewNoisePilot(cfg, dt, seed)
	case config.PilotSeek:
		return &SeekPilot{Fallback: NewNoisePilot(cfg, dt, seed)}
	default:
		return None{}
	}
}

// None never points anywhere; the head keeps its rotation.
type None struct{}

// Target implements Pilot.
func (None) Target(int32, components.Transform, []r2.Vec) *r2.Vec {
	return nil
}

// NoisePilot wanders: the target sits at Reach from the head, offset from the
// current facing by an angle drawn from simplex noise.
type NoisePilot struct {
	noise           opensimplex.Noise
	dt              float64
	frequency       float64
	reach           float64
	absentThreshold float64
}

// Separate noise rows for the steering angle and the presence signal.
const (
	angleRow    = 0
	presenceRow = 97.31
)

// NewNoisePilot creates a wander pilot seeded for reproducible runs.
func NewNoisePilot(cfg config.PilotConfig, dt float64, seed int64) *NoisePilot {
	return &NoisePilot{
		noise:           opensimplex.New(seed),
		dt:              dt,
		frequency:       cfg.Frequency,
		reach:           cfg.Reach,
		absentThreshold: cfg.AbsentThreshold,
	}
}

// Target implements Pilot.
func (p *NoisePilot) Target(tick int32, head components.Transform, _ []r2.Vec) *r2.Vec {
	t := float64(tick) * p.dt * p.frequency
	if p.noise.Eval2(t, presenceRow) < p.absentThreshold {
		return nil
	}
	offset := p.noise.Eval2(t, angleRow) * math.Pi
	target := r2.Add(head.Pos, r2.Scale(p.reach, geom.Forward(head.Rot+offset)))
	return &target
}

// SeekPilot steers at the nearest food and falls back to wandering when there
// is none.
type SeekPilot struct {
	Fallback Pilot
}

// Target implements Pilot.
func (p *SeekPilot) Target(tick int32, head components.Transform, food []r2.Vec) *r2.Vec {
	best := -1
	bestDist := math.Inf(1)
	for i, f := range food {
		if d := r2.Norm2(r2.Sub(f, head.Pos)); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		target := food[best]
		return &target
	}
	if p.Fallback == nil {
		return nil
	}
	return p.Fallback.Target(tick, head, food)
}
