package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
	"github.com/pthm-cable/minhoca/geom"
)

// KeyState holds the discrete keys sampled by the input collaborator this tick.
type KeyState struct {
	Accelerate bool
	Brake      bool
	TurnLeft   bool
	TurnRight  bool
}

// ControlScheme maps the pointer turn sign and key state to the turn sign and
// speed multiplier actually applied to the head.
type ControlScheme interface {
	Steer(pointerSign float64, keys KeyState) (turn, throttle float64)
}

// PointerScheme steers toward the pointer at constant speed. Keys are ignored.
type PointerScheme struct{}

// Steer implements ControlScheme.
func (PointerScheme) Steer(pointerSign float64, _ KeyState) (float64, float64) {
	return pointerSign, 1
}

// ThrottleScheme scales speed with accelerate/brake keys. Held turn keys
// override the pointer.
type ThrottleScheme struct {
	BoostFactor float64
	BrakeFactor float64
}

// Steer implements ControlScheme.
func (s ThrottleScheme) Steer(pointerSign float64, keys KeyState) (float64, float64) {
	turn := pointerSign
	switch {
	case keys.TurnLeft && !keys.TurnRight:
		turn = -1
	case keys.TurnRight && !keys.TurnLeft:
		turn = 1
	}

	throttle := 1.0
	switch {
	case keys.Accelerate && !keys.Brake:
		throttle = s.BoostFactor
	case keys.Brake && !keys.Accelerate:
		throttle = s.BrakeFactor
	}
	return turn, throttle
}

// NewControlScheme returns the scheme selected in config.
func NewControlScheme(cfg config.ControlConfig) ControlScheme {
	if cfg.Scheme == config.SchemeThrottle {
		return ThrottleScheme{BoostFactor: cfg.BoostFactor, BrakeFactor: cfg.BrakeFactor}
	}
	return PointerScheme{}
}

// HeadingSystem turns the head toward the pointer at a limited rate and moves it forward.
type HeadingSystem struct {
	scheme ControlScheme
}

// NewHeadingSystem creates a heading system with the given control scheme.
func NewHeadingSystem(scheme ControlScheme) *HeadingSystem {
	if scheme == nil {
		scheme = PointerScheme{}
	}
	return &HeadingSystem{scheme: scheme}
}

// Update advances the head transform by dt seconds. A nil target means no turn input.
func (s *HeadingSystem) Update(head *components.Head, tf *components.Transform, target *r2.Vec, keys KeyState, dt float64) {
	if dt == 0 {
		return
	}

	pointerSign := 0.0
	if target != nil {
		pointerSign = geom.TurnSign(geom.Forward(tf.Rot), *target, tf.Pos)
	}
	turn, throttle := s.scheme.Steer(pointerSign, keys)

	tf.Rot = geom.NormalizeAngle(tf.Rot + turn*head.RotationSpeed*dt)
	forward := geom.Forward(tf.Rot)
	tf.Pos = r2.Add(tf.Pos, r2.Scale(head.MovementSpeed*throttle*dt, forward))
}
