package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
)

func TestHeadingNoTargetKeepsRotation(t *testing.T) {
	sys := NewHeadingSystem(PointerScheme{})
	head := &components.Head{MovementSpeed: 200, RotationSpeed: math.Pi}
	tf := &components.Transform{Pos: r2.Vec{X: 10, Y: 10}, Rot: 0.3}

	for i := 0; i < 10; i++ {
		sys.Update(head, tf, nil, KeyState{}, 1.0/60)
	}

	if tf.Rot != 0.3 {
		t.Errorf("rotation = %v, want unchanged 0.3", tf.Rot)
	}
	// 10 ticks * 200/60 along the facing direction
	moved := r2.Norm(r2.Sub(tf.Pos, r2.Vec{X: 10, Y: 10}))
	if math.Abs(moved-200.0/6) > 1e-9 {
		t.Errorf("moved %v, want %v", moved, 200.0/6)
	}
}

func TestHeadingTurnsTowardPointer(t *testing.T) {
	sys := NewHeadingSystem(PointerScheme{})
	head := &components.Head{MovementSpeed: 0, RotationSpeed: math.Pi}
	tf := &components.Transform{}
	target := r2.Vec{X: 100, Y: 0}

	sys.Update(head, tf, &target, KeyState{}, 0.5)

	if math.Abs(tf.Rot-math.Pi/2) > 1e-12 {
		t.Fatalf("rotation = %v, want pi/2", tf.Rot)
	}
	fwd := r2.Sub(r2.Vec{X: 1}, r2.Vec{X: math.Sin(tf.Rot), Y: math.Cos(tf.Rot)})
	if r2.Norm(fwd) > 1e-9 {
		t.Errorf("head does not face the pointer after the turn")
	}
}

func TestHeadingRateLimited(t *testing.T) {
	sys := NewHeadingSystem(PointerScheme{})
	head := &components.Head{MovementSpeed: 100, RotationSpeed: 1}
	tf := &components.Transform{}
	target := r2.Vec{X: -50, Y: 1}

	sys.Update(head, tf, &target, KeyState{}, 0.1)

	if math.Abs(tf.Rot-(-0.1)) > 1e-12 {
		t.Errorf("rotation = %v, want -0.1 (one rate-limited step left)", tf.Rot)
	}
}

func TestHeadingZeroDeltaNoop(t *testing.T) {
	sys := NewHeadingSystem(nil)
	head := &components.Head{MovementSpeed: 200, RotationSpeed: math.Pi}
	tf := &components.Transform{Pos: r2.Vec{X: 1, Y: 2}, Rot: 1}
	target := r2.Vec{X: 100}
	before := *tf

	sys.Update(head, tf, &target, KeyState{}, 0)

	if *tf != before {
		t.Errorf("transform changed on zero delta: %+v", *tf)
	}
}

func TestThrottleScheme(t *testing.T) {
	scheme := ThrottleScheme{BoostFactor: 2, BrakeFactor: 0.5}
	tests := []struct {
		name         string
		pointer      float64
		keys         KeyState
		wantTurn     float64
		wantThrottle float64
	}{
		{"no keys", 1, KeyState{}, 1, 1},
		{"accelerate", 0, KeyState{Accelerate: true}, 0, 2},
		{"brake", -1, KeyState{Brake: true}, -1, 0.5},
		{"both pedals cancel", 0, KeyState{Accelerate: true, Brake: true}, 0, 1},
		{"left key overrides pointer", 1, KeyState{TurnLeft: true}, -1, 1},
		{"right key", 0, KeyState{TurnRight: true}, 1, 1},
		{"both turn keys use pointer", -1, KeyState{TurnLeft: true, TurnRight: true}, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, throttle := scheme.Steer(tt.pointer, tt.keys)
			if turn != tt.wantTurn || throttle != tt.wantThrottle {
				t.Errorf("Steer = (%v, %v), want (%v, %v)", turn, throttle, tt.wantTurn, tt.wantThrottle)
			}
		})
	}
}

func TestThrottleSchemeScalesDistance(t *testing.T) {
	sys := NewHeadingSystem(ThrottleScheme{BoostFactor: 2, BrakeFactor: 0.5})
	head := &components.Head{MovementSpeed: 100, RotationSpeed: 1}
	tf := &components.Transform{}

	sys.Update(head, tf, nil, KeyState{Accelerate: true}, 1)

	if math.Abs(tf.Pos.Y-200) > 1e-9 || math.Abs(tf.Pos.X) > 1e-9 {
		t.Errorf("position = %v, want (0, 200)", tf.Pos)
	}
}
