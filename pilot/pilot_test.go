package pilot

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
)

const dt = 1.0 / 60

func pilotConfig(mode string, absent float64) config.PilotConfig {
	return config.PilotConfig{
		Mode:            mode,
		Frequency:       0.5,
		Reach:           300,
		AbsentThreshold: absent,
	}
}

func TestNewSelectsMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{config.PilotNoise, "*pilot.NoisePilot"},
		{config.PilotSeek, "*pilot.SeekPilot"},
		{config.PilotNone, "pilot.None"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			p := New(pilotConfig(tt.mode, -2), dt, 1)
			if got := fmt.Sprintf("%T", p); got != tt.want {
				t.Errorf("New(%q) = %s, want %s", tt.mode, got, tt.want)
			}
		})
	}
}

func TestNoneHasNoTarget(t *testing.T) {
	if got := (None{}).Target(5, components.Transform{}, []r2.Vec{{X: 1}}); got != nil {
		t.Errorf("expected nil target, got %v", *got)
	}
}

func TestNoisePilotTargetAtReach(t *testing.T) {
	p := NewNoisePilot(pilotConfig(config.PilotNoise, -2), dt, 42)
	head := components.Transform{Pos: r2.Vec{X: 10, Y: -20}, Rot: 0.3}

	for tick := int32(0); tick < 500; tick += 7 {
		target := p.Target(tick, head, nil)
		if target == nil {
			t.Fatalf("tick %d: expected a target below the absent threshold", tick)
		}
		if d := r2.Norm(r2.Sub(*target, head.Pos)); math.Abs(d-300) > 1e-9 {
			t.Fatalf("tick %d: target at distance %v, want 300", tick, d)
		}
	}
}

func TestNoisePilotAbsent(t *testing.T) {
	// Simplex noise stays inside [-1, 1].
	p := NewNoisePilot(pilotConfig(config.PilotNoise, 2), dt, 42)
	for tick := int32(0); tick < 200; tick++ {
		if got := p.Target(tick, components.Transform{}, nil); got != nil {
			t.Fatalf("tick %d: expected no target, got %v", tick, *got)
		}
	}
}

func TestNoisePilotDeterministic(t *testing.T) {
	a := NewNoisePilot(pilotConfig(config.PilotNoise, -0.3), dt, 7)
	b := NewNoisePilot(pilotConfig(config.PilotNoise, -0.3), dt, 7)
	head := components.Transform{Rot: 1}

	for tick := int32(0); tick < 300; tick++ {
		ta, tb := a.Target(tick, head, nil), b.Target(tick, head, nil)
		if (ta == nil) != (tb == nil) {
			t.Fatalf("tick %d: presence differs", tick)
		}
		if ta != nil && *ta != *tb {
			t.Fatalf("tick %d: %v != %v", tick, *ta, *tb)
		}
	}
}

func TestSeekPilotNearestFood(t *testing.T) {
	p := &SeekPilot{}
	head := components.Transform{Pos: r2.Vec{X: 100, Y: 100}}
	food := []r2.Vec{{X: 0, Y: 0}, {X: 120, Y: 90}, {X: 300, Y: 300}}

	got := p.Target(0, head, food)
	if got == nil || *got != food[1] {
		t.Fatalf("expected nearest food %v, got %v", food[1], got)
	}

	// The returned target must not alias the caller's slice.
	got.X = -1
	if food[1].X != 120 {
		t.Errorf("target aliases food slice")
	}
}

func TestSeekPilotFallback(t *testing.T) {
	noise := NewNoisePilot(pilotConfig(config.PilotNoise, -2), dt, 3)
	p := &SeekPilot{Fallback: noise}
	head := components.Transform{Rot: 0.5}

	got := p.Target(10, head, nil)
	want := noise.Target(10, head, nil)
	if got == nil || want == nil || *got != *want {
		t.Errorf("expected fallback target %v, got %v", want, got)
	}

	if (&SeekPilot{}).Target(10, head, nil) != nil {
		t.Errorf("expected nil without food or fallback")
	}
}
