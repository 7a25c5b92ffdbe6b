package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/minhoca/config"
)

func TestContainmentPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    Containment
		in        r2.Vec
		want      r2.Vec
		wantMoved bool
	}{
		{"box inside", BoxClamp{HalfExtents: r2.Vec{X: 600, Y: 320}}, r2.Vec{X: 10, Y: -10}, r2.Vec{X: 10, Y: -10}, false},
		{"box hard stop", BoxClamp{HalfExtents: r2.Vec{X: 600, Y: 320}}, r2.Vec{X: 650, Y: 400}, r2.Vec{X: 600, Y: 320}, true},
		{"radial inside", RadialReprojection{Radius: 100}, r2.Vec{X: 60, Y: 80}, r2.Vec{X: 60, Y: 80}, false},
		{"radial outside", RadialReprojection{Radius: 100}, r2.Vec{X: 120, Y: 160}, r2.Vec{X: 60, Y: 80}, true},
		{"torus wraps", ToroidalWrap{HalfExtents: r2.Vec{X: 100, Y: 100}}, r2.Vec{X: 101, Y: 0}, r2.Vec{X: -99, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := tt.policy.Contain(tt.in)
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Contain(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRadialSlidesAlongRim(t *testing.T) {
	c := RadialReprojection{Radius: 100}
	// A head pushing tangentially off the rim keeps its angular progress
	pos := r2.Vec{X: 100, Y: 0}
	for i := 0; i < 10; i++ {
		pos, _ = c.Contain(r2.Add(pos, r2.Vec{X: 1, Y: 5}))
	}
	if math.Abs(r2.Norm(pos)-100) > 1e-9 {
		t.Errorf("head left the rim: |pos| = %v", r2.Norm(pos))
	}
	if pos.Y <= 0 {
		t.Errorf("head did not slide along the rim: %v", pos)
	}
}

func TestRadialCorrectionIsStable(t *testing.T) {
	c := RadialReprojection{Radius: 1000}
	rng := rand.New(rand.NewSource(23))
	for i := 0; i < 100000; i++ {
		p := r2.Vec{X: (rng.Float64()*2 - 1) * 2000, Y: (rng.Float64()*2 - 1) * 2000}
		once, _ := c.Contain(p)
		twice, corrected := c.Contain(once)
		if corrected || twice != once {
			t.Fatalf("corrected %v a second time: %v then %v", p, once, twice)
		}
	}
}

func TestNewContainmentMatchesShape(t *testing.T) {
	tests := []struct {
		shape string
		want  Containment
	}{
		{config.ShapeBox, BoxClamp{HalfExtents: r2.Vec{X: 600, Y: 320}}},
		{config.ShapeCircle, RadialReprojection{Radius: 1000}},
		{config.ShapeTorus, ToroidalWrap{HalfExtents: r2.Vec{X: 600, Y: 320}}},
	}
	for _, tt := range tests {
		area, err := NewPlayArea(config.PlayAreaConfig{Shape: tt.shape, HalfWidth: 600, HalfHeight: 320, Radius: 1000})
		if err != nil {
			t.Fatalf("NewPlayArea(%s): %v", tt.shape, err)
		}
		if got := NewContainment(area); got != tt.want {
			t.Errorf("NewContainment(%s) = %#v, want %#v", tt.shape, got, tt.want)
		}
	}
}

func TestPlayAreaContains(t *testing.T) {
	circle := PlayArea{Shape: ShapeCircle, Radius: 10}
	if !circle.Contains(r2.Vec{X: 10}) || circle.Contains(r2.Vec{X: 8, Y: 8}) {
		t.Error("circle containment wrong")
	}
	box := PlayArea{Shape: ShapeBox, HalfExtents: r2.Vec{X: 5, Y: 2}}
	if !box.Contains(r2.Vec{X: -5, Y: 2}) || box.Contains(r2.Vec{X: 0, Y: 2.1}) {
		t.Error("box containment wrong")
	}
	if _, err := NewPlayArea(config.PlayAreaConfig{Shape: "blob"}); err == nil {
		t.Error("expected error for unknown shape")
	}
}
