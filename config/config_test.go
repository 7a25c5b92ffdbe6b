package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Head.MovementSpeed != 200 {
		t.Errorf("movement speed = %v, want 200", cfg.Head.MovementSpeed)
	}
	if math.Abs(cfg.Head.RotationSpeed-math.Pi) > 1e-9 {
		t.Errorf("rotation speed = %v, want pi", cfg.Head.RotationSpeed)
	}
	if cfg.PlayArea.Shape != ShapeCircle {
		t.Errorf("shape = %q, want %q", cfg.PlayArea.Shape, ShapeCircle)
	}
	if cfg.Derived.StatsWindowTick != 600 {
		t.Errorf("stats window ticks = %d, want 600", cfg.Derived.StatsWindowTick)
	}
}

func TestComputeDerivedAfterEdit(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.StatsWindow = 0.5
	cfg.ComputeDerived()
	if cfg.Derived.StatsWindowTick != 30 {
		t.Errorf("stats window ticks = %d, want 30", cfg.Derived.StatsWindowTick)
	}
}

func TestSecondsToTicks(t *testing.T) {
	tests := []struct {
		sec, dt float64
		want    int32
	}{
		{10, 1.0 / 60, 600},
		{0.5, 1.0 / 60, 30},
		{1, 0.5, 2},
		{0.01, 1.0 / 60, 1},
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := SecondsToTicks(tt.sec, tt.dt); got != tt.want {
			t.Errorf("SecondsToTicks(%v, %v) = %d, want %d", tt.sec, tt.dt, got, tt.want)
		}
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("play_area:\n  shape: box\nfood:\n  interval: 0.1\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Food.Interval != 0.1 {
		t.Errorf("food interval = %v, want 0.1", cfg.Food.Interval)
	}
	if cfg.Food.Radius != 10 {
		t.Errorf("food radius = %v, want default 10", cfg.Food.Radius)
	}
	if cfg.PlayArea.HalfWidth != 600 || cfg.PlayArea.HalfHeight != 320 {
		t.Errorf("box extents = (%v, %v), want defaults (600, 320)", cfg.PlayArea.HalfWidth, cfg.PlayArea.HalfHeight)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero head radius", func(c *Config) { c.Head.Radius = 0 }},
		{"negative segment size", func(c *Config) { c.Chain.SegmentSize = -1 }},
		{"nan food radius", func(c *Config) { c.Food.Radius = math.NaN() }},
		{"unknown shape", func(c *Config) { c.PlayArea.Shape = "hexagon" }},
		{"unknown sampler", func(c *Config) { c.Food.Sampler = "grid" }},
		{"unknown scheme", func(c *Config) { c.Control.Scheme = "gamepad" }},
		{"negative segments", func(c *Config) { c.Chain.Segments = -2 }},
		{"negative food cap", func(c *Config) { c.Food.Max = -1 }},
		{"negative bite skip", func(c *Config) { c.Collision.SelfCollisionSkip = -1 }},
		{"zero brake factor", func(c *Config) { c.Control.BrakeFactor = 0 }},
		{"negative boost factor", func(c *Config) { c.Control.BoostFactor = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Chain.Segments = 4
	path := filepath.Join(t.TempDir(), "snapshot.yaml")

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Chain.Segments != 4 {
		t.Errorf("segments = %d, want 4", loaded.Chain.Segments)
	}
}
