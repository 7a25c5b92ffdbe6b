// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Play area shapes.
const (
	ShapeBox    = "box"
	ShapeCircle = "circle"
	ShapeTorus  = "torus"
)

// Chain follow modes.
const (
	FollowLeash = "leash"
	FollowTrail = "trail"
)

// Food samplers.
const (
	SamplerRejection = "rejection"
	SamplerPolar     = "polar"
)

// Control schemes.
const (
	SchemePointer  = "pointer"
	SchemeThrottle = "throttle"
)

// Pilot modes for headless runs.
const (
	PilotNoise = "noise"
	PilotSeek  = "seek"
	PilotNone  = "none"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Head      HeadConfig      `yaml:"head"`
	Chain     ChainConfig     `yaml:"chain"`
	PlayArea  PlayAreaConfig  `yaml:"play_area"`
	Food      FoodConfig      `yaml:"food"`
	Control   ControlConfig   `yaml:"control"`
	Collision CollisionConfig `yaml:"collision"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Pilot     PilotConfig     `yaml:"pilot"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the update loop timing.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`        // Fixed step used by headless runs
	MaxDelta float64 `yaml:"max_delta"` // Viewer frame time is capped to this; Step never rescales its delta
}

// HeadConfig holds the head's prototype values, fixed at spawn time.
type HeadConfig struct {
	MovementSpeed float64 `yaml:"movement_speed"` // units/second
	RotationSpeed float64 `yaml:"rotation_speed"` // radians/second
	Radius        float64 `yaml:"radius"`
}

// ChainConfig holds body segment parameters.
type ChainConfig struct {
	Segments      int     `yaml:"segments"`
	SegmentSize   float64 `yaml:"segment_size"`    // Max distance between consecutive links
	SegmentRadius float64 `yaml:"segment_radius"`
	FollowMode    string  `yaml:"follow_mode"`     // leash or trail
	AlignTurnRate float64 `yaml:"align_turn_rate"` // radians/second, 0 disables alignment
}

// PlayAreaConfig describes the boundary. Box and torus use the half extents,
// circle uses the radius.
type PlayAreaConfig struct {
	Shape      string  `yaml:"shape"`
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
	Radius     float64 `yaml:"radius"`
}

// FoodConfig holds food spawner parameters.
type FoodConfig struct {
	Interval float64 `yaml:"interval"` // Seconds between spawns
	Radius   float64 `yaml:"radius"`
	Amount   float64 `yaml:"amount"`
	Max      int     `yaml:"max"` // Outstanding food cap, 0 = uncapped
	Sampler  string  `yaml:"sampler"`
}

// ControlConfig selects the control scheme.
type ControlConfig struct {
	Scheme      string  `yaml:"scheme"`
	BoostFactor float64 `yaml:"boost_factor"` // Throttle scheme: accelerate key
	BrakeFactor float64 `yaml:"brake_factor"` // Throttle scheme: brake key
}

// CollisionConfig holds the pluggable self-collision policy settings.
type CollisionConfig struct {
	SelfCollision     bool `yaml:"self_collision"`
	SelfCollisionSkip int  `yaml:"self_collision_skip"` // Segments nearest the head that never bite
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// PilotConfig drives the pointer target in headless runs.
type PilotConfig struct {
	Mode            string  `yaml:"mode"`
	Frequency       float64 `yaml:"frequency"`        // Noise sampling rate per simulated second
	Reach           float64 `yaml:"reach"`            // Distance of the wander target from the head
	AbsentThreshold float64 `yaml:"absent_threshold"` // Noise below this means no pointer this tick
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTick int32 // Telemetry.StatsWindow in fixed steps
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"physics.dt", c.Physics.DT},
		{"physics.max_delta", c.Physics.MaxDelta},
		{"head.movement_speed", c.Head.MovementSpeed},
		{"head.rotation_speed", c.Head.RotationSpeed},
		{"head.radius", c.Head.Radius},
		{"chain.segment_size", c.Chain.SegmentSize},
		{"chain.segment_radius", c.Chain.SegmentRadius},
		{"food.interval", c.Food.Interval},
		{"food.radius", c.Food.Radius},
		{"control.boost_factor", c.Control.BoostFactor},
		{"control.brake_factor", c.Control.BrakeFactor},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalid, p.name, p.v)
		}
	}

	if c.Chain.Segments < 0 {
		return fmt.Errorf("%w: chain.segments must be >= 0, got %d", ErrInvalid, c.Chain.Segments)
	}
	if c.Chain.AlignTurnRate < 0 {
		return fmt.Errorf("%w: chain.align_turn_rate must be >= 0", ErrInvalid)
	}
	if c.Collision.SelfCollisionSkip < 0 {
		return fmt.Errorf("%w: collision.self_collision_skip must be >= 0", ErrInvalid)
	}
	if c.Food.Max < 0 {
		return fmt.Errorf("%w: food.max must be >= 0, got %d", ErrInvalid, c.Food.Max)
	}

	switch c.PlayArea.Shape {
	case ShapeCircle:
		if !(c.PlayArea.Radius > 0) {
			return fmt.Errorf("%w: play_area.radius must be > 0", ErrInvalid)
		}
	case ShapeBox, ShapeTorus:
		if !(c.PlayArea.HalfWidth > 0) || !(c.PlayArea.HalfHeight > 0) {
			return fmt.Errorf("%w: play_area half extents must be > 0", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown play_area.shape %q", ErrInvalid, c.PlayArea.Shape)
	}

	if err := oneOf("chain.follow_mode", c.Chain.FollowMode, FollowLeash, FollowTrail); err != nil {
		return err
	}
	if err := oneOf("food.sampler", c.Food.Sampler, SamplerRejection, SamplerPolar); err != nil {
		return err
	}
	if err := oneOf("control.scheme", c.Control.Scheme, SchemePointer, SchemeThrottle); err != nil {
		return err
	}
	if err := oneOf("pilot.mode", c.Pilot.Mode, PilotNoise, PilotSeek, PilotNone); err != nil {
		return err
	}
	return nil
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalid, name, allowed, v)
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it again after changing fields in code.
func (c *Config) ComputeDerived() {
	c.Derived.StatsWindowTick = SecondsToTicks(c.Telemetry.StatsWindow, c.Physics.DT)
}

// SecondsToTicks converts a duration to a whole number of fixed steps of dt,
// never less than one.
func SecondsToTicks(sec, dt float64) int32 {
	if !(dt > 0) {
		return 1
	}
	return max(1, int32(sec/dt+1e-9))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
