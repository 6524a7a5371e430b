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

// ErrInvalidConfig is returned (wrapped) when a simulation config cannot be applied.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Spawn layouts for the particle store.
const (
	LayoutRandom = "random"
	LayoutGrid   = "grid"
)

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Render     RenderConfig     `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings. The canvas size lives in SimulationConfig.
type ScreenConfig struct {
	PanelWidth int `yaml:"panel_width"`
	TargetFPS  int `yaml:"target_fps"`
}

// SimulationConfig is the parameter snapshot consumed by one Configure call.
type SimulationConfig struct {
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	Particles          int     `yaml:"n_particles"`
	Gravity            float64 `yaml:"gravity"`
	Friction           float64 `yaml:"friction"` // stored and exposed, not applied by the integrator
	Bounce             float64 `yaml:"bounce"`
	PressureMultiplier float64 `yaml:"pressure_multiplier"`
	TargetDensity      float64 `yaml:"target_density"`
	SmoothingRadius    float64 `yaml:"smoothing_radius"`
	ParticleMass       float64 `yaml:"particle_mass"`
	Layout             string  `yaml:"layout"` // random | grid
	Seed               int64   `yaml:"seed"`   // 0 = time based
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	StepsPerUpdate int     `yaml:"steps_per_update"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	SpeedScale float64 `yaml:"speed_scale"` // speed mapped to the hottest colour
	SlowColor  string  `yaml:"slow_color"`
	FastColor  string  `yaml:"fast_color"`
	ProbeColor string  `yaml:"probe_color"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WindowWidth  int // canvas width + control panel
	WindowHeight int
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Simulation = cfg.Simulation.Normalize()
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.DT <= 0 {
		c.Physics.DT = 1
	}
	if c.Physics.StepsPerUpdate < 1 {
		c.Physics.StepsPerUpdate = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 60
	}

	c.Derived.WindowWidth = c.Simulation.Width + c.Screen.PanelWidth
	c.Derived.WindowHeight = c.Simulation.Height
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

// Normalize returns a copy with recoverable problems clamped:
// a negative particle count becomes 0 and an empty layout becomes random.
func (s SimulationConfig) Normalize() SimulationConfig {
	if s.Particles < 0 {
		s.Particles = 0
	}
	if s.Layout == "" {
		s.Layout = LayoutRandom
	}
	return s
}

// Validate reports whether the config can be applied as-is.
// Returned errors wrap ErrInvalidConfig.
func (s SimulationConfig) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d must be positive", ErrInvalidConfig, s.Width, s.Height)
	}
	if s.Particles < 0 {
		return fmt.Errorf("%w: n_particles %d is negative", ErrInvalidConfig, s.Particles)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"gravity", s.Gravity},
		{"friction", s.Friction},
		{"bounce", s.Bounce},
		{"pressure_multiplier", s.PressureMultiplier},
		{"target_density", s.TargetDensity},
		{"smoothing_radius", s.SmoothingRadius},
		{"particle_mass", s.ParticleMass},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, f.name)
		}
	}
	if s.SmoothingRadius <= 0 {
		return fmt.Errorf("%w: smoothing_radius %g must be positive", ErrInvalidConfig, s.SmoothingRadius)
	}
	if s.ParticleMass <= 0 {
		return fmt.Errorf("%w: particle_mass %g must be positive", ErrInvalidConfig, s.ParticleMass)
	}
	if s.Bounce < 0 || s.Bounce > 1 {
		return fmt.Errorf("%w: bounce %g outside [0, 1]", ErrInvalidConfig, s.Bounce)
	}
	switch s.Layout {
	case LayoutRandom, LayoutGrid:
	default:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, s.Layout)
	}
	return nil
}
