package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultG           = 1.0
	DefaultDt          = 0.005
	DefaultDuration    = 10.0
	DefaultSampleEvery = 10
	DefaultDensity     = 1.0
	DefaultSize        = 1.0
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Name        string       `yaml:"name"`
	G           float64      `yaml:"g"`
	Dt          float64      `yaml:"dt"`
	Duration    float64      `yaml:"duration"`
	SampleEvery int          `yaml:"sample_every"`
	Seed        int64        `yaml:"seed"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

// BodyConfig describes one body. Vertices, when present, take precedence
// over Mesh and are read as a flat triangle list.
type BodyConfig struct {
	Mesh            string            `yaml:"mesh,omitempty"`
	Size            float64           `yaml:"size,omitempty"`
	Density         float64           `yaml:"density"`
	Vertices        [][3]float64      `yaml:"vertices,omitempty"`
	Position        [3]float64        `yaml:"position,flow"`
	Velocity        [3]float64        `yaml:"velocity,flow"`
	Orientation     OrientationConfig `yaml:"orientation"`
	AngularVelocity [3]float64        `yaml:"angular_velocity,flow"`
}

// OrientationConfig is an axis-angle rotation in radians. A zero axis means
// no rotation.
type OrientationConfig struct {
	Axis  [3]float64 `yaml:"axis,flow"`
	Angle float64    `yaml:"angle"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "custom",
		G:           DefaultG,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyDefaults() {
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if b.Density == 0 {
			b.Density = DefaultDensity
		}
		if b.Size == 0 && len(b.Vertices) == 0 {
			b.Size = DefaultSize
		}
	}
}

func (c *Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if c.G < 0 || math.IsNaN(c.G) || math.IsInf(c.G, 0) {
		return fmt.Errorf("%w: g must be finite and non-negative, got %g", ErrInvalidConfig, c.G)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}
	for i, b := range c.Bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

func (b BodyConfig) validate() error {
	if !(b.Density > 0) {
		return fmt.Errorf("%w: density must be positive, got %g", ErrInvalidConfig, b.Density)
	}
	if len(b.Vertices) == 0 && b.Mesh == "" {
		return fmt.Errorf("%w: either mesh or vertices is required", ErrInvalidConfig)
	}
	if len(b.Vertices)%3 != 0 {
		return fmt.Errorf("%w: vertex count %d is not a multiple of 3", ErrInvalidConfig, len(b.Vertices))
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Vertices != nil {
			b.Vertices = append([][3]float64(nil), b.Vertices...)
		}
		out.Bodies[i] = b
	}
	return &out
}

// Steps is the number of ticks at the configured step.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}
