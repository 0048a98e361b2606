// Package config provides configuration loading for the strand renderer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/frame"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidParameter is returned by Validate for out-of-range values.
var ErrInvalidParameter = errors.New("config: invalid parameter")

// Config holds all renderer configuration parameters.
type Config struct {
	Canvas    CanvasConfig    `yaml:"canvas"`
	Noise     NoiseConfig     `yaml:"noise"`
	Strands   StrandsConfig   `yaml:"strands"`
	Glow      GlowConfig      `yaml:"glow"`
	Color     ColorConfig     `yaml:"color"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CanvasConfig holds the output surface size. Source images are fitted to it.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// NoiseConfig holds flow field parameters.
type NoiseConfig struct {
	Kind      field.Kind `yaml:"kind"`
	Scale     float64    `yaml:"scale"`
	ScaleMin  float64    `yaml:"scale_min"`
	ScaleMax  float64    `yaml:"scale_max"`
	ScaleStep float64    `yaml:"scale_step"`
	ZOffset   float64    `yaml:"z_offset"`
	Animate   bool       `yaml:"animate"`
	ZStep     float64    `yaml:"z_step"`
	Seed      int64      `yaml:"seed"`
}

// StrandsConfig holds strand count and geometry.
type StrandsConfig struct {
	Count        int     `yaml:"count"`
	CountMin     int     `yaml:"count_min"`
	CountMax     int     `yaml:"count_max"`
	CountStep    int     `yaml:"count_step"`
	MaxLength    int     `yaml:"max_length"`
	MinLength    int     `yaml:"min_length"`
	Thickness    float64 `yaml:"thickness"`
	ThicknessMin float64 `yaml:"thickness_min"`
	ThicknessMax float64 `yaml:"thickness_max"`
}

// GlowConfig is the range the glow input maps onto.
type GlowConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ColorConfig holds colour transform parameters.
type ColorConfig struct {
	Contrast     float64 `yaml:"contrast"`
	ContrastMin  float64 `yaml:"contrast_min"`
	ContrastMax  float64 `yaml:"contrast_max"`
	ContrastStep float64 `yaml:"contrast_step"`
	Inverted     bool    `yaml:"inverted"`
}

// PointerConfig holds the two normalized external inputs.
type PointerConfig struct {
	Length float64 `yaml:"length"`
	Glow   float64 `yaml:"glow"`
}

// RenderConfig holds run level settings.
type RenderConfig struct {
	Seed      int64 `yaml:"seed"`
	Frames    int   `yaml:"frames"`
	TargetFPS int   `yaml:"target_fps"`
	Workers   int   `yaml:"workers"` // trace goroutines; 1 = serial, -1 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Out-of-range values are
// clamped into their safe bounds with a warning rather than rejected.
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

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived clamps every tunable into its range.
func (c *Config) computeDerived() {
	lim := frame.DefaultLimits

	c.Canvas.Width = clampInt("canvas.width", c.Canvas.Width, 1, 8192)
	c.Canvas.Height = clampInt("canvas.height", c.Canvas.Height, 1, 8192)

	c.Noise.ScaleMin = clampFloat("noise.scale_min", c.Noise.ScaleMin, lim.ScaleMin, lim.ScaleMax)
	c.Noise.ScaleMax = clampFloat("noise.scale_max", c.Noise.ScaleMax, c.Noise.ScaleMin, lim.ScaleMax)
	c.Noise.Scale = clampFloat("noise.scale", c.Noise.Scale, c.Noise.ScaleMin, c.Noise.ScaleMax)

	c.Strands.CountMin = clampInt("strands.count_min", c.Strands.CountMin, lim.CountMin, lim.CountMax)
	c.Strands.CountMax = clampInt("strands.count_max", c.Strands.CountMax, c.Strands.CountMin, lim.CountMax)
	c.Strands.Count = clampInt("strands.count", c.Strands.Count, c.Strands.CountMin, c.Strands.CountMax)
	c.Strands.MaxLength = clampInt("strands.max_length", c.Strands.MaxLength, lim.LengthMin, lim.LengthMax)
	c.Strands.MinLength = clampInt("strands.min_length", c.Strands.MinLength, lim.LengthMin, c.Strands.MaxLength)
	c.Strands.ThicknessMin = clampFloat("strands.thickness_min", c.Strands.ThicknessMin, lim.ThicknessMin, lim.ThicknessMax)
	c.Strands.ThicknessMax = clampFloat("strands.thickness_max", c.Strands.ThicknessMax, c.Strands.ThicknessMin, lim.ThicknessMax)
	c.Strands.Thickness = clampFloat("strands.thickness", c.Strands.Thickness, c.Strands.ThicknessMin, c.Strands.ThicknessMax)

	c.Glow.Min = clampFloat("glow.min", c.Glow.Min, lim.GlowMin, lim.GlowMax)
	c.Glow.Max = clampFloat("glow.max", c.Glow.Max, c.Glow.Min, lim.GlowMax)

	c.Color.ContrastMin = clampFloat("color.contrast_min", c.Color.ContrastMin, lim.ContrastMin, lim.ContrastMax)
	c.Color.ContrastMax = clampFloat("color.contrast_max", c.Color.ContrastMax, c.Color.ContrastMin, lim.ContrastMax)
	c.Color.Contrast = clampFloat("color.contrast", c.Color.Contrast, c.Color.ContrastMin, c.Color.ContrastMax)

	c.Pointer.Length = clampFloat("pointer.length", c.Pointer.Length, 0, 1)
	c.Pointer.Glow = clampFloat("pointer.glow", c.Pointer.Glow, 0, 1)

	if c.Render.Frames < 1 {
		c.Render.Frames = 1
	}
	if c.Render.TargetFPS < 1 {
		c.Render.TargetFPS = 30
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 30
	}
}

// Validate reports the first value a strict caller would reject. Load never
// fails on these; it clamps them.
func (c *Config) Validate() error {
	if c.Noise.Kind >= field.NumKinds {
		return fmt.Errorf("%w: noise.kind %d", ErrInvalidParameter, c.Noise.Kind)
	}
	if c.Noise.Scale <= 0 {
		return fmt.Errorf("%w: noise.scale must be positive", ErrInvalidParameter)
	}
	if c.Strands.Thickness <= 0 {
		return fmt.Errorf("%w: strands.thickness must be positive", ErrInvalidParameter)
	}
	if c.Strands.MaxLength < 1 {
		return fmt.Errorf("%w: strands.max_length must be at least 1", ErrInvalidParameter)
	}
	if c.Color.Contrast < 0 {
		return fmt.Errorf("%w: color.contrast must be non-negative", ErrInvalidParameter)
	}
	return nil
}

// Limits returns the engine bounds implied by this config.
func (c *Config) Limits() frame.Limits {
	lim := frame.DefaultLimits
	lim.ScaleMin, lim.ScaleMax = c.Noise.ScaleMin, c.Noise.ScaleMax
	lim.ThicknessMin, lim.ThicknessMax = c.Strands.ThicknessMin, c.Strands.ThicknessMax
	return lim
}

// Snapshot returns the per-frame parameter snapshot described by this config.
func (c *Config) Snapshot() frame.Params {
	return frame.Params{
		Noise: field.Config{
			Kind:    c.Noise.Kind,
			Scale:   c.Noise.Scale,
			ZOffset: c.Noise.ZOffset,
		},
		NoiseSeed:   c.Noise.Seed,
		StrandCount: c.Strands.Count,
		MaxLength:   c.Strands.MaxLength,
		MinLength:   c.Strands.MinLength,
		Thickness:   c.Strands.Thickness,
		Contrast:    c.Color.Contrast,
		Inverted:    c.Color.Inverted,
		LengthInput: c.Pointer.Length,
		GlowInput:   c.Pointer.Glow,
		GlowMin:     c.Glow.Min,
		GlowMax:     c.Glow.Max,
	}
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func clampFloat(key string, v, lo, hi float64) float64 {
	switch {
	case v < lo:
		slog.Warn("config value below range, clamping", "key", key, "value", v, "min", lo)
		return lo
	case v > hi:
		slog.Warn("config value above range, clamping", "key", key, "value", v, "max", hi)
		return hi
	}
	return v
}

func clampInt(key string, v, lo, hi int) int {
	switch {
	case v < lo:
		slog.Warn("config value below range, clamping", "key", key, "value", v, "min", lo)
		return lo
	case v > hi:
		slog.Warn("config value above range, clamping", "key", key, "value", v, "max", hi)
		return hi
	}
	return v
}
