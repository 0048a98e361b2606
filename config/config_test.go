package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flowstrands/field"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 800 {
		t.Errorf("canvas = %dx%d, want 800x800", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Noise.Kind != field.Perlin || cfg.Noise.Scale != 0.005 {
		t.Errorf("noise = %s/%v, want perlin/0.005", cfg.Noise.Kind, cfg.Noise.Scale)
	}
	if cfg.Strands.Count != 10000 || cfg.Strands.MaxLength != 200 {
		t.Errorf("strands = %d/%d, want 10000/200", cfg.Strands.Count, cfg.Strands.MaxLength)
	}
	if cfg.Color.Contrast != 1.0 || cfg.Color.Inverted {
		t.Errorf("color = %v/%v, want 1.0/false", cfg.Color.Contrast, cfg.Color.Inverted)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, "noise:\n  kind: fractal_perlin\n  scale: 0.008\ncolor:\n  inverted: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Noise.Kind != field.FractalPerlin {
		t.Errorf("kind = %s, want fractal_perlin", cfg.Noise.Kind)
	}
	if cfg.Noise.Scale != 0.008 {
		t.Errorf("scale = %v, want 0.008", cfg.Noise.Scale)
	}
	if !cfg.Color.Inverted {
		t.Error("expected inverted from overlay")
	}
	// Untouched keys keep their defaults
	if cfg.Strands.Count != 10000 {
		t.Errorf("count = %d, want default 10000", cfg.Strands.Count)
	}
}

func TestLoadClampsOutOfRange(t *testing.T) {
	path := writeFile(t, "noise:\n  scale: 0.5\nstrands:\n  count: 10\n  thickness: 9\ncolor:\n  contrast: 7\npointer:\n  length: 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	testCases := []struct {
		name      string
		got, want float64
	}{
		{"noise.scale", cfg.Noise.Scale, 0.01},
		{"strands.count", float64(cfg.Strands.Count), 500},
		{"strands.thickness", cfg.Strands.Thickness, 3.0},
		{"color.contrast", cfg.Color.Contrast, 3.0},
		{"pointer.length", cfg.Pointer.Length, 1.0},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	path := writeFile(t, "noise:\n  kind: voronoi\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Strands.Thickness = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := Default()
	cfg.Noise.ZOffset = 2.5
	p := cfg.Snapshot()

	if p.Noise.Kind != cfg.Noise.Kind || p.Noise.Scale != cfg.Noise.Scale || p.Noise.ZOffset != 2.5 {
		t.Errorf("noise config not carried: %+v", p.Noise)
	}
	if p.StrandCount != cfg.Strands.Count || p.MaxLength != cfg.Strands.MaxLength {
		t.Errorf("strand settings not carried: %+v", p)
	}
	// Default glow input of 0.2 over [0.5, 3.0] is the sketch's initial glow of 1.0
	if g := p.Glow(); g < 0.999 || g > 1.001 {
		t.Errorf("Glow() = %v, want 1.0", g)
	}
	if p.StepBudget() != 200 {
		t.Errorf("StepBudget() = %d, want 200", p.StepBudget())
	}

	// Snapshot is a copy
	p.StrandCount = 1
	if cfg.Strands.Count == 1 {
		t.Error("mutating the snapshot changed the config")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Noise.Kind = field.Worley
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Noise.Kind != field.Worley {
		t.Errorf("kind after round trip = %s, want worley", back.Noise.Kind)
	}
}
