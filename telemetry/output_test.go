package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeConfig struct{}

func (fakeConfig) WriteYAML(path string) error {
	return os.WriteFile(path, []byte("noise:\n  kind: perlin\n"), 0644)
}

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager when dir is empty")
	}

	// Nil manager methods are no-ops
	if err := om.WriteFrame(FrameStats{}); err != nil {
		t.Errorf("WriteFrame on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		stats := Summarize([]int{2, 4, 6}, 6)
		stats.Frame = i
		stats.NoiseKind = "perlin"
		if err := om.WriteFrame(stats); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, 2); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(fakeConfig{}); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "frame,noise_kind,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "frame,noise_kind") != 1 {
		t.Error("header written more than once")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}
