// Package telemetry collects per-frame statistics and timing and writes them out.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarises the strands of one generated frame.
type FrameStats struct {
	Frame      int     `csv:"frame"`
	NoiseKind  string  `csv:"noise_kind"`
	NoiseScale float64 `csv:"noise_scale"`
	ZOffset    float64 `csv:"z_offset"`
	Strands    int     `csv:"strands"`
	StepBudget int     `csv:"step_budget"`
	Glow       float64 `csv:"glow"`

	// Points per strand
	MeanPoints   float64 `csv:"mean_points"`
	StdPoints    float64 `csv:"std_points"`
	MedianPoints float64 `csv:"median_points"`
	MinPoints    float64 `csv:"min_points"`
	MaxPoints    float64 `csv:"max_points"`

	// Strands that left the canvas before using their budget
	Truncated int `csv:"truncated"`
	// Strands with fewer than two points (nothing drawn)
	Degenerate int `csv:"degenerate"`
}

// Summarize computes path length statistics from per-strand point counts.
// Only the length fields are filled; callers set the frame metadata.
func Summarize(lengths []int, budget int) FrameStats {
	s := FrameStats{Strands: len(lengths), StepBudget: budget}
	if len(lengths) == 0 {
		return s
	}

	values := make([]float64, len(lengths))
	for i, n := range lengths {
		values[i] = float64(n)
		if n < budget {
			s.Truncated++
		}
		if n < 2 {
			s.Degenerate++
		}
	}

	if len(values) > 1 {
		s.MeanPoints, s.StdPoints = stat.MeanStdDev(values, nil)
	} else {
		s.MeanPoints = values[0]
	}
	s.MinPoints = floats.Min(values)
	s.MaxPoints = floats.Max(values)

	sort.Float64s(values)
	s.MedianPoints = stat.Quantile(0.5, stat.Empirical, values, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.String("noise", s.NoiseKind),
		slog.Float64("scale", s.NoiseScale),
		slog.Float64("z", s.ZOffset),
		slog.Int("strands", s.Strands),
		slog.Int("budget", s.StepBudget),
		slog.Float64("glow", s.Glow),
		slog.Float64("mean_points", s.MeanPoints),
		slog.Float64("std_points", s.StdPoints),
		slog.Float64("median_points", s.MedianPoints),
		slog.Int("truncated", s.Truncated),
		slog.Int("degenerate", s.Degenerate),
	)
}
