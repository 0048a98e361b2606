// Package strand traces single strands through a noise field and rasterises them.
package strand

import (
	"math"

	"github.com/pthm-cable/flowstrands/field"
)

// Point is a position in canvas space.
type Point struct {
	X, Y float64
}

// Bounds is the canvas rectangle [0,Width) x [0,Height).
type Bounds struct {
	Width, Height float64
}

// Contains reports whether p lies inside the canvas.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Sampler is a scalar field in [0, 1]. *field.Field implements it.
type Sampler interface {
	Sample(x, y, z float64, cfg field.Config) float64
}

const (
	// TurnRange maps a field value of 1 to two full turns.
	TurnRange = 4 * math.Pi
	// Smoothing is the weight of the new target angle against the previous heading.
	Smoothing = 0.5
)

// Trace walks from origin through the field in unit steps and returns the
// position after each step. The origin itself is not recorded. The walk stops
// after budget steps or as soon as a step leaves bounds; the out-of-bounds
// position is not recorded, so the path may be empty.
func Trace(origin Point, f Sampler, cfg field.Config, bounds Bounds, budget int) []Point {
	return TraceInto(nil, origin, f, cfg, bounds, budget)
}

// TraceInto is Trace appending into dst[:0], reusing its storage.
func TraceInto(dst []Point, origin Point, f Sampler, cfg field.Config, bounds Bounds, budget int) []Point {
	path := dst[:0]
	if budget <= 0 || !bounds.Contains(origin) {
		return path
	}

	pos := origin
	heading := 0.0
	for len(path) < budget {
		target := f.Sample(pos.X*cfg.Scale, pos.Y*cfg.Scale, cfg.ZOffset, cfg) * TurnRange
		heading += (target - heading) * Smoothing

		pos = Point{X: pos.X + math.Cos(heading), Y: pos.Y + math.Sin(heading)}
		if !bounds.Contains(pos) {
			break
		}
		path = append(path, pos)
	}
	return path
}
