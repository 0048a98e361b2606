// Package frame generates complete strand frames from a source image.
package frame

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"runtime"

	"github.com/fogleman/gg"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/strand"
	"github.com/pthm-cable/flowstrands/telemetry"
)

// ErrImageNotReady is returned by Generate when no source image is loaded.
var ErrImageNotReady = strand.ErrImageNotReady

// Origin is the seed point of a strand.
type Origin struct {
	strand.Point
}

// Tint is the strand colour sampled at its origin.
type Tint struct {
	Color color.NRGBA
}

// Trail is the traced path of a strand.
type Trail struct {
	Points []strand.Point
}

// Seeder picks the origin of strand i on a canvas of the given size.
type Seeder func(rng *rand.Rand, i int, width, height float64) strand.Point

// UniformSeeder picks origins uniformly over the canvas.
func UniformSeeder(rng *rand.Rand, _ int, width, height float64) strand.Point {
	return strand.Point{X: rng.Float64() * width, Y: rng.Float64() * height}
}

// Frame is one generated surface plus the per-strand path lengths in draw order.
type Frame struct {
	Surface    *image.RGBA
	Lengths    []int
	StepBudget int
	Glow       float64
}

// How many strands to process between cancellation checks.
const cancelCheckInterval = 256

// Compositor turns a source image and a Params snapshot into a Frame.
// It holds no state between calls; the zero value is ready to use.
type Compositor struct {
	Limits *Limits                  // nil = DefaultLimits
	Seeder Seeder                   // nil = UniformSeeder
	Perf   *telemetry.PerfCollector // optional phase timing

	// Workers is the number of goroutines tracing strands; 0 or 1 traces
	// on the calling goroutine, a negative value uses GOMAXPROCS.
	Workers int
}

// Generate renders strandCount strands sampled from src onto a fresh surface the
// size of src. Strands are drawn in generation order, so a fixed rng seed gives a
// reproducible image. ctx is checked between strands.
func (c *Compositor) Generate(ctx context.Context, src image.Image, p Params, rng *rand.Rand) (*Frame, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrImageNotReady
	}
	limits := DefaultLimits
	if c.Limits != nil {
		limits = *c.Limits
	}
	seeder := c.Seeder
	if seeder == nil {
		seeder = UniformSeeder
	}
	p = p.Clamp(limits)

	c.Perf.StartFrame()
	defer c.Perf.EndFrame()

	size := src.Bounds().Size()
	bounds := strand.Bounds{Width: float64(size.X), Height: float64(size.Y)}

	world := ecs.NewWorld()
	mapper := ecs.NewMap3[Origin, Tint, Trail](world)
	filter := ecs.NewFilter3[Origin, Tint, Trail](world)

	// Spawn: origins and colours
	c.Perf.StartPhase(telemetry.PhaseSpawn)
	for i := 0; i < p.StrandCount; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		pt := seeder(rng, i, bounds.Width, bounds.Height)
		px := min(max(int(pt.X), 0), size.X-1)
		py := min(max(int(pt.Y), 0), size.Y-1)
		col, err := strand.Sample(src, px, py, p.Contrast, p.Inverted)
		if err != nil {
			return nil, err
		}
		mapper.NewEntity(&Origin{Point: pt}, &Tint{Color: col}, &Trail{})
	}

	// Trace: walk every strand through the field
	c.Perf.StartPhase(telemetry.PhaseTrace)
	budget := p.StepBudget()
	req := &traceRequest{
		origins: make([]strand.Point, 0, p.StrandCount),
		newField: func(seed int64) *field.Field {
			return field.New(p.NoiseSeed, size.X, size.Y, rand.New(rand.NewSource(seed)))
		},
		cfg:    p.Noise,
		bounds: bounds,
		budget: budget,
	}
	query := filter.Query()
	for query.Next() {
		origin, _, _ := query.Get()
		req.origins = append(req.origins, origin.Point)
	}
	workers := c.Workers
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	trails, err := traceAll(ctx, req, rng, workers)
	if err != nil {
		return nil, err
	}
	i := 0
	query = filter.Query()
	for query.Next() {
		_, _, trail := query.Get()
		trail.Points = trails[i]
		i++
	}

	// Render: stroke into the offscreen surface
	c.Perf.StartPhase(telemetry.PhaseRender)
	surface := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	dc := gg.NewContextForRGBA(surface)
	dc.SetColor(Background(p.Inverted))
	dc.Clear()

	glow := p.Glow()
	style := strand.Style{Thickness: p.Thickness, Glow: glow}
	lengths := make([]int, 0, p.StrandCount)
	query = filter.Query()
	for query.Next() {
		if len(lengths)%cancelCheckInterval == 0 && ctx.Err() != nil {
			query.Close()
			return nil, ctx.Err()
		}
		_, tint, trail := query.Get()
		strand.Render(dc, trail.Points, tint.Color, style)
		lengths = append(lengths, len(trail.Points))
	}

	return &Frame{
		Surface:    surface,
		Lengths:    lengths,
		StepBudget: budget,
		Glow:       glow,
	}, nil
}

// Background is the surface clear colour: black, or white when inverted.
func Background(inverted bool) color.Color {
	if inverted {
		return color.White
	}
	return color.Black
}

// Composite draws surface over base and returns the result at surface's size.
func Composite(base image.Image, surface *image.RGBA) *image.RGBA {
	out := image.NewRGBA(surface.Bounds())
	dc := gg.NewContextForRGBA(out)
	if base != nil {
		dc.DrawImage(base, 0, 0)
	}
	dc.DrawImage(surface, 0, 0)
	return out
}
