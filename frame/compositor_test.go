package frame

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/strand"
	"github.com/pthm-cable/flowstrands/telemetry"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func defaultParams() Params {
	return Params{
		Noise:       field.Config{Kind: field.Perlin, Scale: 0.005},
		NoiseSeed:   1,
		StrandCount: 300,
		MaxLength:   200,
		MinLength:   10,
		Thickness:   0.8,
		Contrast:    1.0,
		LengthInput: 0.5,
		GlowInput:   0.2,
		GlowMin:     0.5,
		GlowMax:     3.0,
	}
}

func originSeeder(rng *rand.Rand, _ int, _, _ float64) strand.Point {
	return strand.Point{}
}

func TestGenerateSolidRedScenario(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := solidImage(2, 2, red)
	p := Params{
		Noise:       field.Config{Kind: field.FractalPerlin, Scale: 0.005},
		StrandCount: 1,
		MaxLength:   5,
		MinLength:   5,
		Thickness:   1,
		Contrast:    1.0,
		GlowMin:     0.5,
		GlowMax:     3.0,
	}

	c := &Compositor{Seeder: originSeeder}
	f, err := c.Generate(context.Background(), src, p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.StepBudget != 5 {
		t.Errorf("StepBudget = %d, want 5", f.StepBudget)
	}
	if len(f.Lengths) != 1 {
		t.Fatalf("expected 1 strand, got %d", len(f.Lengths))
	}
	// The first step may already leave a 2x2 canvas.
	if n := f.Lengths[0]; n > 5 {
		t.Errorf("path length %d exceeds budget 5", n)
	}

	// The same trace, inspected point by point.
	bounds := strand.Bounds{Width: 2, Height: 2}
	path := strand.Trace(strand.Point{}, field.New(p.NoiseSeed, 2, 2, nil), p.Noise, bounds, 5)
	if len(path) != f.Lengths[0] {
		t.Errorf("direct trace has %d points, frame recorded %d", len(path), f.Lengths[0])
	}
	for _, pt := range path {
		if !bounds.Contains(pt) {
			t.Errorf("point %v outside [0,2)x[0,2)", pt)
		}
	}

	col, err := strand.Sample(src, 0, 0, p.Contrast, p.Inverted)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if want := (color.NRGBA{R: 255, A: 255}); col != want {
		t.Errorf("origin colour = %v, want %v", col, want)
	}
}

func TestGenerateImageNotReady(t *testing.T) {
	c := &Compositor{}
	f, err := c.Generate(context.Background(), nil, defaultParams(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrImageNotReady) {
		t.Errorf("expected ErrImageNotReady, got %v", err)
	}
	if f != nil {
		t.Error("expected no frame without an image")
	}
}

func TestGenerateReproducible(t *testing.T) {
	src := gradientImage(64, 48)
	c := &Compositor{}
	p := defaultParams()

	a, err := c.Generate(context.Background(), src, p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := c.Generate(context.Background(), src, p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a.Surface.Pix, b.Surface.Pix) {
		t.Error("same seed produced different surfaces")
	}
	if a.Surface.Bounds() != src.Bounds() {
		t.Errorf("surface bounds %v, want %v", a.Surface.Bounds(), src.Bounds())
	}
}

func TestGenerateWorkerCountInvariant(t *testing.T) {
	src := gradientImage(64, 64)
	p := defaultParams()
	p.StrandCount = 3*traceChunk + 17
	p.Noise = field.Config{Kind: field.Worley, Scale: 0.01}

	var surfaces [][]byte
	for _, workers := range []int{1, 4} {
		c := &Compositor{Workers: workers}
		f, err := c.Generate(context.Background(), src, p, rand.New(rand.NewSource(3)))
		if err != nil {
			t.Fatalf("workers=%d: Generate: %v", workers, err)
		}
		if len(f.Lengths) != p.StrandCount {
			t.Fatalf("workers=%d: %d strands, want %d", workers, len(f.Lengths), p.StrandCount)
		}
		surfaces = append(surfaces, f.Surface.Pix)
	}
	if !bytes.Equal(surfaces[0], surfaces[1]) {
		t.Error("serial and parallel tracing produced different surfaces")
	}
}

func TestTraceAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := &traceRequest{
		origins: make([]strand.Point, parallelThreshold),
		newField: func(seed int64) *field.Field {
			return field.New(1, 10, 10, rand.New(rand.NewSource(seed)))
		},
		cfg:    field.Config{Kind: field.Perlin, Scale: 0.01},
		bounds: strand.Bounds{Width: 10, Height: 10},
		budget: 5,
	}
	for _, workers := range []int{1, 4} {
		if _, err := traceAll(ctx, req, rand.New(rand.NewSource(1)), workers); !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}

func TestGenerateRespectsBudget(t *testing.T) {
	src := gradientImage(80, 80)
	p := defaultParams()
	p.LengthInput = 0
	c := &Compositor{}

	f, err := c.Generate(context.Background(), src, p, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.StepBudget != 10 {
		t.Fatalf("StepBudget = %d, want 10", f.StepBudget)
	}
	if len(f.Lengths) != p.StrandCount {
		t.Fatalf("expected %d strands, got %d", p.StrandCount, len(f.Lengths))
	}
	for i, n := range f.Lengths {
		if n > f.StepBudget {
			t.Errorf("strand %d has %d points, budget %d", i, n, f.StepBudget)
		}
	}
}

func TestGenerateBackground(t *testing.T) {
	src := solidImage(8, 8, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	p := defaultParams()
	p.StrandCount = 0

	for _, inverted := range []bool{false, true} {
		p.Inverted = inverted
		f, err := (&Compositor{}).Generate(context.Background(), src, p, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		want := color.RGBA{A: 255}
		if inverted {
			want = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		if got := f.Surface.RGBAAt(4, 4); got != want {
			t.Errorf("inverted=%v: background %v, want %v", inverted, got, want)
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Compositor{}).Generate(ctx, gradientImage(16, 16), defaultParams(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateRecordsPhases(t *testing.T) {
	perf := telemetry.NewPerfCollector(4)
	c := &Compositor{Perf: perf}

	if _, err := c.Generate(context.Background(), gradientImage(32, 32), defaultParams(), rand.New(rand.NewSource(2))); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	stats := perf.Stats()
	for _, phase := range []string{telemetry.PhaseSpawn, telemetry.PhaseTrace, telemetry.PhaseRender} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
}

func TestComposite(t *testing.T) {
	base := solidImage(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	surface := image.NewRGBA(image.Rect(0, 0, 4, 4))
	surface.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})

	out := Composite(base, surface)
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("transparent surface pixel should show base, got %v", got)
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("opaque surface pixel should win, got %v", got)
	}
}
