package field

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleRange(t *testing.T) {
	f := New(7, 800, 800, rand.New(rand.NewSource(7)))

	for k := Kind(0); k < NumKinds; k++ {
		cfg := Config{Kind: k, Scale: 0.005}
		for i := 0; i < 500; i++ {
			x := float64(i) * 0.37
			y := float64(i) * 0.11
			v := f.Sample(x, y, 0.25, cfg)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s: sample(%f, %f) = %f, want value in [0,1]", k, x, y, v)
			}
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	a := New(42, 800, 800, nil)
	b := New(42, 800, 800, nil)

	for _, k := range []Kind{Perlin, Simplex, FractalPerlin, OpenSimplex} {
		cfg := Config{Kind: k, Scale: 0.005}
		for i := 0; i < 100; i++ {
			x, y, z := float64(i)*0.13, float64(i)*0.29, 1.5
			first := a.Sample(x, y, z, cfg)
			if again := a.Sample(x, y, z, cfg); again != first {
				t.Errorf("%s: repeated sample differs: %f vs %f", k, first, again)
			}
			if other := b.Sample(x, y, z, cfg); other != first {
				t.Errorf("%s: same seed differs: %f vs %f", k, first, other)
			}
		}
	}
}

func TestWorleyDrawsFreshCandidates(t *testing.T) {
	// Candidates span [0, 1) on a 10x10 canvas at scale 0.01, so the nearest
	// distance from the centre never reaches the cap of 1.
	f := New(1, 10, 10, rand.New(rand.NewSource(1)))
	cfg := Config{Kind: Worley, Scale: 0.01}

	first := f.Sample(0.5, 0.5, 0, cfg)
	differs := false
	for i := 0; i < 50; i++ {
		if f.Sample(0.5, 0.5, 0, cfg) != first {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected Worley samples at the same point to vary between calls")
	}
}

func TestWorleyReproducibleForSeed(t *testing.T) {
	a := New(1, 10, 10, rand.New(rand.NewSource(99)))
	b := New(1, 10, 10, rand.New(rand.NewSource(99)))
	cfg := Config{Kind: Worley, Scale: 0.01}

	for i := 0; i < 20; i++ {
		if va, vb := a.Sample(0.3, 0.4, 0, cfg), b.Sample(0.3, 0.4, 0, cfg); va != vb {
			t.Fatalf("call %d: same rng seed gave %f and %f", i, va, vb)
		}
	}
}

func TestFractalPerlinBounded(t *testing.T) {
	f := New(3, 800, 800, nil)
	cfg := Config{Kind: FractalPerlin}

	for i := 0; i < 2000; i++ {
		x := float64(i%50) * 0.173
		y := float64(i/50) * 0.291
		v := f.Sample(x, y, 0.5, cfg)
		if v < 0 || v > FractalMax {
			t.Fatalf("fractal(%f, %f) = %f, want value in [0, %f]", x, y, v, FractalMax)
		}
	}
}

func TestSimplexApprox(t *testing.T) {
	testCases := []struct {
		x, y, want float64
	}{
		{0, 0, 0.5},
		{math.Pi / 2, 0, 1},
		{-math.Pi / 2, 0, 0},
		{math.Pi / 2, math.Pi, 0},
	}

	for _, tc := range testCases {
		got := SimplexApprox(tc.x, tc.y)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("SimplexApprox(%f, %f) = %f, want %f", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestPerlinLatticeIsMidpoint(t *testing.T) {
	p := NewPerlin(5)

	// Gradient noise is zero on integer lattice points.
	for _, c := range [][3]float64{{0, 0, 0}, {3, 7, 1}, {12, 4, 9}} {
		if got := p.Noise3D(c[0], c[1], c[2]); got != 0.5 {
			t.Errorf("Noise3D(%v) = %f, want 0.5", c, got)
		}
	}
}

func TestPerlinKindSamplesPerlinNoise(t *testing.T) {
	var gen *PerlinNoise = NewPerlin(9)
	f := New(9, 100, 100, nil)
	cfg := Config{Kind: Perlin, Scale: 0.01}

	for _, c := range [][3]float64{{0.3, 1.7, 0}, {5.25, 2.5, 0.75}, {-3.1, 8.9, 2}} {
		want := gen.Noise3D(c[0], c[1], c[2])
		if got := f.Sample(c[0], c[1], c[2], cfg); got != want {
			t.Errorf("Sample(%v) = %f, want %f", c, got, want)
		}
		if want < 0 || want > 1 {
			t.Errorf("Noise3D(%v) = %f outside [0, 1]", c, want)
		}
	}
}

func TestKindCycle(t *testing.T) {
	if got := Perlin.Prev(); got != OpenSimplex {
		t.Errorf("Perlin.Prev() = %s, want %s", got, OpenSimplex)
	}
	if got := OpenSimplex.Next(); got != Perlin {
		t.Errorf("OpenSimplex.Next() = %s, want %s", got, Perlin)
	}

	k := Perlin
	for i := 0; i < int(NumKinds); i++ {
		k = k.Next()
	}
	if k != Perlin {
		t.Errorf("full cycle ended at %s, want %s", k, Perlin)
	}
}

func TestKindText(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != k {
			t.Errorf("text %q parsed to %s, want %s", text, back, k)
		}
	}

	if _, err := ParseKind("voronoi"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if k, err := ParseKind(" Fractal_Perlin "); err != nil || k != FractalPerlin {
		t.Errorf("ParseKind is case/space insensitive: got %s, %v", k, err)
	}
}
