// Package field provides the scalar noise fields that steer strand tracing.
//
// Every kind maps a coordinate (x, y, z) to a value in [0, 1]. The kind is read
// from the Config passed to each call, so callers can switch kinds between frames
// without rebuilding the Field.
package field

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/ojrac/opensimplex-go"
)

// Kind selects the noise algorithm.
type Kind uint8

const (
	Perlin Kind = iota
	Simplex
	Worley
	FractalPerlin
	OpenSimplex

	NumKinds
)

var kindNames = [NumKinds]string{"perlin", "simplex", "worley", "fractal_perlin", "open_simplex"}
var kindLabels = [NumKinds]string{"Perlin", "Simplex", "Worley", "Fractal Perlin", "OpenSimplex"}

// String returns the config name of the kind.
func (k Kind) String() string {
	if k >= NumKinds {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Label returns the human readable name shown in overlays.
func (k Kind) Label() string {
	if k >= NumKinds {
		return "Unknown"
	}
	return kindLabels[k]
}

// Next returns the following kind, wrapping after the last one.
func (k Kind) Next() Kind {
	return (k + 1) % NumKinds
}

// Prev returns the preceding kind, wrapping before the first one.
func (k Kind) Prev() Kind {
	return (k + NumKinds - 1) % NumKinds
}

// ParseKind converts a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Perlin, fmt.Errorf("unknown noise kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k >= NumKinds {
		return nil, fmt.Errorf("invalid noise kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Config describes which field to sample and at what spatial frequency.
type Config struct {
	Kind    Kind
	Scale   float64 // spatial frequency applied by the tracer
	ZOffset float64 // animation phase
}

// Number of candidate points drawn per Worley sample.
const worleyCandidates = 5

// Fractal Perlin octave parameters.
const (
	fractalOctaves   = 4
	fractalAmplitude = 0.5
	fractalFrequency = 1.0
)

// Field samples any of the supported noise kinds.
// Worley draws from rng, so a Field is not safe for concurrent use.
type Field struct {
	perlin  *PerlinNoise
	simplex opensimplex.Noise
	rng     *rand.Rand
	width   float64
	height  float64
}

// New creates a field for a canvas of the given size. The gradient kinds are
// seeded from seed; Worley candidate points are drawn from rng on every call.
func New(seed int64, width, height int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(seed))
	}
	return &Field{
		perlin:  NewPerlin(seed),
		simplex: opensimplex.New(seed),
		rng:     rng,
		width:   float64(width),
		height:  float64(height),
	}
}

// Sample returns the field value at (x, y, z) in [0, 1].
func (f *Field) Sample(x, y, z float64, cfg Config) float64 {
	switch cfg.Kind {
	case Simplex:
		return SimplexApprox(x, y)
	case Worley:
		return f.worley(x, y, cfg.Scale)
	case FractalPerlin:
		return f.fractal(x, y, z)
	case OpenSimplex:
		return clamp01((f.simplex.Eval3(x, y, z) + 1) * 0.5)
	default:
		return f.perlin.Noise3D(x, y, z)
	}
}

// SimplexApprox is the cheap periodic stand-in used by the Simplex kind.
func SimplexApprox(x, y float64) float64 {
	return (math.Sin(x)*math.Cos(y) + 1) / 2
}

// worley returns the distance to the nearest of a fresh set of random candidate
// points, capped at 1. Candidates are spread over the canvas scaled by scale*10.
func (f *Field) worley(x, y, scale float64) float64 {
	minDist := 1.0
	for i := 0; i < worleyCandidates; i++ {
		px := f.rng.Float64() * f.width * scale * 10
		py := f.rng.Float64() * f.height * scale * 10
		minDist = math.Min(minDist, math.Hypot(x-px, y-py))
	}
	return minDist
}

func (f *Field) fractal(x, y, z float64) float64 {
	sum := 0.0
	freq := fractalFrequency
	amp := fractalAmplitude
	for i := 0; i < fractalOctaves; i++ {
		sum += amp * f.perlin.Noise3D(x*freq, y*freq, z*freq)
		freq *= 2.0
		amp *= 0.5
	}
	return sum
}

// FractalMax is the upper bound of the FractalPerlin kind.
const FractalMax = 0.9375

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
