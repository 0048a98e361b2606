package frame

import (
	"math"

	"github.com/pthm-cable/flowstrands/field"
)

// Params is the immutable per-frame configuration snapshot.
type Params struct {
	Noise     field.Config
	NoiseSeed int64 // permutation seed of the gradient noise kinds

	StrandCount int
	MaxLength   int // step budget at full length input
	MinLength   int // step budget at zero length input
	Thickness   float64
	Contrast    float64
	Inverted    bool

	// External pointer-style inputs, normalized to [0, 1].
	LengthInput float64
	GlowInput   float64
	GlowMin     float64
	GlowMax     float64
}

// Limits are the safe bounds the engine clamps Params into.
type Limits struct {
	ScaleMin, ScaleMax         float64
	CountMin, CountMax         int
	LengthMin, LengthMax       int
	ThicknessMin, ThicknessMax float64
	ContrastMin, ContrastMax   float64
	GlowMin, GlowMax           float64
}

// DefaultLimits are the bounds used when a Compositor has none configured.
var DefaultLimits = Limits{
	ScaleMin:     0.001,
	ScaleMax:     0.01,
	CountMin:     0,
	CountMax:     50000,
	LengthMin:    1,
	LengthMax:    2000,
	ThicknessMin: 0.1,
	ThicknessMax: 3.0,
	ContrastMin:  0,
	ContrastMax:  3.0,
	GlowMin:      0.1,
	GlowMax:      5.0,
}

// Clamp returns a copy of p with every tunable forced into l.
func (p Params) Clamp(l Limits) Params {
	p.Noise.Scale = clampF(p.Noise.Scale, l.ScaleMin, l.ScaleMax)
	if p.Noise.Kind >= field.NumKinds {
		p.Noise.Kind = field.Perlin
	}
	p.StrandCount = clampI(p.StrandCount, l.CountMin, l.CountMax)
	p.MaxLength = clampI(p.MaxLength, l.LengthMin, l.LengthMax)
	p.MinLength = clampI(p.MinLength, l.LengthMin, p.MaxLength)
	p.Thickness = clampF(p.Thickness, l.ThicknessMin, l.ThicknessMax)
	p.Contrast = clampF(p.Contrast, l.ContrastMin, l.ContrastMax)
	p.LengthInput = clampF(p.LengthInput, 0, 1)
	p.GlowInput = clampF(p.GlowInput, 0, 1)
	p.GlowMin = clampF(p.GlowMin, l.GlowMin, l.GlowMax)
	p.GlowMax = clampF(p.GlowMax, p.GlowMin, l.GlowMax)
	return p
}

// StepBudget maps the length input onto [MinLength, MaxLength].
func (p Params) StepBudget() int {
	return int(math.Ceil(float64(p.MinLength) + float64(p.MaxLength-p.MinLength)*p.LengthInput))
}

// Glow maps the glow input onto [GlowMin, GlowMax].
func (p Params) Glow() float64 {
	return p.GlowMin + (p.GlowMax-p.GlowMin)*p.GlowInput
}

func clampF(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampI(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
