// Package controls maps discrete user actions onto the per-frame parameters.
// It owns no window or input device; the viewer translates keys into Actions.
package controls

import (
	"fmt"
	"math"

	"github.com/pthm-cable/flowstrands/config"
	"github.com/pthm-cable/flowstrands/frame"
)

// Action is one discrete parameter edit.
type Action uint8

const (
	NoiseNext Action = iota
	NoisePrev
	ScaleUp
	ScaleDown
	ToggleAnimate
	CountUp
	CountDown
	ContrastCycle
	ToggleInvert
	ToggleFreeze
	ToggleInfo
	Export
	Reset
	Thickness1 // Thickness1..Thickness9 must stay consecutive
	Thickness2
	Thickness3
	Thickness4
	Thickness5
	Thickness6
	Thickness7
	Thickness8
	Thickness9
)

// Effect tells the caller about side effects it has to carry out.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectExport
	EffectReset
	EffectInvertRefused
	EffectFreezeChanged
)

// Ranges bound the interactive edits.
type Ranges struct {
	ScaleMin, ScaleMax, ScaleStep          float64
	CountMin, CountMax, CountStep          int
	ThicknessMin, ThicknessMax             float64
	ContrastMin, ContrastMax, ContrastStep float64
	ZStep                                  float64
}

// RangesFrom reads the interactive ranges from cfg.
func RangesFrom(cfg *config.Config) Ranges {
	return Ranges{
		ScaleMin:     cfg.Noise.ScaleMin,
		ScaleMax:     cfg.Noise.ScaleMax,
		ScaleStep:    cfg.Noise.ScaleStep,
		CountMin:     cfg.Strands.CountMin,
		CountMax:     cfg.Strands.CountMax,
		CountStep:    cfg.Strands.CountStep,
		ThicknessMin: cfg.Strands.ThicknessMin,
		ThicknessMax: cfg.Strands.ThicknessMax,
		ContrastMin:  cfg.Color.ContrastMin,
		ContrastMax:  cfg.Color.ContrastMax,
		ContrastStep: cfg.Color.ContrastStep,
		ZStep:        cfg.Noise.ZStep,
	}
}

// State is everything the controls can change.
type State struct {
	Params   frame.Params
	Animate  bool
	Frozen   bool
	ShowInfo bool
}

// Controller applies actions to a State between frames.
type Controller struct {
	ranges   Ranges
	defaults State
	state    State
}

// New creates a controller starting from the config's parameters.
func New(cfg *config.Config) *Controller {
	initial := State{
		Params:   cfg.Snapshot(),
		Animate:  cfg.Noise.Animate,
		ShowInfo: true,
	}
	return &Controller{
		ranges:   RangesFrom(cfg),
		defaults: initial,
		state:    initial,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot returns the parameters for the next frame.
func (c *Controller) Snapshot() frame.Params {
	return c.state.Params
}

// SetPointer sets the two normalized pointer inputs: x drives glow, y drives length.
func (c *Controller) SetPointer(x, y float64) {
	c.state.Params.GlowInput = math.Max(0, math.Min(1, x))
	c.state.Params.LengthInput = math.Max(0, math.Min(1, y))
}

// Advance moves the animation phase forward after a generated frame.
func (c *Controller) Advance() {
	if c.state.Animate && !c.state.Frozen {
		c.state.Params.Noise.ZOffset = round6(c.state.Params.Noise.ZOffset + c.ranges.ZStep)
	}
}

// Apply performs a and reports any side effect the caller must handle.
func (c *Controller) Apply(a Action) Effect {
	p := &c.state.Params
	r := c.ranges

	switch {
	case a == NoiseNext:
		p.Noise.Kind = p.Noise.Kind.Next()
	case a == NoisePrev:
		p.Noise.Kind = p.Noise.Kind.Prev()
	case a == ScaleUp:
		p.Noise.Scale = math.Min(r.ScaleMax, round6(p.Noise.Scale+r.ScaleStep))
	case a == ScaleDown:
		p.Noise.Scale = math.Max(r.ScaleMin, round6(p.Noise.Scale-r.ScaleStep))
	case a == ToggleAnimate:
		c.state.Animate = !c.state.Animate
	case a == CountUp:
		p.StrandCount = min(r.CountMax, p.StrandCount+r.CountStep)
	case a == CountDown:
		p.StrandCount = max(r.CountMin, p.StrandCount-r.CountStep)
	case a == ContrastCycle:
		p.Contrast = round6(p.Contrast + r.ContrastStep)
		if p.Contrast > r.ContrastMax {
			p.Contrast = r.ContrastMin
		}
	case a == ToggleInvert:
		if c.state.Frozen {
			return EffectInvertRefused
		}
		p.Inverted = !p.Inverted
	case a == ToggleFreeze:
		c.state.Frozen = !c.state.Frozen
		return EffectFreezeChanged
	case a == ToggleInfo:
		c.state.ShowInfo = !c.state.ShowInfo
	case a == Export:
		return EffectExport
	case a == Reset:
		c.state = c.defaults
		return EffectReset
	case a >= Thickness1 && a <= Thickness9:
		d := float64(a - Thickness1)
		p.Thickness = round6(r.ThicknessMin + d/8*(r.ThicknessMax-r.ThicknessMin))
	}
	return EffectNone
}

// Lines returns the overlay text describing the current state.
func (c *Controller) Lines() []string {
	s := c.state
	p := s.Params

	inverted := yesNo(p.Inverted)
	if s.Frozen {
		inverted = "DISABLED (Frozen)"
	}

	return []string{
		fmt.Sprintf("Noise Type (Left/Right): %s", p.Noise.Kind.Label()),
		fmt.Sprintf("Noise Scale (Up/Down): %.3f", p.Noise.Scale),
		fmt.Sprintf("Noise Animation (A): %s", onOff(s.Animate)),
		fmt.Sprintf("Strand Length (Y-axis): %d", p.StepBudget()),
		fmt.Sprintf("Strand Amount (< / >): %d", p.StrandCount),
		fmt.Sprintf("Strand Thickness (1-9): %.1f", p.Thickness),
		fmt.Sprintf("Glow Intensity (X-axis): %.1f", p.Glow()),
		fmt.Sprintf("Contrast (C): %.1f", p.Contrast),
		fmt.Sprintf("Inverted Scene (I): %s", inverted),
		fmt.Sprintf("Freeze Frame (F): %s", yesNo(s.Frozen)),
		"Export Image (E)",
		"Reset (R)",
		"Toggle UI (U)",
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
