// Package viewer presents generated frames in a raylib window and feeds user
// input back into the per-frame parameters.
package viewer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowstrands/camera"
	"github.com/pthm-cable/flowstrands/config"
	"github.com/pthm-cable/flowstrands/controls"
	"github.com/pthm-cable/flowstrands/frame"
	"github.com/pthm-cable/flowstrands/media"
	"github.com/pthm-cable/flowstrands/telemetry"
)

// Options configures a viewer session.
type Options struct {
	Config    *config.Config
	ImagePath string // optional initial image
	ExportDir string
	Seed      int64
	Output    *telemetry.OutputManager // optional CSV output
	Logger    *slog.Logger
}

// Viewer owns the window, the freeze cache and the current source image.
type Viewer struct {
	cfg        *config.Config
	log        *slog.Logger
	controls   *controls.Controller
	compositor *frame.Compositor
	perf       *telemetry.PerfCollector
	output     *telemetry.OutputManager
	rng        *rand.Rand
	exportDir  string
	camera     *camera.Camera

	width, height int
	source        *image.NRGBA
	cache         frame.Cache
	texture       rl.Texture2D
	pixels        []color.RGBA
	frameIndex    int
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	limits := cfg.Limits()

	v := &Viewer{
		cfg:        cfg,
		log:        logger,
		controls:   controls.New(cfg),
		compositor: &frame.Compositor{Limits: &limits, Perf: perf, Workers: cfg.Render.Workers},
		perf:       perf,
		output:     opts.Output,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		exportDir:  opts.ExportDir,
		width:      cfg.Canvas.Width,
		height:     cfg.Canvas.Height,
		pixels:     make([]color.RGBA, cfg.Canvas.Width*cfg.Canvas.Height),
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(v.width), int32(v.height), "Flow Strands")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Render.TargetFPS))

	v.camera = camera.New(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()), float32(v.width), float32(v.height))

	img := rl.GenImageColor(v.width, v.height, rl.Black)
	v.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(v.texture)

	if opts.ImagePath != "" {
		if err := v.loadImage(opts.ImagePath); err != nil {
			return err
		}
	}

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		v.handleDrop()
		v.handleInput()
		if err := v.update(ctx); err != nil {
			return err
		}
		v.draw()
		v.perf.RecordPresent()
	}
	return nil
}

// loadImage replaces the source image and drops any frozen surface.
func (v *Viewer) loadImage(path string) error {
	img, err := media.Load(path, v.width, v.height)
	if err != nil {
		return err
	}
	v.source = img
	v.cache.Clear()
	v.log.Info("image loaded", "path", path, "canvas", [2]int{v.width, v.height})
	return nil
}

// update produces the surface for this display frame, generating a new one
// unless frozen with a cached surface.
func (v *Viewer) update(ctx context.Context) error {
	if v.source == nil {
		return nil
	}

	state := v.controls.State()
	var generated *frame.Frame
	surface, hit, err := v.cache.Resolve(state.Frozen, func() (*image.RGBA, error) {
		f, err := v.compositor.Generate(ctx, v.source, v.controls.Snapshot(), v.rng)
		if err != nil {
			return nil, err
		}
		generated = f
		return frame.Composite(v.source, f.Surface), nil
	})
	switch {
	case errors.Is(err, frame.ErrImageNotReady), errors.Is(err, context.Canceled):
		return nil
	case err != nil:
		return err
	case hit:
		return nil
	}

	v.upload(surface)
	v.record(generated, state)
	v.controls.Advance()
	return nil
}

// upload copies surface into the window texture.
func (v *Viewer) upload(surface *image.RGBA) {
	pix := surface.Pix
	for i := range v.pixels {
		o := i * 4
		v.pixels[i] = color.RGBA{R: pix[o], G: pix[o+1], B: pix[o+2], A: pix[o+3]}
	}
	rl.UpdateTexture(v.texture, v.pixels)
}

func (v *Viewer) record(f *frame.Frame, state controls.State) {
	stats := telemetry.Summarize(f.Lengths, f.StepBudget)
	stats.Frame = v.frameIndex
	stats.NoiseKind = state.Params.Noise.Kind.String()
	stats.NoiseScale = state.Params.Noise.Scale
	stats.ZOffset = state.Params.Noise.ZOffset
	stats.Glow = f.Glow
	v.log.Debug("frame generated", "stats", stats)

	if err := v.output.WriteFrame(stats); err != nil {
		v.log.Warn("failed to write frame stats", "error", err)
	}
	if (v.frameIndex+1)%v.cfg.Telemetry.PerfWindow == 0 {
		perf := v.perf.Stats()
		v.log.Info("perf", "stats", perf)
		if err := v.output.WritePerf(perf, v.frameIndex); err != nil {
			v.log.Warn("failed to write perf stats", "error", err)
		}
	}
	v.frameIndex++
}

func (v *Viewer) handleEffect(e controls.Effect) {
	switch e {
	case controls.EffectExport:
		v.export()
	case controls.EffectReset:
		v.cache.Clear()
		v.log.Info("reset to initial state")
	case controls.EffectInvertRefused:
		v.log.Info("invert disabled while frozen")
	case controls.EffectFreezeChanged:
		v.log.Info("freeze toggled", "frozen", v.controls.State().Frozen)
	}
}

func (v *Viewer) export() {
	surface, ok := v.cache.Load()
	if !ok {
		v.log.Warn("nothing to export yet")
		return
	}
	path := media.ExportName(v.exportDir, time.Now())
	if err := media.Export(path, surface); err != nil {
		v.log.Error("export failed", "error", err)
		return
	}
	v.log.Info("frame saved", "path", path)
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.White)

	state := v.controls.State()
	if v.source != nil {
		x, y, w, h := v.camera.Dest()
		rl.DrawTexturePro(
			v.texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(v.width), Height: float32(v.height)},
			rl.Rectangle{X: x, Y: y, Width: w, Height: h},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
	} else {
		drawPlaceholder(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	}
	if state.ShowInfo {
		drawOverlay(v.controls.Lines(), state.Params.Inverted)
	}

	rl.EndDrawing()
}
