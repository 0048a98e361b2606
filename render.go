package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/flowstrands/config"
	"github.com/pthm-cable/flowstrands/controls"
	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/frame"
	"github.com/pthm-cable/flowstrands/media"
	"github.com/pthm-cable/flowstrands/telemetry"
	"github.com/pthm-cable/flowstrands/viewer"
)

// overrideFlags are per-run tweaks layered over the loaded config.
type overrideFlags struct {
	kind     string
	scale    float64
	count    int
	contrast float64
	invert   bool
	animate  bool
	length   float64
	glow     float64
	seed     int64
	workers  int
}

func (o *overrideFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.kind, "kind", "", "noise kind: perlin, simplex, worley, fractal_perlin, open_simplex")
	f.Float64Var(&o.scale, "scale", 0, "noise scale")
	f.IntVar(&o.count, "count", 0, "strand count")
	f.Float64Var(&o.contrast, "contrast", 0, "colour contrast")
	f.BoolVar(&o.invert, "invert", false, "invert sampled colours")
	f.BoolVar(&o.animate, "animate", false, "advance the noise z offset every frame")
	f.Float64Var(&o.length, "length", 0, "normalized length input in [0,1]")
	f.Float64Var(&o.glow, "glow", 0, "normalized glow input in [0,1]")
	f.Int64Var(&o.seed, "seed", 0, "RNG seed (0 = time-based)")
	f.IntVar(&o.workers, "workers", 1, "goroutines tracing strands (-1 = one per CPU)")
}

// apply copies every flag the user set onto cfg and validates the result.
func (o *overrideFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("kind") {
		k, err := field.ParseKind(o.kind)
		if err != nil {
			return err
		}
		cfg.Noise.Kind = k
	}
	if f.Changed("scale") {
		cfg.Noise.Scale = o.scale
	}
	if f.Changed("count") {
		cfg.Strands.Count = o.count
	}
	if f.Changed("contrast") {
		cfg.Color.Contrast = o.contrast
	}
	if f.Changed("invert") {
		cfg.Color.Inverted = o.invert
	}
	if f.Changed("animate") {
		cfg.Noise.Animate = o.animate
	}
	if f.Changed("length") {
		cfg.Pointer.Length = o.length
	}
	if f.Changed("glow") {
		cfg.Pointer.Glow = o.glow
	}
	if f.Changed("seed") {
		cfg.Render.Seed = o.seed
	}
	if f.Changed("workers") {
		cfg.Render.Workers = o.workers
	}
	return cfg.Validate()
}

// loadConfig loads the config file and applies overrides. A zero render seed
// becomes time-based and a zero noise seed follows the render seed.
func loadConfig(cmd *cobra.Command, root *rootFlags, o *overrideFlags) (*config.Config, error) {
	cfg, err := config.Load(root.config)
	if err != nil {
		return nil, err
	}
	if err := o.apply(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Render.Seed = resolveSeed(cfg.Render.Seed)
	if cfg.Noise.Seed == 0 {
		cfg.Noise.Seed = cfg.Render.Seed
	}
	return cfg, nil
}

type renderOpts struct {
	image     string
	out       string
	outputDir string
	frames    int
	overrides overrideFlags
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render strand frames to PNG without a window",
		Example: `  flowstrands render --image photo.jpg --out strands.png
  flowstrands render --image photo.jpg --frames 60 --animate --out frames/ --output-dir run/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, &opts.overrides)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frames") {
				cfg.Render.Frames = opts.frames
			}
			return runRender(cmd, cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "source image (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "output.png", "output PNG, or a directory when rendering several frames")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for CSV logs and config snapshot")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "number of frames to render")
	opts.overrides.register(cmd)
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := slog.Default()

	src, err := media.Load(opts.image, cfg.Canvas.Width, cfg.Canvas.Height)
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	frames := cfg.Render.Frames
	if frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1", config.ErrInvalidParameter)
	}
	if frames > 1 {
		if err := os.MkdirAll(opts.out, 0755); err != nil {
			return fmt.Errorf("creating frame directory: %w", err)
		}
	} else if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	limits := cfg.Limits()
	comp := &frame.Compositor{Limits: &limits, Perf: perf, Workers: cfg.Render.Workers}
	ctrl := controls.New(cfg)
	rng := rand.New(rand.NewSource(cfg.Render.Seed))

	logger.Info("rendering",
		"image", opts.image,
		"frames", frames,
		"seed", cfg.Render.Seed,
		"noise", cfg.Noise.Kind,
		"strands", cfg.Strands.Count,
	)

	start := time.Now()
	for i := 0; i < frames; i++ {
		p := ctrl.Snapshot()
		f, err := comp.Generate(ctx, src, p, rng)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		path := opts.out
		if frames > 1 {
			path = media.FrameName(opts.out, i)
		}
		if err := media.Export(path, frame.Composite(src, f.Surface)); err != nil {
			return err
		}

		stats := telemetry.Summarize(f.Lengths, f.StepBudget)
		stats.Frame = i
		stats.NoiseKind = p.Noise.Kind.String()
		stats.NoiseScale = p.Noise.Scale
		stats.ZOffset = p.Noise.ZOffset
		stats.Glow = f.Glow
		if err := output.WriteFrame(stats); err != nil {
			return err
		}
		logger.Debug("frame", "path", path, "stats", stats)

		if (i+1)%cfg.Telemetry.PerfWindow == 0 || i == frames-1 {
			ps := perf.Stats()
			logger.Info("perf", "frame", i, "stats", ps)
			if err := output.WritePerf(ps, i); err != nil {
				return err
			}
		}

		ctrl.Advance()
	}

	logger.Info("done", "frames", frames, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func newViewCmd(root *rootFlags) *cobra.Command {
	var (
		image     string
		exportDir string
		outputDir string
		overrides overrideFlags
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open an interactive window; drop an image onto it to start",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, &overrides)
			if err != nil {
				return err
			}
			output, err := telemetry.NewOutputManager(outputDir)
			if err != nil {
				return err
			}
			defer output.Close()
			if err := output.WriteConfig(cfg); err != nil {
				return err
			}

			err = viewer.Run(cmd.Context(), viewer.Options{
				Config:    cfg,
				ImagePath: image,
				ExportDir: exportDir,
				Seed:      cfg.Render.Seed,
				Output:    output,
				Logger:    slog.Default(),
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&image, "image", "i", "", "initial source image")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported PNGs")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSV logs and config snapshot")
	overrides.register(cmd)

	return cmd
}

func newConfigCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.config)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
