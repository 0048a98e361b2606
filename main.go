// Command flowstrands paints images as flow-field strands, either headless
// to PNG files or interactively in a window.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	jsonOut bool
	config  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:          "flowstrands",
		Short:        "Render images as strands traced through a noise flow field",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Set before config loading so clamping warnings use it.
			logger := newLogger(os.Stderr, flags.verbose, flags.jsonOut)
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "log as JSON")
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "path to config.yaml (empty = use defaults)")

	root.AddCommand(newRenderCmd(&flags))
	root.AddCommand(newViewCmd(&flags))
	root.AddCommand(newConfigCmd(&flags))

	return root
}

// resolveSeed returns seed, or a time-based seed when it is zero.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
