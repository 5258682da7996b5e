package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/templar-inkwell/internal/build"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Regenerate the theme stylesheets whenever the theme changes",
	Long: `Generate the theme stylesheets, then watch the theme file and regenerate
them on every change until interrupted.

Examples:
  templar-inkwell watch
  templar-inkwell watch --theme web/inkwell.config.yml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addPipelineFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	err = build.NewPipeline(build.WithLogger(logger)).Watch(ctx, opts.PluginOptions())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
