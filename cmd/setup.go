package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/conneroisu/templar-inkwell/internal/build"
	"github.com/conneroisu/templar-inkwell/internal/host"
	"github.com/conneroisu/templar-inkwell/internal/library"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
	"github.com/conneroisu/templar-inkwell/pkg/inkwell"
)

var (
	setupDev        bool
	setupAwaitBuild bool
	setupBuildDir   string
	setupManifest   string
	setupStyles     []string
	setupPrintHead  bool
	setupLibraryDir string
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	Aliases: []string{"s"},
	Short:   "Install the Inkwell module on a file-backed host",
	Long: `Install the Inkwell module: register the library stylesheets, runtime
script and components directory with the host, then run the build pipeline, or
the watch pipeline with --dev.

In development mode the command keeps watching the theme file until
interrupted.

Examples:
  templar-inkwell setup --manifest .templar/inkwell.yml
  templar-inkwell setup --dev --style web/app.css --print-head`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	addPipelineFlags(setupCmd)

	setupCmd.Flags().BoolVar(&setupDev, "dev", false, "run in development mode and watch the theme")
	setupCmd.Flags().BoolVar(&setupAwaitBuild, "await-build", true, "wait for the build pipeline before finishing setup")
	setupCmd.Flags().StringVar(&setupBuildDir, "build-dir", host.DefaultBuildDir, "directory generated plugin templates are written to")
	setupCmd.Flags().StringVar(&setupManifest, "manifest", "", "write the resulting host state as YAML to this file")
	setupCmd.Flags().StringSliceVar(&setupStyles, "style", nil, "stylesheet already configured on the host (repeatable)")
	setupCmd.Flags().BoolVar(&setupPrintHead, "print-head", false, "print the <head> markup for the registered assets")
	setupCmd.Flags().StringVar(&setupLibraryDir, "library-dir", "", "use this Inkwell checkout instead of resolving the installed module")
}

func runSetup(cmd *cobra.Command, args []string) error {
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

	metrics := build.NewBuildMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("registering build metrics: %w", err)
	}
	defer metrics.Unregister(prometheus.DefaultRegisterer)

	h := host.New(
		host.WithDev(setupDev),
		host.WithBuildDir(setupBuildDir),
		host.WithStyles(setupStyles...),
		host.WithLogger(logger),
	)

	moduleOpts := []inkwell.ModuleOption{
		inkwell.WithLogger(logger),
		inkwell.WithAwaitBuild(setupAwaitBuild),
		inkwell.WithPipeline(build.NewPipeline(
			build.WithLogger(logger),
			build.WithMetrics(metrics),
		)),
	}
	if setupLibraryDir != "" {
		moduleOpts = append(moduleOpts, inkwell.WithResolver(registrar.StaticResolver{
			library.Package: setupLibraryDir,
		}))
	}
	module := inkwell.New(moduleOpts...)

	if err := module.Install(ctx, h, opts); err != nil {
		return err
	}

	if setupManifest != "" {
		if err := h.WriteManifest(setupManifest); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}

	if setupPrintHead {
		if err := h.Head().Render(ctx, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	state := h.State()
	fmt.Fprintf(cmd.ErrOrStderr(), "Inkwell installed: %d stylesheets, %d components\n",
		state.Styles.Len(), len(state.Components))

	if setupDev {
		fmt.Fprintln(cmd.ErrOrStderr(), "Watching theme for changes... (Press Ctrl+C to stop)")
		<-ctx.Done()
	}

	return nil
}
