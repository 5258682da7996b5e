package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/templar-inkwell/internal/build"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Generate the theme stylesheets once",
	Long: `Generate index, variables and dark stylesheets from the theme file.

Stylesheets whose content did not change are left untouched. A missing theme
file generates the default theme.

Examples:
  templar-inkwell build
  templar-inkwell build --theme web/inkwell.config.yml --output-dir web/css`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addPipelineFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	pipeline := build.NewPipeline(build.WithLogger(logger))
	result, err := pipeline.Run(cmd.Context(), opts.PluginOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built stylesheets: %d written, %d unchanged (%s)\n",
		result.Written, result.Unchanged, result.Duration.Round(time.Microsecond))
	return nil
}
