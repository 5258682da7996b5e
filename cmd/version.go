package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/templar-inkwell/internal/version"
	"github.com/conneroisu/templar-inkwell/pkg/inkwell"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for templar-inkwell, including the Templar
host API version it implements and the Inkwell module version it installs.

Examples:
  templar-inkwell version              # Show version
  templar-inkwell version --short      # Show the version number only
  templar-inkwell version --format json`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

type versionOutput struct {
	version.BuildInfo `yaml:",inline"`
	Module            string `json:"module" yaml:"module"`
	ModuleVersion     string `json:"module_version" yaml:"module_version"`
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")
	out := cmd.OutOrStdout()

	info := versionOutput{
		BuildInfo:     *version.GetBuildInfo(),
		Module:        inkwell.Meta.Name,
		ModuleVersion: inkwell.Meta.Version,
	}

	switch versionFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		return yaml.NewEncoder(out).Encode(info)
	case "text":
		return writeVersionText(out, info, detailed)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}

func writeVersionText(w io.Writer, info versionOutput, detailed bool) error {
	switch {
	case versionShort:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case detailed:
		_, err := fmt.Fprintf(w, "%s\nModule: %s v%s\n", version.GetDetailedVersion(), info.Module, info.ModuleVersion)
		return err
	default:
		line := fmt.Sprintf("templar-inkwell %s (host API %s, %s module v%s)",
			info.Version, info.HostAPIVersion, info.Module, info.ModuleVersion)
		if info.GitCommit != "unknown" && len(info.GitCommit) >= 7 {
			line += fmt.Sprintf(" [%s]", info.GitCommit[:7])
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}
}
