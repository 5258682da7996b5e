package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/templar-inkwell/internal/config"
)

// pipelineFlagKeys maps pipeline flags to the configuration keys they
// override. Only flags set on the command line take effect.
var pipelineFlagKeys = map[string]string{
	"theme":      config.ConfigKey + ".config_file",
	"output-dir": config.ConfigKey + ".output_dir",
	"ext":        config.ConfigKey + ".ext_name",
}

// newPipelineFlags returns the flags every command that drives a pipeline
// accepts.
func newPipelineFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pipeline", pflag.ContinueOnError)
	fs.String("theme", "", "theme file (default "+config.DefaultConfigFile+")")
	fs.String("output-dir", "", "directory generated stylesheets are written to (default .inkwell/css next to the theme)")
	fs.String("ext", "", "extension of generated stylesheets (default "+config.DefaultExtName+")")
	return fs
}

// addPipelineFlags adds the pipeline flags to cmd.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().AddFlagSet(newPipelineFlags())
}

// bindPipelineFlags binds cmd's pipeline flags into v so config.LoadFrom
// sees them. It runs when the command does, so commands sharing v do not
// overwrite each other's bindings at init time.
func bindPipelineFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range pipelineFlagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// loadOptions binds cmd's flags and loads module options from the global
// configuration.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	v := viper.GetViper()
	if err := bindPipelineFlags(cmd, v); err != nil {
		return config.Options{}, err
	}
	return config.LoadFrom(v)
}
