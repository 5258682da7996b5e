// Package cmd provides the templar-inkwell command line, which runs the
// Inkwell module against a file-backed Templar host.
//
// Configuration is read, in decreasing priority, from:
//
//  1. command-line flags (--config, --output-dir, ...)
//  2. INKWELL_CONFIG_FILE: path to a custom configuration file
//  3. INKWELL_<KEY> environment variables, e.g. INKWELL_INKWELL_OUTPUT_DIR
//  4. the .inkwell.yml configuration file in the working directory
//
// Module options live under the "inkwell" key:
//
//	inkwell:
//	  config_file: inkwell.config.yml
//	  output_dir: web/css
//	  import:
//	    mode: global
//	    utilities: false
//	  globals:
//	    locale: en
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "templar-inkwell",
	Short: "Wire the Inkwell component library into a Templar build",
	Long: `templar-inkwell installs the Inkwell module on a Templar host: it registers
the library stylesheets, the runtime script and the component directory, then
generates the theme stylesheets once or keeps them up to date.

Quick Start:
  templar-inkwell setup            Configure the host and build stylesheets
  templar-inkwell setup --dev      Configure the host and watch the theme
  templar-inkwell build            Generate theme stylesheets once
  templar-inkwell watch            Regenerate theme stylesheets on change`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Failures are printed with any known fixes.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", inkerrors.Enhance(err))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .inkwell.yml, can also use INKWELL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig selects the configuration file and enables INKWELL_ environment
// overrides. A missing file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("INKWELL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".inkwell")
	}

	viper.SetEnvPrefix("INKWELL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the command logger from the log flags.
func newLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	if format := viper.GetString("log-format"); format != "" {
		cfg.Format = format
	}
	return logging.NewLogger(cfg), nil
}
