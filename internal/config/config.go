// Package config resolves Inkwell module options.
//
// User options arrive partially populated, either from the host directly or
// from a viper-backed configuration file under the "inkwell" key. They are
// split into two independent views: the import toggles, merged with static
// defaults, and the plugin options handed to the watch and build pipelines.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

// ConfigKey is the key the module's options live under in host configuration.
const ConfigKey = "inkwell"

// ImportMode selects how library components are registered with the host.
type ImportMode string

const (
	// ImportModeAuto registers components so they are imported per use.
	ImportModeAuto ImportMode = "auto"
	// ImportModeGlobal registers every component globally.
	ImportModeGlobal ImportMode = "global"
)

// ImportOptions is the user-authored import sub-record. A nil toggle means
// "not set" and falls back to the default.
type ImportOptions struct {
	Mode      ImportMode `mapstructure:"mode" yaml:"mode,omitempty"`
	Styles    *bool      `mapstructure:"styles" yaml:"styles,omitempty"`
	Scripts   *bool      `mapstructure:"scripts" yaml:"scripts,omitempty"`
	Utilities *bool      `mapstructure:"utilities" yaml:"utilities,omitempty"`
}

// Options is the raw, partial user configuration for the module.
type Options struct {
	ConfigFile string                 `mapstructure:"config_file" yaml:"config_file,omitempty"`
	OutputDir  string                 `mapstructure:"output_dir" yaml:"output_dir,omitempty"`
	ExtName    string                 `mapstructure:"ext_name" yaml:"ext_name,omitempty"`
	Import     *ImportOptions         `mapstructure:"import" yaml:"import,omitempty"`
	Globals    map[string]interface{} `mapstructure:"globals" yaml:"globals,omitempty"`
}

// PluginOptions is the subset of options the watch and build pipelines
// consume. It is passed by value.
type PluginOptions struct {
	ConfigFile string `yaml:"config_file"`
	OutputDir  string `yaml:"output_dir"`
	ExtName    string `yaml:"ext_name"`
}

// PluginOptions returns the pipeline view of the options. No defaults are
// applied here; see ResolvePluginOptions.
func (o Options) PluginOptions() PluginOptions {
	return PluginOptions{
		ConfigFile: o.ConfigFile,
		OutputDir:  o.OutputDir,
		ExtName:    o.ExtName,
	}
}

// GlobalsOrEmpty returns the runtime globals, never nil.
func (o Options) GlobalsOrEmpty() map[string]interface{} {
	if o.Globals == nil {
		return map[string]interface{}{}
	}
	return o.Globals
}

// Bool returns a pointer to b. It keeps literal options readable:
//
//	config.ImportOptions{Styles: config.Bool(false)}
func Bool(b bool) *bool {
	return &b
}

// Load reads module options from the global viper instance.
func Load() (Options, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads module options from v. Keys are looked up under ConfigKey,
// so a YAML file such as
//
//	inkwell:
//	  output_dir: web/css
//	  import:
//	    mode: global
//	    styles: false
//
// yields Options with OutputDir set and Styles explicitly disabled.
func LoadFrom(v *viper.Viper) (Options, error) {
	var opts Options
	if err := v.UnmarshalKey(ConfigKey, &opts); err != nil {
		return Options{}, inkerrors.WrapConfig(err, inkerrors.ErrCodeConfigLoad, "cannot decode inkwell options")
	}

	// Environment overrides are not visible to UnmarshalKey, so the
	// scalar keys are re-read through viper's own lookup.
	if key := ConfigKey + ".config_file"; v.IsSet(key) {
		opts.ConfigFile = v.GetString(key)
	}
	if key := ConfigKey + ".output_dir"; v.IsSet(key) {
		opts.OutputDir = v.GetString(key)
	}
	if key := ConfigKey + ".ext_name"; v.IsSet(key) {
		opts.ExtName = v.GetString(key)
	}

	// IsSet is what separates "false" from "not configured" for the toggles.
	toggles := []struct {
		key string
		dst func(*ImportOptions) **bool
	}{
		{"styles", func(io *ImportOptions) **bool { return &io.Styles }},
		{"scripts", func(io *ImportOptions) **bool { return &io.Scripts }},
		{"utilities", func(io *ImportOptions) **bool { return &io.Utilities }},
	}
	for _, toggle := range toggles {
		key := fmt.Sprintf("%s.import.%s", ConfigKey, toggle.key)
		if !v.IsSet(key) {
			continue
		}
		if opts.Import == nil {
			opts.Import = &ImportOptions{}
		}
		*toggle.dst(opts.Import) = Bool(v.GetBool(key))
	}
	if key := ConfigKey + ".import.mode"; v.IsSet(key) {
		if opts.Import == nil {
			opts.Import = &ImportOptions{}
		}
		opts.Import.Mode = ImportMode(v.GetString(key))
	}

	if err := Validate(opts); err != nil {
		return Options{}, err
	}

	return opts, nil
}
