package config

import (
	"path"
	"path/filepath"
)

const (
	// DefaultConfigFile is the theme file the pipelines read when none is set.
	DefaultConfigFile = "inkwell.config.yml"
	// DefaultExtName is the extension of generated stylesheets.
	DefaultExtName = ".css"
	// IndexStylesheetName is the base name of the generated entry stylesheet.
	IndexStylesheetName = "index"
)

// ResolvedImportOptions is the import record after merging with defaults.
// Every field is always populated.
type ResolvedImportOptions struct {
	Mode      ImportMode `yaml:"mode"`
	Styles    bool       `yaml:"styles"`
	Scripts   bool       `yaml:"scripts"`
	Utilities bool       `yaml:"utilities"`
}

// DefaultImportOptions returns the defaults user import options are merged onto.
func DefaultImportOptions() ResolvedImportOptions {
	return ResolvedImportOptions{
		Mode:      ImportModeAuto,
		Styles:    true,
		Scripts:   true,
		Utilities: true,
	}
}

// ResolveImport overlays user import options on the defaults. Only keys the
// user actually set replace a default; the merge is shallow because the
// record is flat.
func ResolveImport(user *ImportOptions) ResolvedImportOptions {
	resolved := DefaultImportOptions()
	if user == nil {
		return resolved
	}

	if user.Mode != "" {
		resolved.Mode = user.Mode
	}
	if user.Styles != nil {
		resolved.Styles = *user.Styles
	}
	if user.Scripts != nil {
		resolved.Scripts = *user.Scripts
	}
	if user.Utilities != nil {
		resolved.Utilities = *user.Utilities
	}

	return resolved
}

// Global reports whether components should be registered globally.
func (r ResolvedImportOptions) Global() bool {
	return r.Mode == ImportModeGlobal
}

// ResolvePluginOptions fills in every unset plugin option. The output
// directory defaults to .inkwell/css next to the theme file.
func ResolvePluginOptions(opts PluginOptions) (PluginOptions, error) {
	resolved := opts

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = DefaultConfigFile
	}
	if resolved.ExtName == "" {
		resolved.ExtName = DefaultExtName
	}
	if resolved.OutputDir == "" {
		resolved.OutputDir = filepath.Join(filepath.Dir(resolved.ConfigFile), ".inkwell", "css")
	}

	if err := validatePluginOptions(resolved); err != nil {
		return PluginOptions{}, err
	}

	resolved.ConfigFile = filepath.Clean(resolved.ConfigFile)
	resolved.OutputDir = filepath.Clean(resolved.OutputDir)

	return resolved, nil
}

// IndexStylesheet is the reference hosts load for the generated stylesheet.
// It is slash separated regardless of platform.
func (o PluginOptions) IndexStylesheet() string {
	return path.Join(filepath.ToSlash(o.OutputDir), IndexStylesheetName+o.ExtName)
}
