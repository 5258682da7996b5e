package config

import (
	"fmt"
	"path/filepath"
	"strings"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}

// Validate checks user options for correctness before they are resolved.
// Unset fields are always valid.
func Validate(opts Options) error {
	if opts.Import != nil {
		switch opts.Import.Mode {
		case "", ImportModeAuto, ImportModeGlobal:
		default:
			return inkerrors.NewConfigError(
				inkerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("import.mode must be %q or %q, got %q", ImportModeAuto, ImportModeGlobal, opts.Import.Mode),
			).WithContext("field", "import.mode")
		}
	}

	return validatePluginOptions(opts.PluginOptions())
}

func validatePluginOptions(opts PluginOptions) error {
	if opts.ConfigFile != "" {
		if err := validatePath("config_file", opts.ConfigFile); err != nil {
			return err
		}
	}

	if opts.OutputDir != "" {
		if err := validatePath("output_dir", opts.OutputDir); err != nil {
			return err
		}
	}

	if opts.ExtName != "" {
		if !strings.HasPrefix(opts.ExtName, ".") || len(opts.ExtName) < 2 {
			return inkerrors.NewConfigError(
				inkerrors.ErrCodeConfigInvalid,
				"ext_name must start with a dot: "+opts.ExtName,
			).WithContext("field", "ext_name")
		}
		if strings.ContainsAny(opts.ExtName, `/\`) {
			return inkerrors.ErrInvalidPath("ext_name", opts.ExtName)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(field, path string) error {
	if strings.TrimSpace(path) == "" {
		return inkerrors.ErrInvalidPath(field, path)
	}

	cleanPath := filepath.Clean(path)

	// Absolute paths are fine; climbing out of the project is not.
	for _, segment := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if segment == ".." {
			return inkerrors.ErrPathTraversal(field, path)
		}
	}

	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return inkerrors.ErrInvalidPath(field, path).
				WithContext("character", char)
		}
	}

	return nil
}
