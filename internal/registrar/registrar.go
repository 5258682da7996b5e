// Package registrar registers the component library's templ components with
// the host's component auto-import mechanism.
package registrar

import (
	"context"
	"path/filepath"

	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/library"
	"github.com/conneroisu/templar-inkwell/internal/logging"
)

// ComponentsDir describes a directory of components to auto-import.
type ComponentsDir struct {
	// Path is the absolute directory to scan.
	Path string `yaml:"path"`
	// PathPrefix prefixes generated import names with their subdirectory.
	PathPrefix bool `yaml:"path_prefix"`
	// Pattern selects component files, relative to Path.
	Pattern string `yaml:"pattern"`
	// Ignore excludes files matched by Pattern.
	Ignore []string `yaml:"ignore,omitempty"`
	// Transpile asks the host to compile the components with the project.
	Transpile bool `yaml:"transpile"`
	// Global registers every component globally instead of per use.
	Global bool `yaml:"global"`
}

// Target registers component directories.
type Target interface {
	AddComponentsDir(ctx context.Context, dir ComponentsDir) error
}

// Registrar registers the library's components directory.
type Registrar struct {
	resolver PathResolver
	logger   logging.Logger
}

// New creates a registrar resolving the library through resolver.
func New(resolver PathResolver, logger logging.Logger) *Registrar {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registrar{
		resolver: resolver,
		logger:   logger.WithComponent("registrar"),
	}
}

// ComponentsDirFor returns the registration for a library installed at
// libraryDir.
func ComponentsDirFor(libraryDir string, resolved config.ResolvedImportOptions) ComponentsDir {
	return ComponentsDir{
		Path:       filepath.Join(libraryDir, library.ComponentsDir),
		PathPrefix: false,
		Pattern:    library.ComponentPattern,
		Ignore:     []string{library.ExamplesPattern},
		Transpile:  true,
		Global:     resolved.Global(),
	}
}

// Register resolves the library and registers its components directory,
// returning once the target has accepted it. A library that cannot be
// resolved is fatal.
func (r *Registrar) Register(ctx context.Context, target Target, resolved config.ResolvedImportOptions) (ComponentsDir, error) {
	libraryDir, err := r.resolver.Resolve(ctx, library.Package)
	if err != nil {
		return ComponentsDir{}, inkerrors.ErrLibraryNotFound(library.Package, err)
	}

	dir := ComponentsDirFor(libraryDir, resolved)
	if err := target.AddComponentsDir(ctx, dir); err != nil {
		return ComponentsDir{}, inkerrors.NewResolutionError(
			inkerrors.ErrCodeComponentsDir,
			"host rejected components directory",
			err,
		).WithFile(dir.Path)
	}

	r.logger.Info(ctx, "Registered components directory",
		"path", dir.Path,
		"global", dir.Global,
	)

	return dir, nil
}
