package inkwell

import (
	"context"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	"github.com/conneroisu/templar-inkwell/internal/config"
	"github.com/conneroisu/templar-inkwell/internal/lifecycle"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
)

// Types a host implementation needs to satisfy Host.
type (
	StyleList      = assets.StyleList
	PluginTemplate = assets.PluginTemplate
	TemplateMode   = assets.TemplateMode
	ComponentsDir  = registrar.ComponentsDir
)

// Option and pipeline types.
type (
	Options       = config.Options
	ImportOptions = config.ImportOptions
	ImportMode    = config.ImportMode
	PluginOptions = config.PluginOptions
	Pipeline      = lifecycle.Pipeline
	PathResolver  = registrar.PathResolver
)

const (
	ImportModeAuto   = config.ImportModeAuto
	ImportModeGlobal = config.ImportModeGlobal
)

// Host is the part of a Templar host the module configures. Setup only
// appends to its state and never reads registrations back.
type Host interface {
	// Styles returns the host's ordered stylesheet list for in-place mutation.
	Styles() *StyleList
	// AddTranspile asks the host to compile pkg with the project.
	AddTranspile(pkg string)
	// Dev reports whether the host runs in development mode.
	Dev() bool
	// AddPluginTemplate registers a generated file.
	AddPluginTemplate(tmpl PluginTemplate) error
	// AddComponentsDir registers a directory for component auto-import. It
	// returns once the host's component registry includes the directory.
	AddComponentsDir(ctx context.Context, dir ComponentsDir) error
}

// Versioned is implemented by hosts that report their version. Setup checks
// Meta.Compatibility against it.
type Versioned interface {
	Version() string
}

// Bool returns a pointer to b, for ImportOptions literals.
func Bool(b bool) *bool {
	return config.Bool(b)
}
