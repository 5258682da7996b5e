// Package assets decides which stylesheets, transpile entries and runtime
// scripts the Inkwell module registers with its host, and in what order.
package assets

import (
	"context"
	"io/fs"

	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/library"
	"github.com/conneroisu/templar-inkwell/internal/logging"
)

// TemplateMode selects the rendering targets a plugin template loads for.
type TemplateMode string

const (
	ModeAll    TemplateMode = "all"
	ModeServer TemplateMode = "server"
	ModeClient TemplateMode = "client"
)

// PluginTemplate asks the host to generate a file as part of its build.
type PluginTemplate struct {
	// Filename is the generated file's name.
	Filename string
	// Mode lists the targets that load the generated file.
	Mode TemplateMode
	// Write asks the host to write the file to disk.
	Write bool
	// Options is passed to GetContents.
	Options map[string]interface{}
	// GetContents renders the file.
	GetContents func(options map[string]interface{}) (string, error)
}

// Target is the part of the host option state the injector mutates.
type Target interface {
	Styles() *StyleList
	AddTranspile(pkg string)
	AddPluginTemplate(tmpl PluginTemplate) error
}

// Injector registers stylesheets and the runtime script with a host.
type Injector struct {
	templates fs.FS
	logger    logging.Logger
}

// NewInjector creates an injector reading the runtime template from
// templates. A nil templates uses the bundled template.
func NewInjector(templates fs.FS, logger logging.Logger) *Injector {
	if templates == nil {
		templates = Templates()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Injector{
		templates: templates,
		logger:    logger.WithComponent("assets"),
	}
}

// Inject mutates target according to the resolved import toggles. plugin
// must already be resolved; its output directory names the generated
// stylesheet. globals becomes the runtime template's options.
//
// With styles enabled the stylesheet list ends up as
//
//	[library base, generated index, ...existing, library utilities]
//
// with the utilities entry present only when utilities are enabled too.
func (i *Injector) Inject(
	ctx context.Context,
	target Target,
	resolved config.ResolvedImportOptions,
	plugin config.PluginOptions,
	globals map[string]interface{},
) error {
	if resolved.Styles {
		styles := target.Styles()
		styles.Prepend(library.BaseStylesheet, plugin.IndexStylesheet())
		if resolved.Utilities {
			styles.Append(library.UtilitiesStylesheet)
		}
		i.logger.Debug(ctx, "Registered stylesheets",
			"utilities", resolved.Utilities,
			"count", styles.Len(),
		)
	}

	target.AddTranspile(library.Package)

	if !resolved.Scripts {
		return nil
	}

	runtime, err := LoadRuntimeTemplate(i.templates)
	if err != nil {
		return err
	}

	if globals == nil {
		globals = map[string]interface{}{}
	}

	tmpl := PluginTemplate{
		Filename:    RuntimeFilename,
		Mode:        ModeAll,
		Write:       true,
		Options:     globals,
		GetContents: runtime.Render,
	}
	if err := target.AddPluginTemplate(tmpl); err != nil {
		return inkerrors.WrapAsset(err, inkerrors.ErrCodeTemplateRegister,
			"host rejected runtime template", RuntimeFilename)
	}

	i.logger.Debug(ctx, "Registered runtime template", "filename", RuntimeFilename)

	return nil
}
