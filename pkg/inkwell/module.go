// Package inkwell is the Templar module that wires the Inkwell component
// library into a host's build.
//
// A host installs it once per startup:
//
//	m := inkwell.New()
//	err := m.Setup(ctx, inkwell.Options{
//		Import: &inkwell.ImportOptions{Mode: inkwell.ImportModeGlobal},
//	}, h)
//
// Setup resolves the options, registers the library's stylesheets, runtime
// script and components with the host, and starts the watch pipeline in
// development or the build pipeline otherwise.
package inkwell

import (
	"context"
	"io/fs"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	"github.com/conneroisu/templar-inkwell/internal/build"
	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/host"
	"github.com/conneroisu/templar-inkwell/internal/lifecycle"
	"github.com/conneroisu/templar-inkwell/internal/logging"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
)

// Compatibility lists the host versions a module supports.
type Compatibility struct {
	Templar string
}

// ModuleMeta names and versions the module for the host.
type ModuleMeta struct {
	Name          string
	ConfigKey     string
	Version       string
	Compatibility Compatibility
}

// Meta describes this module.
var Meta = ModuleMeta{
	Name:      "inkwell",
	ConfigKey: config.ConfigKey,
	Version:   "3",
	Compatibility: Compatibility{
		Templar: ">=0.2.0",
	},
}

// CheckCompatibility fails when hostVersion is outside Meta.Compatibility.
func CheckCompatibility(hostVersion string) error {
	ok, err := host.Satisfies(hostVersion, Meta.Compatibility.Templar)
	if err != nil {
		return inkerrors.WrapConfig(err, inkerrors.ErrCodeIncompatibleHost,
			"cannot check host compatibility").WithComponent(Meta.Name)
	}
	if !ok {
		return inkerrors.NewConfigError(inkerrors.ErrCodeIncompatibleHost,
			Meta.Name+" requires Templar "+Meta.Compatibility.Templar+", got "+hostVersion).
			WithComponent(Meta.Name)
	}
	return nil
}

// Module is the setup entry point. Its collaborators are fixed at
// construction; Setup holds no state between calls.
type Module struct {
	pipeline   lifecycle.Pipeline
	resolver   registrar.PathResolver
	templates  fs.FS
	logger     logging.Logger
	awaitBuild bool
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithPipeline replaces the stylesheet pipeline.
func WithPipeline(p Pipeline) ModuleOption {
	return func(m *Module) {
		m.pipeline = p
	}
}

// WithResolver replaces how the library's install directory is found.
func WithResolver(r PathResolver) ModuleOption {
	return func(m *Module) {
		m.resolver = r
	}
}

// WithTemplates reads the runtime template from fsys instead of the bundled one.
func WithTemplates(fsys fs.FS) ModuleOption {
	return func(m *Module) {
		m.templates = fsys
	}
}

// WithLogger sets the module logger.
func WithLogger(logger logging.Logger) ModuleOption {
	return func(m *Module) {
		m.logger = logger
	}
}

// WithAwaitBuild makes Setup wait for the build pipeline and fail with it.
// By default the build runs detached and Setup returns before it finishes.
func WithAwaitBuild(await bool) ModuleOption {
	return func(m *Module) {
		m.awaitBuild = await
	}
}

// New creates the module. Without options it resolves the library through
// the go command and generates stylesheets with the theme pipeline.
func New(opts ...ModuleOption) *Module {
	m := &Module{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNopLogger()
	}
	if m.resolver == nil {
		m.resolver = registrar.NewPackagesResolver("")
	}
	if m.pipeline == nil {
		m.pipeline = build.NewPipeline(build.WithLogger(m.logger))
	}
	m.logger = m.logger.WithComponent(Meta.Name)
	return m
}

// Setup configures h from opts:
//
//  1. validate opts and merge the import toggles with their defaults
//  2. resolve the plugin options to find the output directory
//  3. register stylesheets, the transpile entry and the runtime script
//  4. register the components directory, waiting for the host
//  5. start the watch pipeline in development, the build pipeline otherwise
//
// Any failure aborts setup. Registrations made before the failure are left
// in place; the host is expected to abort its own startup.
//
// ctx also bounds the detached pipeline, so hosts should pass their
// lifetime context.
func (m *Module) Setup(ctx context.Context, opts Options, h Host) error {
	if v, ok := h.(Versioned); ok {
		if err := CheckCompatibility(v.Version()); err != nil {
			return err
		}
	}

	perf := logging.StartOperation(m.logger, "setup")

	if err := config.Validate(opts); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	resolved := config.ResolveImport(opts.Import)

	plugin := opts.PluginOptions()
	resolvedPlugin, err := config.ResolvePluginOptions(plugin)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}

	injector := assets.NewInjector(m.templates, m.logger)
	if err := injector.Inject(ctx, h, resolved, resolvedPlugin, opts.GlobalsOrEmpty()); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}

	if _, err := registrar.New(m.resolver, m.logger).Register(ctx, h, resolved); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}

	dispatcher := lifecycle.NewDispatcher(m.pipeline,
		lifecycle.WithAwaitBuild(m.awaitBuild),
		lifecycle.WithLogger(m.logger),
	)
	if err := dispatcher.Dispatch(ctx, h.Dev(), plugin); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}

	perf.End(ctx)
	return nil
}

// Install sets the module up on a file-backed host after the host's own
// compatibility check.
func (m *Module) Install(ctx context.Context, h *host.Host, opts Options) error {
	return h.InstallModule(ctx, Meta.Name, Meta.Compatibility.Templar, func(ctx context.Context) error {
		return m.Setup(ctx, opts, h)
	})
}
