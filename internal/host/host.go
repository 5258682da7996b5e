// Package host is a file-backed Templar host. It holds the option state
// modules mutate during setup, writes the plugin templates they register
// and scans the component directories they add.
package host

import (
	"path/filepath"
	"sync"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	"github.com/conneroisu/templar-inkwell/internal/logging"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
	"github.com/conneroisu/templar-inkwell/internal/version"
)

// DefaultBuildDir is where written plugin templates go.
const DefaultBuildDir = ".templar/inkwell"

// Component is a component discovered in a registered directory.
type Component struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Global bool   `yaml:"global"`
}

// State is the host option state modules mutate.
type State struct {
	Styles        *assets.StyleList
	Transpile     []string
	Templates     []assets.PluginTemplate
	ComponentDirs []registrar.ComponentsDir
	Components    []Component
}

// Host is a Templar host backed by the local file system.
type Host struct {
	mu       sync.RWMutex
	state    State
	dev      bool
	version  string
	buildDir string
	assetURL func(ref string) string
	logger   logging.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithDev sets the run mode reported to modules.
func WithDev(dev bool) Option {
	return func(h *Host) {
		h.dev = dev
	}
}

// WithVersion overrides the host version modules check compatibility against.
func WithVersion(v string) Option {
	return func(h *Host) {
		h.version = v
	}
}

// WithBuildDir sets where written plugin templates go.
func WithBuildDir(dir string) Option {
	return func(h *Host) {
		h.buildDir = filepath.Clean(dir)
	}
}

// WithStyles seeds the stylesheet list with the project's own entries.
func WithStyles(refs ...string) Option {
	return func(h *Host) {
		h.state.Styles = assets.NewStyleList(refs...)
	}
}

// WithAssetURL sets how stylesheet references become URLs in Head.
func WithAssetURL(fn func(ref string) string) Option {
	return func(h *Host) {
		if fn != nil {
			h.assetURL = fn
		}
	}
}

// WithLogger sets the host logger.
func WithLogger(logger logging.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a host in build mode with an empty option state.
func New(opts ...Option) *Host {
	h := &Host{
		state:    State{Styles: assets.NewStyleList()},
		version:  version.HostAPIVersion,
		buildDir: DefaultBuildDir,
		assetURL: DefaultAssetURL,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("host")
	return h
}

// Styles returns the stylesheet list. Modules mutate it in place.
func (h *Host) Styles() *assets.StyleList {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Styles
}

// AddTranspile adds pkg to the transpile list once.
func (h *Host) AddTranspile(pkg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.state.Transpile {
		if existing == pkg {
			return
		}
	}
	h.state.Transpile = append(h.state.Transpile, pkg)
}

// Dev reports whether the host runs in development mode.
func (h *Host) Dev() bool {
	return h.dev
}

// Version returns the host version.
func (h *Host) Version() string {
	return h.version
}

// BuildDir returns where written plugin templates go.
func (h *Host) BuildDir() string {
	return h.buildDir
}

// State returns a copy of the option state.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return State{
		Styles:        assets.NewStyleList(h.state.Styles.Items()...),
		Transpile:     append([]string(nil), h.state.Transpile...),
		Templates:     append([]assets.PluginTemplate(nil), h.state.Templates...),
		ComponentDirs: append([]registrar.ComponentsDir(nil), h.state.ComponentDirs...),
		Components:    append([]Component(nil), h.state.Components...),
	}
}
