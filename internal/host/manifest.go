package host

import (
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	"github.com/conneroisu/templar-inkwell/internal/fsutil"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
)

// Manifest is the on-disk record of the option state after setup.
type Manifest struct {
	HostVersion   string                    `yaml:"host_version"`
	Dev           bool                      `yaml:"dev"`
	Styles        []string                  `yaml:"styles"`
	Transpile     []string                  `yaml:"transpile"`
	Templates     []ManifestTemplate        `yaml:"templates,omitempty"`
	ComponentDirs []registrar.ComponentsDir `yaml:"component_dirs,omitempty"`
	Components    []Component               `yaml:"components,omitempty"`
}

// ManifestTemplate records a registered plugin template.
type ManifestTemplate struct {
	Filename string              `yaml:"filename"`
	Mode     assets.TemplateMode `yaml:"mode"`
	Write    bool                `yaml:"write"`
	Path     string              `yaml:"path,omitempty"`
}

// Manifest returns the current option state as a manifest.
func (h *Host) Manifest() Manifest {
	state := h.State()

	m := Manifest{
		HostVersion:   h.version,
		Dev:           h.dev,
		Styles:        state.Styles.Items(),
		Transpile:     state.Transpile,
		ComponentDirs: state.ComponentDirs,
		Components:    state.Components,
	}
	for _, tmpl := range state.Templates {
		mt := ManifestTemplate{Filename: tmpl.Filename, Mode: tmpl.Mode, Write: tmpl.Write}
		if tmpl.Write {
			mt.Path = h.TemplatePath(tmpl.Filename)
		}
		m.Templates = append(m.Templates, mt)
	}
	return m
}

// WriteManifest writes the manifest as YAML to path.
func (h *Host) WriteManifest(path string) error {
	data, err := yaml.Marshal(h.Manifest())
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data)
}
