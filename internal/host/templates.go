package host

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/fsutil"
)

// AddPluginTemplate registers tmpl. Its contents are rendered immediately
// and, when tmpl.Write is set, written into the build directory. Filenames
// are unique per host.
func (h *Host) AddPluginTemplate(tmpl assets.PluginTemplate) error {
	if err := validateFilename(tmpl.Filename); err != nil {
		return err
	}
	if tmpl.GetContents == nil {
		return fmt.Errorf("plugin template %s has no contents", tmpl.Filename)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.state.Templates {
		if existing.Filename == tmpl.Filename {
			return fmt.Errorf("plugin template %s already registered", tmpl.Filename)
		}
	}

	contents, err := tmpl.GetContents(tmpl.Options)
	if err != nil {
		return err
	}

	if tmpl.Write {
		path := filepath.Join(h.buildDir, tmpl.Filename)
		if _, err := fsutil.WriteIfChanged(path, []byte(contents)); err != nil {
			return inkerrors.WrapAsset(err, inkerrors.ErrCodeTemplateRegister,
				"cannot write plugin template", path)
		}
	}

	h.state.Templates = append(h.state.Templates, tmpl)
	return nil
}

func validateFilename(name string) error {
	if name == "" {
		return inkerrors.ErrInvalidPath("plugin template filename", name)
	}
	if filepath.IsAbs(name) {
		return inkerrors.ErrInvalidPath("plugin template filename", name)
	}
	for _, segment := range strings.Split(filepath.ToSlash(name), "/") {
		if segment == ".." {
			return inkerrors.ErrPathTraversal("plugin template filename", name)
		}
	}
	return nil
}

// TemplatePath returns where a written template named filename lives.
func (h *Host) TemplatePath(filename string) string {
	return filepath.Join(h.buildDir, filename)
}
