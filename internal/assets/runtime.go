package assets

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"text/template"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

const (
	// RuntimeTemplatePath is the runtime script template inside the template FS.
	RuntimeTemplatePath = "templates/inkwell.mjs.tmpl"
	// RuntimeFilename is the name of the generated runtime script.
	RuntimeFilename = "inkwell.mjs"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates returns the filesystem holding the bundled runtime template.
func Templates() fs.FS {
	return templateFS
}

// RuntimeTemplate is a parsed runtime script template. It renders with a
// single parameter, "options", holding the runtime globals.
type RuntimeTemplate struct {
	tmpl *template.Template
}

// LoadRuntimeTemplate reads and parses the runtime template from fsys.
func LoadRuntimeTemplate(fsys fs.FS) (*RuntimeTemplate, error) {
	source, err := fs.ReadFile(fsys, RuntimeTemplatePath)
	if err != nil {
		return nil, inkerrors.WrapAsset(err, inkerrors.ErrCodeTemplateRead,
			"cannot read runtime template", RuntimeTemplatePath)
	}

	tmpl, err := template.New(RuntimeFilename).
		Funcs(template.FuncMap{"json": toJSON}).
		Option("missingkey=error").
		Parse(string(source))
	if err != nil {
		return nil, inkerrors.WrapAsset(err, inkerrors.ErrCodeTemplateRender,
			"cannot parse runtime template", RuntimeTemplatePath)
	}

	return &RuntimeTemplate{tmpl: tmpl}, nil
}

// Render executes the template with options as its only parameter.
func (r *RuntimeTemplate) Render(options map[string]interface{}) (string, error) {
	if options == nil {
		options = map[string]interface{}{}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, map[string]interface{}{"options": options}); err != nil {
		return "", inkerrors.WrapAsset(err, inkerrors.ErrCodeTemplateRender,
			"cannot render runtime template", RuntimeTemplatePath)
	}

	return buf.String(), nil
}

func toJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
