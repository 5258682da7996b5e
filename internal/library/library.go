// Package library names the Inkwell component library artifacts the module
// wires into a host: its import path, its stylesheets and the layout of its
// installed sources.
package library

const (
	// Package is the import path of the component library.
	Package = "github.com/conneroisu/inkwell"

	// BaseStylesheet holds the library's own base styles. It must load
	// before the project's generated stylesheet.
	BaseStylesheet = Package + "/css/index.css"

	// UtilitiesStylesheet holds the utility classes. It loads last.
	UtilitiesStylesheet = Package + "/css/utilities.css"

	// ComponentsDir is the directory, relative to the installed library,
	// that holds the templ components.
	ComponentsDir = "components"

	// ComponentPattern selects component sources inside ComponentsDir.
	ComponentPattern = "**/*.templ"

	// ExamplesPattern excludes the example components shipped with the library.
	ExamplesPattern = "**/examples/*.templ"
)
