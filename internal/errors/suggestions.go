package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// suggestionsByCode holds the fixes offered for each error code.
var suggestionsByCode = map[string][]ErrorSuggestion{
	ErrCodeLibraryNotFound: {
		{
			Title:       "Add the component library to your module",
			Description: "The library must be resolvable from the project's go.mod",
			Command:     "go get github.com/conneroisu/inkwell@latest",
		},
		{
			Title:       "Point setup at a local checkout",
			Description: "Use a checkout instead of the module cache",
			Command:     "templar-inkwell setup --library-dir ../inkwell",
		},
	},
	ErrCodeComponentsDir: {
		{
			Title:       "Check the library installation",
			Description: "The installed library has no readable components directory",
			Command:     "go mod verify",
		},
	},
	ErrCodeIncompatibleHost: {
		{
			Title:       "Upgrade the host",
			Description: "The module declares the host versions it supports",
			Command:     "templar-inkwell version",
		},
	},
	ErrCodeThemeInvalid: {
		{
			Title:       "Fix the theme file",
			Description: "Token names are lower-case words separated by dashes; values may not contain ; { } < or >",
			Example:     "colors:\n       primary: \"#178bb2\"",
		},
	},
	ErrCodePathTraversal: {
		{
			Title:       "Use paths inside the project",
			Description: "Configured paths may not contain '..' segments",
			Example:     "output_dir: web/css",
		},
	},
	ErrCodeInvalidPath: {
		{
			Title:       "Check the configured paths",
			Description: "Paths must be non-empty and free of shell metacharacters",
		},
	},
	ErrCodeConfigInvalid: {
		{
			Title:       "Check the inkwell section of your configuration",
			Description: "import.mode is either auto or global; ext_name starts with a dot",
			Example:     "inkwell:\n       import:\n         mode: global\n       ext_name: .css",
		},
	},
	ErrCodeStylesheetWrite: {
		{
			Title:       "Check the output directory",
			Description: "Generated stylesheets could not be written; the directory must be writable",
		},
	},
	ErrCodeTemplateRead: {
		{
			Title:       "Reinstall templar-inkwell",
			Description: "The bundled runtime template is missing from the binary or template directory",
		},
	},
}

// Suggest returns fixes for the first coded error in err's chain.
func Suggest(err error) []ErrorSuggestion {
	for err != nil {
		var ie *InkwellError
		if !errors.As(err, &ie) {
			return nil
		}
		if s, ok := suggestionsByCode[ie.Code]; ok {
			return s
		}
		err = ie.Cause
	}
	return nil
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// Enhance attaches the suggestions for err. Errors without suggestions are
// returned unchanged.
func Enhance(err error) error {
	if err == nil {
		return nil
	}
	suggestions := Suggest(err)
	if len(suggestions) == 0 {
		return err
	}
	return &EnhancedError{
		OriginalError: err,
		Title:         err.Error(),
		Suggestions:   suggestions,
	}
}
