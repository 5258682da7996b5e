package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conneroisu/templar-inkwell/internal/config"
)

const generatedHeader = "/* Code generated by templar-inkwell. DO NOT EDIT. */\n"

// Stylesheet names, without extension, written into the output directory.
const (
	VariablesStylesheetName = "variables"
	DarkStylesheetName      = "dark"
)

// Stylesheet is one generated file.
type Stylesheet struct {
	Name    string
	Content []byte
}

// Filename returns the stylesheet's file name for ext.
func (s Stylesheet) Filename(ext string) string {
	return s.Name + ext
}

// RenderStylesheets renders the entry stylesheet and the files it imports.
// Output is deterministic for a given theme.
func RenderStylesheets(theme Theme, ext string) []Stylesheet {
	return []Stylesheet{
		{Name: config.IndexStylesheetName, Content: renderIndex(ext)},
		{Name: VariablesStylesheetName, Content: renderVariables(theme)},
		{Name: DarkStylesheetName, Content: renderDark(theme)},
	}
}

func renderIndex(ext string) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "@import \"./%s%s\";\n", VariablesStylesheetName, ext)
	fmt.Fprintf(&b, "@import \"./%s%s\";\n", DarkStylesheetName, ext)
	return []byte(b.String())
}

func renderVariables(theme Theme) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(":root {\n")
	writeTokens(&b, theme.Prefix, "color", theme.Colors)
	writeTokens(&b, theme.Prefix, "spacing", theme.Spacing)
	writeTokens(&b, theme.Prefix, "radius", theme.Radii)
	writeTokens(&b, theme.Prefix, "font", theme.Fonts)
	b.WriteString("}\n")
	return []byte(b.String())
}

func renderDark(theme Theme) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, ":root.%s-dark,\n[data-color-mode=\"dark\"] {\n", theme.Prefix)
	writeTokens(&b, theme.Prefix, "color", theme.Dark)
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeTokens(b *strings.Builder, prefix, kind string, tokens map[string]string) {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(b, "  --%s-%s-%s: %s;\n", prefix, kind, name, strings.TrimSpace(tokens[name]))
	}
}
