package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

// DefaultPrefix namespaces the generated custom properties.
const DefaultPrefix = "ink"

// Theme is the design token file the pipelines turn into stylesheets.
type Theme struct {
	Prefix  string            `yaml:"prefix,omitempty"`
	Colors  map[string]string `yaml:"colors,omitempty"`
	Spacing map[string]string `yaml:"spacing,omitempty"`
	Radii   map[string]string `yaml:"radii,omitempty"`
	Fonts   map[string]string `yaml:"fonts,omitempty"`
	// Dark overrides colors when the dark color mode is active.
	Dark map[string]string `yaml:"dark,omitempty"`
}

// DefaultTheme returns the tokens the library ships with.
func DefaultTheme() Theme {
	return Theme{
		Prefix: DefaultPrefix,
		Colors: map[string]string{
			"primary":    "#178bb2",
			"secondary":  "#8a96a8",
			"success":    "#59b943",
			"danger":     "#e44e4e",
			"warning":    "#f8a531",
			"info":       "#17a2b8",
			"light":      "#f5f8fa",
			"dark":       "#2b3542",
			"background": "#ffffff",
			"text":       "#2b3542",
		},
		Spacing: map[string]string{
			"sm":   "0.5rem",
			"base": "1rem",
			"lg":   "1.5rem",
		},
		Radii: map[string]string{
			"sm":   "0.125rem",
			"base": "0.25rem",
			"lg":   "0.5rem",
		},
		Fonts: map[string]string{
			"base": "-apple-system, BlinkMacSystemFont, \"Segoe UI\", Roboto, sans-serif",
			"mono": "SFMono-Regular, Menlo, Monaco, Consolas, monospace",
		},
		Dark: map[string]string{
			"background": "#1a202c",
			"text":       "#f5f8fa",
		},
	}
}

// LoadTheme reads the theme at path and overlays it on DefaultTheme. A
// missing file yields the defaults.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTheme(), nil
	}
	if err != nil {
		return Theme{}, inkerrors.WrapConfig(err, inkerrors.ErrCodeConfigLoad,
			"cannot read theme file").WithFile(path)
	}

	theme, err := ParseTheme(data)
	if err != nil {
		var ie *inkerrors.InkwellError
		if errors.As(err, &ie) {
			return Theme{}, ie.WithFile(path)
		}
		return Theme{}, err
	}
	return theme, nil
}

// ParseTheme decodes YAML theme data and overlays it on DefaultTheme.
// Unknown top-level keys are rejected.
func ParseTheme(data []byte) (Theme, error) {
	var user Theme

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&user); err != nil && !errors.Is(err, io.EOF) {
		return Theme{}, inkerrors.WrapConfig(err, inkerrors.ErrCodeThemeInvalid,
			"cannot parse theme file")
	}

	theme := DefaultTheme().Merge(user)
	if err := theme.Validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// Merge returns t with every token set in other replacing its own.
func (t Theme) Merge(other Theme) Theme {
	out := Theme{
		Prefix:  t.Prefix,
		Colors:  mergeTokens(t.Colors, other.Colors),
		Spacing: mergeTokens(t.Spacing, other.Spacing),
		Radii:   mergeTokens(t.Radii, other.Radii),
		Fonts:   mergeTokens(t.Fonts, other.Fonts),
		Dark:    mergeTokens(t.Dark, other.Dark),
	}
	if other.Prefix != "" {
		out.Prefix = other.Prefix
	}
	return out
}

func mergeTokens(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

var tokenName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Validate checks that every token can be emitted as a custom property.
func (t Theme) Validate() error {
	if !tokenName.MatchString(t.Prefix) {
		return inkerrors.NewConfigError(inkerrors.ErrCodeThemeInvalid,
			fmt.Sprintf("invalid theme prefix %q", t.Prefix))
	}

	groups := []struct {
		name   string
		tokens map[string]string
	}{
		{"colors", t.Colors},
		{"spacing", t.Spacing},
		{"radii", t.Radii},
		{"fonts", t.Fonts},
		{"dark", t.Dark},
	}
	for _, g := range groups {
		for name, value := range g.tokens {
			if !tokenName.MatchString(name) {
				return inkerrors.NewConfigError(inkerrors.ErrCodeThemeInvalid,
					fmt.Sprintf("invalid %s token name %q", g.name, name))
			}
			if strings.TrimSpace(value) == "" || strings.ContainsAny(value, ";{}<>") {
				return inkerrors.NewConfigError(inkerrors.ErrCodeThemeInvalid,
					fmt.Sprintf("invalid value for %s.%s", g.name, name)).
					WithContext("value", value)
			}
		}
	}

	for name := range t.Dark {
		if _, ok := t.Colors[name]; !ok {
			return inkerrors.NewConfigError(inkerrors.ErrCodeThemeInvalid,
				fmt.Sprintf("dark override %q has no matching color", name))
		}
	}

	return nil
}
