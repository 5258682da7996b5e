package host

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/templar-inkwell/internal/registrar"
)

// AddComponentsDir registers dir and scans it for components. Files are
// selected by dir.Pattern and dropped when any dir.Ignore pattern matches.
// Patterns are matched against the slash-separated path relative to
// dir.Path with a leading slash, so "**/*.templ" also matches files at the
// top of the directory.
func (h *Host) AddComponentsDir(ctx context.Context, dir registrar.ComponentsDir) error {
	info, err := os.Stat(dir.Path)
	if err != nil {
		return fmt.Errorf("components directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("components directory %s is not a directory", dir.Path)
	}

	components, err := ScanComponents(ctx, dir)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.state.ComponentDirs = append(h.state.ComponentDirs, dir)
	h.state.Components = mergeComponents(h.state.Components, components)
	if dir.Transpile {
		h.addTranspileLocked(dir.Path)
	}

	h.logger.Debug(ctx, "Registered components directory",
		"path", dir.Path,
		"components", len(components),
		"global", dir.Global,
	)
	return nil
}

func (h *Host) addTranspileLocked(entry string) {
	for _, existing := range h.state.Transpile {
		if existing == entry {
			return
		}
	}
	h.state.Transpile = append(h.state.Transpile, entry)
}

// ScanComponents lists the components dir selects, sorted by name.
func ScanComponents(ctx context.Context, dir registrar.ComponentsDir) ([]Component, error) {
	pattern := dir.Pattern
	if pattern == "" {
		pattern = "**/*.templ"
	}
	include, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid component pattern %q: %w", pattern, err)
	}

	ignores := make([]glob.Glob, 0, len(dir.Ignore))
	for _, p := range dir.Ignore {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		ignores = append(ignores, g)
	}

	var components []Component
	err = filepath.WalkDir(dir.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir.Path, path)
		if err != nil {
			return err
		}
		match := "/" + filepath.ToSlash(rel)
		if !include.Match(match) {
			return nil
		}
		for _, g := range ignores {
			if g.Match(match) {
				return nil
			}
		}

		components = append(components, Component{
			Name:   ComponentName(rel, dir.PathPrefix),
			Path:   path,
			Global: dir.Global,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(components, func(i, j int) bool {
		if components[i].Name != components[j].Name {
			return components[i].Name < components[j].Name
		}
		return components[i].Path < components[j].Path
	})
	return components, nil
}

// ComponentName derives the import name of the component file at rel.
// Without pathPrefix only the file name counts: "forms/text-input.templ"
// becomes "TextInput". With it, directories are prefixed: "FormsTextInput".
func ComponentName(rel string, pathPrefix bool) string {
	rel = filepath.ToSlash(rel)
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	parts := []string{base}
	if pathPrefix {
		if dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." {
			parts = append(strings.Split(dir, "/"), base)
		}
	}

	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range parts {
		for _, word := range strings.FieldsFunc(part, isNameSeparator) {
			b.WriteString(caser.String(word))
		}
	}
	return b.String()
}

func isNameSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || r == ' '
}

// mergeComponents adds added to existing. A later component with the same
// name replaces the earlier one, the way later component directories take
// priority in the host's auto-import.
func mergeComponents(existing, added []Component) []Component {
	index := make(map[string]int, len(existing))
	out := append([]Component(nil), existing...)
	for i, c := range out {
		index[c.Name] = i
	}
	for _, c := range added {
		if i, ok := index[c.Name]; ok {
			out[i] = c
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}
