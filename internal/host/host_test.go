package host

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/templar-inkwell/internal/assets"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/registrar"
	"github.com/conneroisu/templar-inkwell/internal/version"
)

func staticTemplate(filename, contents string, write bool) assets.PluginTemplate {
	return assets.PluginTemplate{
		Filename: filename,
		Mode:     assets.ModeAll,
		Write:    write,
		Options:  map[string]interface{}{},
		GetContents: func(map[string]interface{}) (string, error) {
			return contents, nil
		},
	}
}

func TestNewDefaults(t *testing.T) {
	h := New()

	assert.False(t, h.Dev())
	assert.Equal(t, version.HostAPIVersion, h.Version())
	assert.Equal(t, DefaultBuildDir, h.BuildDir())
	assert.Zero(t, h.Styles().Len())
}

func TestAddTranspileDeduplicates(t *testing.T) {
	h := New()
	h.AddTranspile("github.com/conneroisu/inkwell")
	h.AddTranspile("github.com/conneroisu/inkwell")
	h.AddTranspile("example.com/other")

	assert.Equal(t, []string{"github.com/conneroisu/inkwell", "example.com/other"}, h.State().Transpile)
}

func TestStateIsCopy(t *testing.T) {
	h := New(WithStyles("app.css"))

	state := h.State()
	state.Styles.Append("mutated.css")

	assert.Equal(t, []string{"app.css"}, h.Styles().Items())
}

func TestAddPluginTemplate(t *testing.T) {
	buildDir := t.TempDir()
	h := New(WithBuildDir(buildDir))

	require.NoError(t, h.AddPluginTemplate(staticTemplate("inkwell.mjs", "export default {};", true)))

	data, err := os.ReadFile(filepath.Join(buildDir, "inkwell.mjs"))
	require.NoError(t, err)
	assert.Equal(t, "export default {};", string(data))
	assert.Len(t, h.State().Templates, 1)

	err = h.AddPluginTemplate(staticTemplate("inkwell.mjs", "again", true))
	assert.ErrorContains(t, err, "already registered")
}

func TestAddPluginTemplateInMemory(t *testing.T) {
	buildDir := t.TempDir()
	h := New(WithBuildDir(buildDir))

	require.NoError(t, h.AddPluginTemplate(staticTemplate("types.d.ts", "export {};", false)))

	_, err := os.Stat(filepath.Join(buildDir, "types.d.ts"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAddPluginTemplateRejects(t *testing.T) {
	h := New(WithBuildDir(t.TempDir()))

	err := h.AddPluginTemplate(staticTemplate("../escape.mjs", "", true))
	assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeConfig))

	err = h.AddPluginTemplate(staticTemplate("", "", true))
	assert.Error(t, err)

	renderErr := errors.New("render failed")
	failing := staticTemplate("broken.mjs", "", true)
	failing.GetContents = func(map[string]interface{}) (string, error) { return "", renderErr }
	assert.ErrorIs(t, h.AddPluginTemplate(failing), renderErr)

	assert.Empty(t, h.State().Templates)
}

func writeComponentTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "components")
	files := []string{
		"button.templ",
		"forms/text-input.templ",
		"forms/examples/demo.templ",
		"layout/card_header.templ",
		"README.md",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("package components\n"), 0o644))
	}
	return root
}

func componentNames(components []Component) []string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}
	return names
}

func TestAddComponentsDir(t *testing.T) {
	root := writeComponentTree(t)

	tests := []struct {
		name       string
		pathPrefix bool
		want       []string
	}{
		{name: "file names only", want: []string{"Button", "CardHeader", "TextInput"}},
		{name: "path prefix", pathPrefix: true, want: []string{"Button", "FormsTextInput", "LayoutCardHeader"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			dir := registrar.ComponentsDir{
				Path:       root,
				PathPrefix: tt.pathPrefix,
				Pattern:    "**/*.templ",
				Ignore:     []string{"**/examples/*.templ"},
				Transpile:  true,
				Global:     true,
			}

			require.NoError(t, h.AddComponentsDir(context.Background(), dir))

			state := h.State()
			if diff := cmp.Diff(tt.want, componentNames(state.Components)); diff != "" {
				t.Errorf("components mismatch (-want +got):\n%s", diff)
			}
			for _, c := range state.Components {
				assert.True(t, c.Global)
				assert.True(t, strings.HasPrefix(c.Path, root))
			}
			assert.Equal(t, []registrar.ComponentsDir{dir}, state.ComponentDirs)
			assert.Contains(t, state.Transpile, root)
		})
	}
}

func TestAddComponentsDirErrors(t *testing.T) {
	h := New()

	err := h.AddComponentsDir(context.Background(), registrar.ComponentsDir{Path: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.templ")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	err = h.AddComponentsDir(context.Background(), registrar.ComponentsDir{Path: file})
	assert.ErrorContains(t, err, "not a directory")

	assert.Empty(t, h.State().ComponentDirs)
}

func TestLaterComponentsDirWins(t *testing.T) {
	first := writeComponentTree(t)
	second := filepath.Join(t.TempDir(), "overrides")
	require.NoError(t, os.MkdirAll(second, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(second, "button.templ"), nil, 0o644))

	h := New()
	require.NoError(t, h.AddComponentsDir(context.Background(), registrar.ComponentsDir{Path: first}))
	require.NoError(t, h.AddComponentsDir(context.Background(), registrar.ComponentsDir{Path: second}))

	for _, c := range h.State().Components {
		if c.Name == "Button" {
			assert.Equal(t, filepath.Join(second, "button.templ"), c.Path)
		}
	}
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		rel        string
		pathPrefix bool
		want       string
	}{
		{"button.templ", false, "Button"},
		{"text-input.templ", false, "TextInput"},
		{"forms/text-input.templ", false, "TextInput"},
		{"forms/text-input.templ", true, "FormsTextInput"},
		{"data/table_row.templ", true, "DataTableRow"},
		{"iconButton.templ", false, "IconButton"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ComponentName(tt.rel, tt.pathPrefix))
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
		wantErr    bool
	}{
		{"0.3.0", ">=0.2.0", true, false},
		{"0.1.9", ">=0.2.0", false, false},
		{"v0.2.0", ">=0.2.0", true, false},
		{"0.3.0", ">=0.2.0, <1.0.0", true, false},
		{"1.0.0", ">=0.2.0 <1.0.0", false, false},
		{"1.2.0", "^1.0.0", true, false},
		{"2.0.0", "^1.0.0", false, false},
		{"0.3.0", "", true, false},
		{"dev", ">=0.2.0", false, true},
		{"0.3.0", ">=banana", false, true},
		{"0.3.0", "~0.3.0", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.version+" "+tt.constraint, func(t *testing.T) {
			got, err := Satisfies(tt.version, tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstallModule(t *testing.T) {
	t.Run("compatible", func(t *testing.T) {
		called := false
		err := New(WithVersion("0.3.0")).InstallModule(context.Background(), "inkwell", ">=0.2.0",
			func(context.Context) error {
				called = true
				return nil
			})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("incompatible host skips setup", func(t *testing.T) {
		called := false
		err := New(WithVersion("0.1.0")).InstallModule(context.Background(), "inkwell", ">=0.2.0",
			func(context.Context) error {
				called = true
				return nil
			})
		require.Error(t, err)
		assert.False(t, called)

		var ie *inkerrors.InkwellError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, inkerrors.ErrCodeIncompatibleHost, ie.Code)
		assert.Equal(t, "inkwell", ie.Component)
	})

	t.Run("setup error propagates", func(t *testing.T) {
		setupErr := errors.New("setup failed")
		err := New().InstallModule(context.Background(), "inkwell", ">=0.2.0",
			func(context.Context) error { return setupErr })
		assert.ErrorIs(t, err, setupErr)
	})
}

func TestHead(t *testing.T) {
	h := New(
		WithBuildDir(t.TempDir()),
		WithStyles("styles/app.css", "https://cdn.example.com/reset.css"),
	)
	h.Styles().Prepend("github.com/conneroisu/inkwell/css/index.css")
	require.NoError(t, h.AddPluginTemplate(staticTemplate("inkwell.mjs", "export default {};", true)))

	server := staticTemplate("server.mjs", "", true)
	server.Mode = assets.ModeServer
	require.NoError(t, h.AddPluginTemplate(server))

	var buf bytes.Buffer
	require.NoError(t, h.Head().Render(context.Background(), &buf))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	var links, scripts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				switch {
				case n.Data == "link" && a.Key == "href":
					links = append(links, a.Val)
				case n.Data == "script" && a.Key == "src":
					scripts = append(scripts, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	wantLinks := []string{
		"/_templar/github.com/conneroisu/inkwell/css/index.css",
		"/_templar/styles/app.css",
		"https://cdn.example.com/reset.css",
	}
	if diff := cmp.Diff(wantLinks, links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"/_templar/build/inkwell.mjs"}, scripts)
}

func TestHeadEscapesURLs(t *testing.T) {
	h := New(WithStyles(`/x.css"><script>alert(1)</script>`))

	var buf bytes.Buffer
	require.NoError(t, h.Head().Render(context.Background(), &buf))

	assert.NotContains(t, buf.String(), "<script>")
}

func TestWriteManifest(t *testing.T) {
	buildDir := t.TempDir()
	h := New(WithBuildDir(buildDir), WithDev(true), WithStyles("app.css"))
	h.AddTranspile("github.com/conneroisu/inkwell")
	require.NoError(t, h.AddPluginTemplate(staticTemplate("inkwell.mjs", "", true)))

	path := filepath.Join(t.TempDir(), "manifest.yml")
	require.NoError(t, h.WriteManifest(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.True(t, got.Dev)
	assert.Equal(t, []string{"app.css"}, got.Styles)
	assert.Equal(t, []string{"github.com/conneroisu/inkwell"}, got.Transpile)
	require.Len(t, got.Templates, 1)
	assert.Equal(t, filepath.Join(buildDir, "inkwell.mjs"), got.Templates[0].Path)
}
