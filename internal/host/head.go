package host

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/templar-inkwell/internal/assets"
)

// AssetsPrefix is the URL prefix the host serves module assets under.
const AssetsPrefix = "/_templar/"

// DefaultAssetURL maps a stylesheet reference to a URL. Absolute URLs and
// rooted paths pass through; anything else is served under AssetsPrefix.
func DefaultAssetURL(ref string) string {
	if strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return ref
	}
	return AssetsPrefix + strings.TrimPrefix(path.Clean(filepath.ToSlash(ref)), "./")
}

// Head renders the stylesheet links, in load order, followed by a module
// script for every written template that loads on the client.
func (h *Host) Head() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := h.State()

		for _, ref := range state.Styles.Items() {
			if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n",
				templ.EscapeString(h.assetURL(ref))); err != nil {
				return err
			}
		}

		for _, tmpl := range state.Templates {
			if !tmpl.Write || tmpl.Mode == assets.ModeServer || !isScript(tmpl.Filename) {
				continue
			}
			src := AssetsPrefix + path.Join("build", filepath.ToSlash(tmpl.Filename))
			if _, err := fmt.Fprintf(w, "<script type=\"module\" src=\"%s\"></script>\n",
				templ.EscapeString(src)); err != nil {
				return err
			}
		}
		return nil
	})
}

func isScript(name string) bool {
	switch path.Ext(name) {
	case ".js", ".mjs":
		return true
	}
	return false
}
