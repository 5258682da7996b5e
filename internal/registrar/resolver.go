package registrar

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// PathResolver locates the filesystem directory of an installed package.
type PathResolver interface {
	Resolve(ctx context.Context, importPath string) (string, error)
}

// PackagesResolver resolves import paths the way the go command does, from
// the module graph of the project in Dir.
type PackagesResolver struct {
	// Dir is the directory the lookup runs in. Empty means the current
	// working directory.
	Dir string
	// Env overrides the environment of the underlying go command.
	Env []string
}

// NewPackagesResolver creates a resolver rooted at dir.
func NewPackagesResolver(dir string) *PackagesResolver {
	return &PackagesResolver{Dir: dir}
}

// Resolve returns the directory holding importPath's sources.
func (r *PackagesResolver) Resolve(ctx context.Context, importPath string) (string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedModule,
		Dir:     r.Dir,
		Env:     r.Env,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return "", fmt.Errorf("package %s not found", importPath)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return "", fmt.Errorf("package %s: %s", importPath, pkg.Errors[0].Msg)
	}

	switch {
	case len(pkg.GoFiles) > 0:
		return filepath.Dir(pkg.GoFiles[0]), nil
	case pkg.Module != nil && pkg.Module.Dir != "":
		return pkg.Module.Dir, nil
	default:
		return "", fmt.Errorf("package %s has no files on disk", importPath)
	}
}

// ErrNotInstalled is returned by StaticResolver for unknown import paths.
var ErrNotInstalled = errors.New("package not installed")

// StaticResolver maps import paths to fixed directories. Hosts that vendor
// the library, and tests, use it instead of querying the go command.
type StaticResolver map[string]string

// Resolve implements PathResolver.
func (s StaticResolver) Resolve(_ context.Context, importPath string) (string, error) {
	dir, ok := s[importPath]
	if !ok || dir == "" {
		return "", fmt.Errorf("%s: %w", importPath, ErrNotInstalled)
	}
	return dir, nil
}
