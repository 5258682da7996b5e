package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pluginOptions(dir string) config.PluginOptions {
	return config.PluginOptions{
		ConfigFile: filepath.Join(dir, "inkwell.config.yml"),
		OutputDir:  filepath.Join(dir, ".inkwell", "css"),
		ExtName:    ".css",
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuildWritesStylesheets(t *testing.T) {
	dir := t.TempDir()
	opts := pluginOptions(dir)
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte("colors:\n  primary: \"#123456\"\n"), 0o644))

	p := NewPipeline()
	result, err := p.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Written)
	assert.Equal(t, 0, result.Unchanged)
	assert.False(t, result.CacheHit())

	assert.Contains(t, readFile(t, filepath.Join(opts.OutputDir, "index.css")), `@import "./variables.css";`)
	assert.Contains(t, readFile(t, filepath.Join(opts.OutputDir, "variables.css")), "--ink-color-primary: #123456;")
	assert.Contains(t, readFile(t, filepath.Join(opts.OutputDir, "dark.css")), "--ink-color-background: #1a202c;")
}

func TestBuildSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	opts := pluginOptions(dir)

	p := NewPipeline()
	require.NoError(t, p.Build(context.Background(), opts))

	result, err := p.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Written)
	assert.Equal(t, 3, result.Unchanged)
	assert.True(t, result.CacheHit())

	snapshot := p.Metrics().GetSnapshot()
	assert.Equal(t, int64(2), snapshot.TotalBuilds)
	assert.Equal(t, int64(2), snapshot.SuccessfulBuilds)
	assert.Equal(t, int64(1), snapshot.CacheHits)
	assert.InDelta(t, 50.0, p.Metrics().GetCacheHitRate(), 0.001)
}

func TestBuildDefaultsOutputDir(t *testing.T) {
	dir := t.TempDir()
	opts := config.PluginOptions{ConfigFile: filepath.Join(dir, "theme", "inkwell.config.yml")}

	require.NoError(t, NewPipeline().Build(context.Background(), opts))

	_, err := os.Stat(filepath.Join(dir, "theme", ".inkwell", "css", "index.css"))
	assert.NoError(t, err)
}

func TestBuildInvalidTheme(t *testing.T) {
	dir := t.TempDir()
	opts := pluginOptions(dir)
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte("colors:\n  primary: \"red;}\"\n"), 0o644))

	p := NewPipeline()
	err := p.Build(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeConfig))

	_, statErr := os.Stat(opts.OutputDir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
	assert.Equal(t, int64(1), p.Metrics().GetSnapshot().FailedBuilds)
}

func TestBuildUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	opts := pluginOptions(dir)
	// A file where the output directory should be.
	require.NoError(t, os.MkdirAll(filepath.Dir(opts.OutputDir), 0o755))
	require.NoError(t, os.WriteFile(opts.OutputDir, []byte("not a dir"), 0o644))

	err := NewPipeline().Build(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeAsset))
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPipeline().Build(ctx, pluginOptions(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchRebuildsOnThemeChange(t *testing.T) {
	dir := t.TempDir()
	opts := pluginOptions(dir)
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte("colors:\n  primary: \"#111111\"\n"), 0o644))

	p := NewPipeline(WithDebounce(20 * time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- p.Watch(ctx, opts) }()

	variables := filepath.Join(opts.OutputDir, "variables.css")
	waitForContent(t, variables, "#111111")

	// Give the watcher time to register before changing the theme.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(opts.ConfigFile, []byte("colors:\n  primary: \"#222222\"\n"), 0o644))
	waitForContent(t, variables, "#222222")

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingThemeDir(t *testing.T) {
	opts := pluginOptions(filepath.Join(t.TempDir(), "missing"))
	opts.OutputDir = filepath.Join(t.TempDir(), "out")

	err := NewPipeline().Watch(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeDownstream))
}

func waitForContent(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s never contained %q", path, want)
}
