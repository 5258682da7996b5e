package lifecycle

import (
	"context"
	"errors"
	"sync"
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

var pluginOpts = config.PluginOptions{
	ConfigFile: "inkwell.config.yml",
	OutputDir:  ".inkwell/css",
	ExtName:    ".css",
}

// fakePipeline records calls. Watch blocks until ctx is done, Build blocks
// until release is closed.
type fakePipeline struct {
	mu       sync.Mutex
	watched  []config.PluginOptions
	built    []config.PluginOptions
	started  chan string
	release  chan struct{}
	done     chan struct{}
	buildErr error
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		started: make(chan string, 2),
		release: make(chan struct{}),
		done:    make(chan struct{}, 2),
	}
}

func (f *fakePipeline) Watch(ctx context.Context, opts config.PluginOptions) error {
	f.mu.Lock()
	f.watched = append(f.watched, opts)
	f.mu.Unlock()
	f.started <- "watch"
	defer func() { f.done <- struct{}{} }()

	<-ctx.Done()
	return ctx.Err()
}

func (f *fakePipeline) Build(ctx context.Context, opts config.PluginOptions) error {
	f.mu.Lock()
	f.built = append(f.built, opts)
	f.mu.Unlock()
	f.started <- "build"
	defer func() { f.done <- struct{}{} }()

	select {
	case <-f.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return f.buildErr
}

func (f *fakePipeline) calls() (watched, built int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watched), len(f.built)
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pipeline")
	}
}

func TestDispatchDevStartsWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pipeline := newFakePipeline()

	err := NewDispatcher(pipeline).Dispatch(ctx, true, pluginOpts)
	require.NoError(t, err)

	assert.Equal(t, "watch", <-pipeline.started)

	cancel()
	waitFor(t, pipeline.done)

	watched, built := pipeline.calls()
	assert.Equal(t, 1, watched)
	assert.Equal(t, 0, built)
	assert.Equal(t, pluginOpts, pipeline.watched[0])
}

func TestDispatchBuildIsDetached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipeline := newFakePipeline()
	pipeline.buildErr = errors.New("sass exploded")

	// Build has not finished when Dispatch returns, and its error is not surfaced.
	err := NewDispatcher(pipeline).Dispatch(ctx, false, pluginOpts)
	require.NoError(t, err)

	assert.Equal(t, "build", <-pipeline.started)
	close(pipeline.release)
	waitFor(t, pipeline.done)

	watched, built := pipeline.calls()
	assert.Equal(t, 0, watched)
	assert.Equal(t, 1, built)
}

func TestDispatchAwaitBuild(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pipeline := newFakePipeline()
		close(pipeline.release)

		d := NewDispatcher(pipeline, WithAwaitBuild(true))
		require.True(t, d.AwaitBuild())
		require.NoError(t, d.Dispatch(context.Background(), false, pluginOpts))

		_, built := pipeline.calls()
		assert.Equal(t, 1, built)
	})

	t.Run("failure is surfaced", func(t *testing.T) {
		pipeline := newFakePipeline()
		pipeline.buildErr = errors.New("sass exploded")
		close(pipeline.release)

		err := NewDispatcher(pipeline, WithAwaitBuild(true)).Dispatch(context.Background(), false, pluginOpts)
		require.Error(t, err)
		assert.ErrorIs(t, err, pipeline.buildErr)
		assert.True(t, inkerrors.IsType(err, inkerrors.ErrorTypeDownstream))
	})

	t.Run("dev ignores await", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pipeline := newFakePipeline()

		require.NoError(t, NewDispatcher(pipeline, WithAwaitBuild(true)).Dispatch(ctx, true, pluginOpts))
		assert.Equal(t, "watch", <-pipeline.started)

		cancel()
		waitFor(t, pipeline.done)
	})
}

func TestRunToCompletionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := RunToCompletion(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
