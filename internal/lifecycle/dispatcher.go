// Package lifecycle hands the resolved plugin options to exactly one of the
// two asset pipelines, depending on the host's run mode.
//
// The watch pipeline is long running and is always detached. The build
// pipeline is detached by default, matching the reference behaviour: a host
// that bundles generated stylesheets right after setup can race it. Hosts
// that need the stylesheets on disk before they continue set AwaitBuild.
package lifecycle

import (
	"context"

	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/logging"
)

// Pipeline is the pair of external collaborators the dispatcher drives.
type Pipeline interface {
	// Watch regenerates derived assets until ctx is done.
	Watch(ctx context.Context, opts config.PluginOptions) error
	// Build generates derived assets once.
	Build(ctx context.Context, opts config.PluginOptions) error
}

// Dispatcher chooses and starts a pipeline.
type Dispatcher struct {
	pipeline   Pipeline
	awaitBuild bool
	logger     logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAwaitBuild makes Dispatch run the build pipeline to completion and
// return its error.
func WithAwaitBuild(await bool) Option {
	return func(d *Dispatcher) {
		d.awaitBuild = await
	}
}

// WithLogger sets the logger detached pipelines report failures to.
func WithLogger(logger logging.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher for pipeline.
func NewDispatcher(pipeline Pipeline, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pipeline: pipeline,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("lifecycle")
	return d
}

// AwaitBuild reports whether Dispatch waits for the build pipeline.
func (d *Dispatcher) AwaitBuild() bool {
	return d.awaitBuild
}

// Dispatch starts the watch pipeline when dev is true and the build pipeline
// otherwise. ctx bounds the lifetime of a detached pipeline, so it should be
// the host's lifetime context rather than a setup-scoped one.
//
// Dispatch returns an error only for an awaited build.
func (d *Dispatcher) Dispatch(ctx context.Context, dev bool, opts config.PluginOptions) error {
	if dev {
		d.logger.Info(ctx, "Starting watch pipeline", "config_file", opts.ConfigFile)
		Detach(ctx, d.logger, "watch", func(ctx context.Context) error {
			return d.pipeline.Watch(ctx, opts)
		})
		return nil
	}

	build := func(ctx context.Context) error {
		return d.pipeline.Build(ctx, opts)
	}

	if !d.awaitBuild {
		d.logger.Info(ctx, "Starting build pipeline", "await", false)
		Detach(ctx, d.logger, "build", build)
		return nil
	}

	d.logger.Info(ctx, "Running build pipeline", "await", true)
	if err := RunToCompletion(ctx, build); err != nil {
		return inkerrors.WrapDownstream(err, inkerrors.ErrCodeBuildFailed, "build")
	}
	return nil
}
