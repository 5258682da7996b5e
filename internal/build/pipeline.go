package build

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/templar-inkwell/internal/config"
	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
	"github.com/conneroisu/templar-inkwell/internal/fsutil"
	"github.com/conneroisu/templar-inkwell/internal/logging"
	"github.com/conneroisu/templar-inkwell/internal/watcher"
)

// Pipeline generates theme stylesheets. It satisfies lifecycle.Pipeline.
type Pipeline struct {
	logger   logging.Logger
	metrics  *BuildMetrics
	debounce time.Duration

	// mu serialises builds so a watch rebuild never races a manual one
	// writing the same files.
	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records every build into metrics.
func WithMetrics(metrics *BuildMetrics) Option {
	return func(p *Pipeline) {
		if metrics != nil {
			p.metrics = metrics
		}
	}
}

// WithDebounce sets how long the watch pipeline waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) {
		p.debounce = d
	}
}

// NewPipeline creates a stylesheet pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:   logging.NewNopLogger(),
		metrics:  NewBuildMetrics(),
		debounce: watcher.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("build")
	return p
}

// Metrics returns the metrics the pipeline records into.
func (p *Pipeline) Metrics() *BuildMetrics {
	return p.metrics
}

// Build generates the stylesheets once.
func (p *Pipeline) Build(ctx context.Context, opts config.PluginOptions) error {
	_, err := p.Run(ctx, opts)
	return err
}

// Run generates the stylesheets once and reports what it wrote.
func (p *Pipeline) Run(ctx context.Context, opts config.PluginOptions) (BuildResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	result, err := p.run(ctx, opts)
	result.Duration = time.Since(start)
	result.Error = err
	p.metrics.RecordBuild(result)

	if err != nil {
		p.logger.Error(ctx, err, "Stylesheet build failed", "duration", result.Duration)
		return result, err
	}

	p.logger.Info(ctx, "Stylesheets built",
		"output_dir", opts.OutputDir,
		"written", result.Written,
		"unchanged", result.Unchanged,
		"duration", result.Duration,
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, opts config.PluginOptions) (BuildResult, error) {
	var result BuildResult

	if err := ctx.Err(); err != nil {
		return result, err
	}

	resolved, err := config.ResolvePluginOptions(opts)
	if err != nil {
		return result, err
	}

	theme, err := LoadTheme(resolved.ConfigFile)
	if err != nil {
		return result, err
	}

	sheets := RenderStylesheets(theme, resolved.ExtName)
	written := make([]bool, len(sheets))

	g, gctx := errgroup.WithContext(ctx)
	for i, sheet := range sheets {
		path := filepath.Join(resolved.OutputDir, sheet.Filename(resolved.ExtName))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			changed, err := fsutil.WriteIfChanged(path, sheet.Content)
			if err != nil {
				return inkerrors.WrapAsset(err, inkerrors.ErrCodeStylesheetWrite,
					"cannot write stylesheet", path)
			}
			written[i] = changed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, changed := range written {
		if changed {
			result.Written++
		} else {
			result.Unchanged++
		}
	}
	return result, nil
}

// Watch builds once, then rebuilds whenever the theme file changes, until
// ctx is done. A failed rebuild is logged and the watch continues; only a
// failure to start watching ends it early.
func (p *Pipeline) Watch(ctx context.Context, opts config.PluginOptions) error {
	resolved, err := config.ResolvePluginOptions(opts)
	if err != nil {
		return err
	}

	if _, err := p.Run(ctx, resolved); err != nil {
		p.logger.Warn(ctx, err, "Initial build failed, watching for fixes")
	}

	fw, err := watcher.NewFileWatcher(p.debounce, p.logger)
	if err != nil {
		return inkerrors.WrapDownstream(err, inkerrors.ErrCodeWatchFailed, "watch")
	}
	defer fw.Stop() //nolint:errcheck

	themeDir := filepath.Dir(resolved.ConfigFile)
	if err := fw.AddPath(themeDir); err != nil {
		return inkerrors.WrapDownstream(err, inkerrors.ErrCodeWatchFailed, "watch").
			WithFile(themeDir)
	}

	fw.AddFilter(watcher.PathFilter(resolved.ConfigFile))
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		p.logger.Debug(ctx, "Theme changed", "events", len(events))
		_, err := p.Run(ctx, resolved)
		return err
	})

	if err := fw.Start(ctx); err != nil {
		return inkerrors.WrapDownstream(err, inkerrors.ErrCodeWatchFailed, "watch")
	}

	p.logger.Info(ctx, "Watching theme file", "path", resolved.ConfigFile)
	<-ctx.Done()
	return ctx.Err()
}
