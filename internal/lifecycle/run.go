package lifecycle

import (
	"context"
	"errors"

	"github.com/conneroisu/templar-inkwell/internal/logging"
)

// Task is a unit of pipeline work.
type Task func(ctx context.Context) error

// Detach starts task in the background and returns immediately. No handle is
// returned: the task is never joined or restarted, and its failure is only
// logged. Cancellation of ctx is not reported as a failure.
func Detach(ctx context.Context, logger logging.Logger, name string, task Task) {
	go func() {
		err := task(ctx)
		switch {
		case err == nil:
			logger.Debug(ctx, "Detached pipeline finished", "pipeline", name)
		case errors.Is(err, context.Canceled):
			logger.Debug(ctx, "Detached pipeline stopped", "pipeline", name)
		default:
			logger.Error(ctx, err, "Detached pipeline failed", "pipeline", name)
		}
	}()
}

// RunToCompletion runs task and returns its result.
func RunToCompletion(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return task(ctx)
}
