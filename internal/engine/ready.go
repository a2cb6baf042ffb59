package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errNotPresent = errors.New("directory not present")

// WaitReady polls the EFI variable directory until it exists.
func (e *Engine) WaitReady(ctx context.Context) error {
	dir := e.opts.EFIVarsDir
	if dir == "" {
		return nil
	}

	attempts, err := e.opts.Readiness.Do(ctx, func(attempt int) error {
		ok, err := e.fs.IsDir(dir)
		if err != nil {
			return err
		}
		if !ok {
			return errNotPresent
		}
		return nil
	}, func(attempt int, err error, next time.Duration) {
		e.logger.V(1).Info("waiting for EFI variables", "dir", dir, "attempt", attempt, "next", next.String())
	})
	if err != nil {
		e.logger.Error(err, "EFI variables not available", "dir", dir, "attempts", attempts)
		return fmt.Errorf("%w: %s after %d checks: %w", ErrNotReady, dir, attempts, err)
	}

	e.logger.V(1).Info("EFI variables available", "dir", dir, "attempts", attempts)
	return nil
}
