package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danieljhkim/pxefirst/internal/efiboot"
	"github.com/danieljhkim/pxefirst/internal/metrics"
	"github.com/danieljhkim/pxefirst/internal/planner"
	"github.com/danieljhkim/pxefirst/internal/retry"
)

// Run performs one boot order pass.
//
// Algorithm steps:
// 1. Wait for the EFI variable filesystem
// 2. Read and parse the boot report
// 3. Stop if the order is already optimal
// 4. Compute the plan; stop if it does not change the order
// 5. Stop with the plan if DryRun
// 6. Apply the plan with the retry policy
// 7. Re-read and verify that a PXE entry is first
// 8. Record run metrics
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	start := e.clock.Now()
	result := &RunResult{}

	err := e.run(ctx, req, result)
	result.Duration = e.clock.Since(start)

	if err != nil {
		e.logger.Error(err, "run failed", "duration", result.Duration.String())
	} else {
		e.logger.Info("run finished", "outcome", string(result.Outcome), "duration", result.Duration.String())
	}

	e.record(start, result, err)
	return result, err
}

func (e *Engine) run(ctx context.Context, req *RunRequest, result *RunResult) error {
	e.logger.Info("run started", "dryRun", req.DryRun)

	if err := e.WaitReady(ctx); err != nil {
		return err
	}

	before, err := e.readSnapshot(ctx)
	if err != nil {
		return err
	}
	result.Before = before
	e.logSnapshot("read boot configuration", before)

	optimal, err := planner.IsAlreadyOptimal(before)
	if err != nil {
		return err
	}
	if optimal {
		result.Outcome = OutcomeAlreadyOptimal
		e.logger.Info("boot order already optimal", "bootOrder", planner.FormatOrder(before.BootOrder))
		return nil
	}

	plan, err := planner.ComputePlan(before)
	if err != nil {
		return err
	}
	result.Plan = &plan
	e.logger.Info("computed boot order", "current", planner.FormatOrder(before.BootOrder), "planned", plan.String(), "changed", plan.Changed)

	if !plan.Changed {
		result.Outcome = OutcomeUnchanged
		return nil
	}

	if req.DryRun {
		result.Outcome = OutcomePlanned
		return nil
	}

	attempts, err := e.apply(ctx, plan)
	result.Attempts = attempts
	if err != nil {
		return err
	}

	after, err := e.readSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to re-read boot report: %w", ErrVerificationFailed, err)
	}
	result.After = after
	e.logSnapshot("re-read boot configuration", after)

	if len(after.BootOrder) == 0 || !after.Category(after.BootOrder[0]).IsPXE() {
		return fmt.Errorf("%w: boot order is %q", ErrVerificationFailed, planner.FormatOrder(after.BootOrder))
	}
	if planner.FormatOrder(after.BootOrder) != plan.String() {
		result.OrderMismatch = true
		e.logger.Info("warning: applied boot order differs from plan", "planned", plan.String(), "actual", planner.FormatOrder(after.BootOrder))
	}

	result.Outcome = OutcomeApplied
	return nil
}

// apply sets the planned order, retrying per the apply policy.
func (e *Engine) apply(ctx context.Context, plan planner.Plan) (int, error) {
	attempts, err := e.opts.Apply.Do(ctx, func(attempt int) error {
		e.logger.Info("applying boot order", "order", plan.String(), "attempt", attempt)
		err := e.boot.SetBootOrder(ctx, plan.Order)
		if errors.Is(err, efiboot.ErrReadOnly) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, next time.Duration) {
		e.logger.Error(err, "apply attempt failed", "attempt", attempt, "retryIn", next.String())
	})
	if err != nil {
		return attempts, fmt.Errorf("%w after %d attempts: %w", ErrApplyFailed, attempts, err)
	}
	return attempts, nil
}

// record updates the run gauges and writes the metrics textfile.
func (e *Engine) record(start time.Time, result *RunResult, runErr error) {
	if e.metrics == nil {
		return
	}

	e.metrics.ObserveRun(metrics.Run{
		Time:           start,
		Success:        runErr == nil,
		Changed:        result.Outcome == OutcomeApplied,
		AlreadyOptimal: result.Outcome == OutcomeAlreadyOptimal,
		Attempts:       result.Attempts,
		Snapshot:       result.Before,
	})

	if e.opts.MetricsTextfile == "" {
		return
	}
	if err := e.metrics.WriteTextfile(e.opts.MetricsTextfile); err != nil {
		e.logger.Error(err, "failed to write metrics", "path", e.opts.MetricsTextfile)
	}
}
