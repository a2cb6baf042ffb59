package engine

import (
	"context"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

// Inspect reads the boot configuration and computes its plan without
// waiting for readiness or applying anything.
//
// Planner errors are returned together with a result that carries the
// snapshot, so callers can still show the entries.
func (e *Engine) Inspect(ctx context.Context) (*InspectResult, error) {
	snap, err := e.readSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	e.logSnapshot("inspected boot configuration", snap)

	result := &InspectResult{Snapshot: snap}

	optimal, err := planner.IsAlreadyOptimal(snap)
	if err != nil {
		return result, err
	}
	result.AlreadyOptimal = optimal

	plan, err := planner.ComputePlan(snap)
	if err != nil {
		return result, err
	}
	result.Plan = &plan

	return result, nil
}
