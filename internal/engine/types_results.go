package engine

import (
	"time"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

// Outcome is how a run ended.
type Outcome string

const (
	// OutcomeAlreadyOptimal means the order already satisfied the policy.
	OutcomeAlreadyOptimal Outcome = "already-optimal"

	// OutcomeUnchanged means the computed plan equals the current order.
	OutcomeUnchanged Outcome = "unchanged"

	// OutcomePlanned means a dry run computed a new order.
	OutcomePlanned Outcome = "planned"

	// OutcomeApplied means a new order was applied and verified.
	OutcomeApplied Outcome = "applied"
)

// RunResult represents the result of a run.
type RunResult struct {
	// Outcome is how the run ended
	Outcome Outcome `json:"outcome"`

	// Before is the snapshot read at the start of the run
	Before *planner.Snapshot `json:"before,omitempty"`

	// Plan is the computed order, nil when already optimal
	Plan *planner.Plan `json:"plan,omitempty"`

	// After is the re-read snapshot, only set when the plan was applied
	After *planner.Snapshot `json:"after,omitempty"`

	// Attempts is the number of apply attempts made
	Attempts int `json:"attempts"`

	// OrderMismatch is set when the applied order starts with PXE but differs from the plan
	OrderMismatch bool `json:"order_mismatch,omitempty"`

	// Duration is the wall time of the run
	Duration time.Duration `json:"duration"`
}

// InspectResult represents the current boot configuration and its plan.
type InspectResult struct {
	// Snapshot is the parsed boot report
	Snapshot *planner.Snapshot `json:"snapshot"`

	// AlreadyOptimal reports whether the order already satisfies the policy
	AlreadyOptimal bool `json:"already_optimal"`

	// Plan is the order ComputePlan produces, nil when planning failed
	Plan *planner.Plan `json:"plan,omitempty"`
}
