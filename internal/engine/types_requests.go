package engine

// RunRequest represents a request to run the boot order pass.
type RunRequest struct {
	// DryRun computes the plan without applying it
	DryRun bool
}
