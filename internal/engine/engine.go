// Package engine runs the pxefirst pass against a boot manager.
//
// The engine is the orchestration layer between the CLI and the pure boot
// order planner. It owns every side effect of a run: waiting for the EFI
// variable filesystem, reading and parsing the boot report, applying the
// planned order with a bounded retry, verifying the result, writing the event
// log and recording run metrics.
//
// Key components:
//   - Run: the full pipeline used by `pxefirst run` and the systemd unit
//   - Inspect: read-only snapshot, optimality check and plan for status and plan
//   - WaitReady: readiness poll on the efivars directory
package engine

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/danieljhkim/pxefirst/internal/clock"
	"github.com/danieljhkim/pxefirst/internal/efiboot"
	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/metrics"
	"github.com/danieljhkim/pxefirst/internal/planner"
	"github.com/danieljhkim/pxefirst/internal/retry"
)

// Options holds the tunables of a run.
type Options struct {
	// EFIVarsDir is polled until it exists. Empty skips the readiness wait.
	EFIVarsDir string

	// Readiness is the polling policy for EFIVarsDir.
	Readiness retry.Policy

	// Apply is the retry policy around SetBootOrder.
	Apply retry.Policy

	// MetricsTextfile receives the run gauges when set.
	MetricsTextfile string
}

// Engine orchestrates all pxefirst operations.
// It is the main API surface called by the CLI.
type Engine struct {
	boot    efiboot.BootManager
	fs      fsops.FS
	clock   clock.Clock
	logger  logr.Logger
	metrics *metrics.Recorder
	opts    Options
}

// New creates a new Engine with the given dependencies.
// rec may be nil to disable metrics.
func New(
	boot efiboot.BootManager,
	fs fsops.FS,
	clk clock.Clock,
	logger logr.Logger,
	rec *metrics.Recorder,
	opts Options,
) *Engine {
	return &Engine{
		boot:    boot,
		fs:      fs,
		clock:   clk,
		logger:  logger,
		metrics: rec,
		opts:    opts,
	}
}

// readSnapshot reads the boot report and parses it.
func (e *Engine) readSnapshot(ctx context.Context) (*planner.Snapshot, error) {
	report, err := e.boot.Report(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := efiboot.ParseReport(report)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boot report: %w", err)
	}
	return snap, nil
}

// logSnapshot writes the snapshot to the event log.
func (e *Engine) logSnapshot(msg string, snap *planner.Snapshot) {
	e.logger.Info(msg,
		"bootCurrent", snap.BootCurrent,
		"bootOrder", planner.FormatOrder(snap.BootOrder),
		"entries", len(snap.Entries),
		"pxeEntries", len(snap.PXEEntries()),
	)
	for _, entry := range snap.Entries {
		e.logger.V(1).Info("boot entry",
			"id", entry.ID,
			"category", entry.Category().String(),
			"active", entry.Active,
			"description", entry.Description,
		)
	}
}
