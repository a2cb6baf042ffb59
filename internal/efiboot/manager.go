package efiboot

import (
	"context"
	"fmt"
	"os"

	"github.com/danieljhkim/pxefirst/internal/planner"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

// BootManager reads and writes the firmware boot configuration.
type BootManager interface {
	// Report returns the raw boot manager report.
	Report(ctx context.Context) (string, error)

	// SetBootOrder replaces the firmware BootOrder with ids.
	SetBootOrder(ctx context.Context, ids []string) error
}

// Efibootmgr implements BootManager by running the efibootmgr binary.
type Efibootmgr struct {
	runner  sysexec.Runner
	path    string
	verbose bool
}

// NewEfibootmgr creates a BootManager backed by the efibootmgr binary at path.
// With verbose set the report includes device paths.
func NewEfibootmgr(runner sysexec.Runner, path string, verbose bool) *Efibootmgr {
	if path == "" {
		path = "efibootmgr"
	}
	return &Efibootmgr{runner: runner, path: path, verbose: verbose}
}

// Report runs efibootmgr and returns its output.
func (m *Efibootmgr) Report(ctx context.Context) (string, error) {
	var args []string
	if m.verbose {
		args = append(args, "-v")
	}
	out, err := m.runner.Run(ctx, m.path, args...)
	if err != nil {
		return "", fmt.Errorf("failed to read boot entries: %w", err)
	}
	return string(out), nil
}

// SetBootOrder runs efibootmgr -o with the comma-separated ids.
func (m *Efibootmgr) SetBootOrder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("refusing to set an empty boot order")
	}
	if _, err := m.runner.Run(ctx, m.path, "-o", planner.FormatOrder(ids)); err != nil {
		return fmt.Errorf("failed to set boot order: %w", err)
	}
	return nil
}

// ReportFile implements a read-only BootManager over a saved report.
type ReportFile struct {
	path string
}

// NewReportFile creates a BootManager that reads the report at path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// Report returns the file content.
func (f *ReportFile) Report(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read report file: %w", err)
	}
	return string(data), nil
}

// SetBootOrder always fails with ErrReadOnly.
func (f *ReportFile) SetBootOrder(ctx context.Context, ids []string) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, f.path)
}

// FakeBootManager implements BootManager in memory for testing.
// SetBootOrder rewrites the BootOrder line of subsequent reports unless an
// apply error is queued.
type FakeBootManager struct {
	report    *planner.Snapshot
	reportErr error
	applyErrs []error
	applied   [][]string
	ignore    bool
	override  []string
}

// NewFakeBootManager creates a FakeBootManager serving snap.
func NewFakeBootManager(snap *planner.Snapshot) *FakeBootManager {
	cp := *snap
	cp.BootOrder = append([]string(nil), snap.BootOrder...)
	return &FakeBootManager{report: &cp}
}

// SetReportError makes Report fail with err.
func (f *FakeBootManager) SetReportError(err error) {
	f.reportErr = err
}

// QueueApplyErrors makes the next SetBootOrder calls fail, one error per call.
func (f *FakeBootManager) QueueApplyErrors(errs ...error) {
	f.applyErrs = append(f.applyErrs, errs...)
}

// IgnoreApply makes SetBootOrder succeed without changing the firmware.
func (f *FakeBootManager) IgnoreApply() {
	f.ignore = true
}

// OverrideApply makes SetBootOrder store order instead of the requested one.
func (f *FakeBootManager) OverrideApply(order []string) {
	f.override = order
}

// Applied returns every successfully applied order.
func (f *FakeBootManager) Applied() [][]string {
	return f.applied
}

// Report renders the current state as efibootmgr output.
func (f *FakeBootManager) Report(ctx context.Context) (string, error) {
	if f.reportErr != nil {
		return "", f.reportErr
	}
	return Render(f.report), nil
}

// SetBootOrder records ids as the new BootOrder.
func (f *FakeBootManager) SetBootOrder(ctx context.Context, ids []string) error {
	if len(f.applyErrs) > 0 {
		err := f.applyErrs[0]
		f.applyErrs = f.applyErrs[1:]
		return err
	}
	f.applied = append(f.applied, append([]string(nil), ids...))
	if f.ignore {
		return nil
	}
	if f.override != nil {
		f.report.BootOrder = append([]string(nil), f.override...)
		return nil
	}
	f.report.BootOrder = append([]string(nil), ids...)
	return nil
}
