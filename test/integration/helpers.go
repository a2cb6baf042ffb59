package integration

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/danieljhkim/pxefirst/internal/clock"
	"github.com/danieljhkim/pxefirst/internal/efiboot"
	"github.com/danieljhkim/pxefirst/internal/engine"
	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/metrics"
	"github.com/danieljhkim/pxefirst/internal/planner"
	"github.com/danieljhkim/pxefirst/internal/retry"
)

const efivarsDir = "/sys/firmware/efi/efivars"

// machine is a simulated host: firmware state behind a fake boot manager and
// an in-memory filesystem with the EFI variables mounted.
type machine struct {
	firmware *efiboot.FakeBootManager
	fs       *fsops.MemFS
	metrics  *metrics.Recorder
	engine   *engine.Engine
}

// newMachine boots a simulated host from an efibootmgr report.
func newMachine(t *testing.T, report string) *machine {
	t.Helper()

	snap, err := efiboot.ParseReport(report)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	return newMachineFromSnapshot(snap)
}

func newMachineFromSnapshot(snap *planner.Snapshot) *machine {
	m := &machine{
		firmware: efiboot.NewFakeBootManager(snap),
		fs:       fsops.NewMemFS(),
		metrics:  metrics.New(),
	}
	m.fs.AddDir(efivarsDir)

	m.engine = engine.New(
		m.firmware,
		m.fs,
		clock.NewFakeClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)),
		logr.Discard(),
		m.metrics,
		engine.Options{
			EFIVarsDir: efivarsDir,
			Readiness:  retry.Policy{Attempts: 2},
			Apply:      retry.Policy{Attempts: 3},
		},
	)
	return m
}

// currentOrder re-reads the firmware through the report text.
func (m *machine) currentOrder(t *testing.T) string {
	t.Helper()

	report, err := m.firmware.Report(context.Background())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	snap, err := efiboot.ParseReport(report)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	return planner.FormatOrder(snap.BootOrder)
}

var descriptions = map[planner.Category][]string{
	planner.PxeIPv4:   {"UEFI: PXE IPv4 Intel(R) I350", "PXE IP4 Mellanox ConnectX-5"},
	planner.PxeIPv6:   {"UEFI: PXE IPv6 Intel(R) I350", "PXE IP6 Broadcom NetXtreme"},
	planner.PxeOther:  {"Network PXE Boot", "UEFI PXEv4 (MAC:001122334455)"},
	planner.HardDrive: {"Hard Drive", "UEFI Hard Drive 2"},
	planner.Other:     {"ubuntu", "Windows Boot Manager", "UEFI HTTPv4 PXE", "EFI Shell"},
}

// randomSnapshot builds a firmware layout with at least one PXE entry and a
// BootOrder that is a shuffled subset of the entries.
func randomSnapshot(r *rand.Rand) *planner.Snapshot {
	cats := []planner.Category{planner.PxeIPv4, planner.PxeIPv6, planner.PxeOther, planner.HardDrive, planner.Other}
	n := 2 + r.Intn(7)

	snap := &planner.Snapshot{}
	for i := 0; i < n; i++ {
		cat := cats[r.Intn(len(cats))]
		if i == 0 {
			cat = planner.PxeIPv4 + planner.Category(r.Intn(3))
		}
		pool := descriptions[cat]
		snap.Entries = append(snap.Entries, planner.BootEntry{
			ID:          fmt.Sprintf("%04X", i),
			Description: pool[r.Intn(len(pool))],
			Active:      r.Intn(4) != 0,
		})
	}

	for _, i := range r.Perm(n) {
		if r.Intn(5) == 0 && len(snap.BootOrder) > 0 {
			continue
		}
		snap.BootOrder = append(snap.BootOrder, snap.Entries[i].ID)
	}

	if r.Intn(4) != 0 {
		snap.BootCurrent = snap.Entries[r.Intn(n)].ID
	}
	return snap
}
