package integration

import (
	"context"
	"math/rand"
	"testing"

	"github.com/danieljhkim/pxefirst/internal/engine"
	"github.com/danieljhkim/pxefirst/internal/planner"
)

const labReport = `BootCurrent: 0004
Timeout: 2 seconds
BootOrder: 0004,0000,0001,0002,0003,0005
Boot0000* UEFI: Built-in EFI Shell
Boot0001* UEFI: PXE IPv6 Intel(R) I350	PciRoot(0x0)/Pci(0x1c,0x0)/MAC(001122334455,0x1)/IPv6([::]:<->[::]:,0x0)
Boot0002* UEFI: PXE IPv4 Intel(R) I350	PciRoot(0x0)/Pci(0x1c,0x0)/MAC(001122334455,0x1)/IPv4(0.0.0.0)
Boot0003* UEFI: HTTP IPv4 PXE Intel(R) I350
Boot0004* ubuntu	HD(1,GPT,0e5cb4a8-0000-0000-0000-000000000000,0x800,0x100000)/File(\EFI\ubuntu\shimx64.efi)
Boot0005* UEFI Hard Drive
`

func TestRun_FullCycle(t *testing.T) {
	m := newMachine(t, labReport)
	ctx := context.Background()

	result, err := m.engine.Run(ctx, &engine.RunRequest{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Outcome != engine.OutcomeApplied {
		t.Fatalf("Outcome = %q, want %q", result.Outcome, engine.OutcomeApplied)
	}

	// PXE v4, PXE v6, booted OS, then the shell and the HTTP entry; the
	// generic hard drive is dropped.
	if got, want := m.currentOrder(t), "0002,0001,0004,0000,0003"; got != want {
		t.Errorf("firmware order = %s, want %s", got, want)
	}

	// A second boot finds nothing to do.
	result, err = m.engine.Run(ctx, &engine.RunRequest{})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if result.Outcome != engine.OutcomeAlreadyOptimal {
		t.Errorf("second Outcome = %q, want %q", result.Outcome, engine.OutcomeAlreadyOptimal)
	}
	if len(m.firmware.Applied()) != 1 {
		t.Errorf("applied %d times, want 1", len(m.firmware.Applied()))
	}
}

func TestRun_DryRunLeavesFirmware(t *testing.T) {
	m := newMachine(t, labReport)

	result, err := m.engine.Run(context.Background(), &engine.RunRequest{DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Outcome != engine.OutcomePlanned {
		t.Errorf("Outcome = %q, want %q", result.Outcome, engine.OutcomePlanned)
	}
	if got, want := m.currentOrder(t), "0004,0000,0001,0002,0003,0005"; got != want {
		t.Errorf("firmware order = %s, want unchanged %s", got, want)
	}
}

// TestRun_RandomLayouts checks on generated firmware layouts that a run ends
// with a PXE entry first and that a second run never writes again.
func TestRun_RandomLayouts(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		snap := randomSnapshot(r)
		m := newMachineFromSnapshot(snap)

		first, err := m.engine.Run(ctx, &engine.RunRequest{})
		if err != nil {
			t.Fatalf("layout %d: Run() error = %v\n%+v", i, err, snap)
		}

		inspect, err := m.engine.Inspect(ctx)
		if err != nil {
			t.Fatalf("layout %d: Inspect() error = %v", i, err)
		}
		order := inspect.Snapshot.BootOrder
		if first.Outcome == engine.OutcomeApplied && !inspect.Snapshot.Category(order[0]).IsPXE() {
			t.Errorf("layout %d: order %s does not start with PXE", i, planner.FormatOrder(order))
		}

		writes := len(m.firmware.Applied())
		second, err := m.engine.Run(ctx, &engine.RunRequest{})
		if err != nil {
			t.Fatalf("layout %d: second Run() error = %v", i, err)
		}
		if second.Outcome == engine.OutcomeApplied || len(m.firmware.Applied()) != writes {
			t.Errorf("layout %d: second run rewrote the order (%s)", i, planner.FormatOrder(order))
		}
	}
}
