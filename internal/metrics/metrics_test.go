package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

func testSnapshot() *planner.Snapshot {
	return &planner.Snapshot{
		Entries: []planner.BootEntry{
			{ID: "0000", Description: "ubuntu", Active: true},
			{ID: "0001", Description: "UEFI: PXE IPv4 Intel(R) I350", Active: true},
			{ID: "0002", Description: "UEFI: PXE IPv6 Intel(R) I350", Active: true},
			{ID: "0003", Description: "UEFI: PXE IPv4 Intel(R) X710", Active: true},
		},
		BootOrder: []string{"0000", "0001", "0002", "0003"},
	}
}

func TestRecorder_ObserveRun(t *testing.T) {
	r := New()
	r.ObserveRun(Run{
		Time:     time.Unix(1700000000, 0),
		Success:  true,
		Changed:  true,
		Attempts: 2,
		Snapshot: testSnapshot(),
	})

	assert.Equal(t, float64(1700000000), testutil.ToFloat64(r.lastRun))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.success))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.changed))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.optimal))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.attempts))

	expected := `
# HELP pxefirst_pxe_entries PXE boot entries seen by the last run, by category.
# TYPE pxefirst_pxe_entries gauge
pxefirst_pxe_entries{category="pxe"} 0
pxefirst_pxe_entries{category="pxe-ipv4"} 2
pxefirst_pxe_entries{category="pxe-ipv6"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "pxefirst_pxe_entries"))
}

func TestRecorder_ObserveFailedRun(t *testing.T) {
	r := New()
	r.ObserveRun(Run{Time: time.Unix(10, 0), Success: true, Changed: true, Attempts: 1, Snapshot: testSnapshot()})
	r.ObserveRun(Run{Time: time.Unix(20, 0), Attempts: 3})

	assert.Equal(t, float64(20), testutil.ToFloat64(r.lastRun))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.success))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.changed))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.attempts))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.pxeEntries.WithLabelValues("pxe-ipv4")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.ObserveRun(Run{Time: time.Unix(42, 0), Success: true, AlreadyOptimal: true, Snapshot: testSnapshot()})

	path := filepath.Join(t.TempDir(), "pxefirst.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "pxefirst_last_run_timestamp_seconds 42")
	assert.Contains(t, out, "pxefirst_already_optimal 1")
	assert.Contains(t, out, `pxefirst_pxe_entries{category="pxe-ipv4"} 2`)
}

func TestRecorder_WriteTextfileError(t *testing.T) {
	r := New()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "pxefirst.prom"))
	assert.Error(t, err)
}
