// Package metrics records the outcome of a pxefirst run as Prometheus gauges
// and writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

const namespace = "pxefirst"

// Run is the outcome of one pxefirst pass.
type Run struct {
	Time           time.Time
	Success        bool
	Changed        bool
	AlreadyOptimal bool
	Attempts       int
	Snapshot       *planner.Snapshot
}

// Recorder holds the run gauges on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	lastRun    prometheus.Gauge
	success    prometheus.Gauge
	changed    prometheus.Gauge
	optimal    prometheus.Gauge
	attempts   prometheus.Gauge
	pxeEntries *prometheus.GaugeVec
}

// New creates a Recorder with all gauges registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last pxefirst run.",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise.",
		}),
		changed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boot_order_changed",
			Help:      "1 if the last run rewrote the boot order.",
		}),
		optimal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "already_optimal",
			Help:      "1 if the boot order was already optimal.",
		}),
		attempts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "apply_attempts",
			Help:      "Number of apply attempts made by the last run.",
		}),
		pxeEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pxe_entries",
			Help:      "PXE boot entries seen by the last run, by category.",
		}, []string{"category"}),
	}

	r.registry.MustRegister(r.lastRun, r.success, r.changed, r.optimal, r.attempts, r.pxeEntries)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun sets every gauge from run.
func (r *Recorder) ObserveRun(run Run) {
	r.lastRun.Set(float64(run.Time.Unix()))
	r.success.Set(boolValue(run.Success))
	r.changed.Set(boolValue(run.Changed))
	r.optimal.Set(boolValue(run.AlreadyOptimal))
	r.attempts.Set(float64(run.Attempts))

	counts := map[planner.Category]int{
		planner.PxeIPv4:  0,
		planner.PxeIPv6:  0,
		planner.PxeOther: 0,
	}
	if run.Snapshot != nil {
		for _, e := range run.Snapshot.PXEEntries() {
			counts[e.Category()]++
		}
	}
	for cat, n := range counts {
		r.pxeEntries.WithLabelValues(cat.String()).Set(float64(n))
	}
}

// WriteTextfile writes the gauges to path, replacing it atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
