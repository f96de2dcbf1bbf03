// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the sales pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so the
// helpers are always safe to call even when no real backend is configured.
// Concrete systems (Prometheus Pushgateway, DogStatsD) live in subpackages.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers.
const (
	StageTotal    = "salesetl_stage_total"
	StageDuration = "salesetl_stage_duration_seconds"
	RowsTotal     = "salesetl_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b and returns the previously installed backend. Passing
// nil keeps the existing backend.
func SetBackend(b Backend) Backend {
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	if b != nil {
		backend = b
	}
	return prev
}

// Reset restores the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStage counts one execution of a pipeline stage and observes its
// duration. status is "ok", "skipped" or "failed".
func RecordStage(job, stage, status string, d time.Duration) {
	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}
	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Kinds used by the pipeline:
//   - "extracted"
//   - "duplicates_dropped"
//   - "non_positive_dropped"
//   - "loaded"
func RecordRows(job, kind string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(n), Labels{
		"job":  job,
		"kind": kind,
	})
}
