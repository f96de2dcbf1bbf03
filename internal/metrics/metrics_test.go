package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
	flushErr        error
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return f.flushErr
}

func TestRecordStage(t *testing.T) {
	fb := &fakeBackend{}
	prev := SetBackend(fb)
	defer SetBackend(prev)

	RecordStage("sales_etl", "extract", "ok", 2*time.Second)
	RecordStage("sales_etl", "load", "failed", 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 || len(fb.callsHistograms) != 2 {
		t.Fatalf("calls = %d counters, %d histograms; want 2, 2", len(fb.callsCounters), len(fb.callsHistograms))
	}

	cc0 := fb.callsCounters[0]
	if cc0.name != StageTotal || cc0.delta != 1 {
		t.Fatalf("counter[0] = %#v", cc0)
	}
	if cc0.labels["job"] != "sales_etl" || cc0.labels["stage"] != "extract" || cc0.labels["status"] != "ok" {
		t.Fatalf("counter[0] labels = %v", cc0.labels)
	}
	if fb.callsCounters[1].labels["status"] != "failed" {
		t.Fatalf("counter[1] labels = %v", fb.callsCounters[1].labels)
	}

	h1 := fb.callsHistograms[1]
	if h1.name != StageDuration {
		t.Fatalf("hist[1].name = %q", h1.name)
	}
	if h1.value < 1.5-0.001 || h1.value > 1.5+0.001 {
		t.Fatalf("hist[1].value = %v; want ~1.5", h1.value)
	}
}

func TestRecordRows(t *testing.T) {
	fb := &fakeBackend{}
	prev := SetBackend(fb)
	defer SetBackend(prev)

	RecordRows("job", "extracted", 3)
	RecordRows("job", "duplicates_dropped", 0) // ignored
	RecordRows("job", "loaded", 2)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}
	c1 := fb.callsCounters[1]
	if c1.name != RowsTotal || c1.delta != 2 || c1.labels["kind"] != "loaded" {
		t.Fatalf("counter[1] = %#v", c1)
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	defer Reset()

	fb := &fakeBackend{flushErr: errors.New("unreachable")}
	SetBackend(fb)

	if err := Flush(); err == nil {
		t.Fatalf("Flush error = nil, want backend error")
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount=1, got %d", fb.flushCount)
	}

	// SetBackend(nil) does not nil out the backend.
	if prev := SetBackend(nil); prev != fb {
		t.Fatalf("SetBackend(nil) returned %T, want current backend", prev)
	}
	if current() != fb {
		t.Fatal("SetBackend(nil) changed the backend")
	}

	Reset()
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush error = %v", err)
	}
}
