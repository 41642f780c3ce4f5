package gmpipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/groundmotion/gmprocess/internal/gmmetrics"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// FailureRow is one diagnostic-table entry (spec §7: "a failure-reason
// entry in a diagnostic table, one row per stream, containing step,
// failure kind, and descriptive text").
type FailureRow struct {
	StationID string
	Step      string
	Kind      gmtrace.FailureKind
	Text      string
}

// RunReport summarizes one Run call: how many streams passed or failed,
// per-step wall-clock time spent across the whole batch, the metrics
// collected from passing streams, and a diagnostic table for the rest
// (spec §5 "append-only statistics counters", §7 "diagnostic table").
type RunReport struct {
	// RunID correlates every log line, failure row, and metric this Run
	// call produced, the way the teacher used uuid for site/session
	// identifiers. It has no bearing on the deterministic, hash-derived
	// provenance IDs in gmtrace — those must stay stable across runs of
	// the same input for property 1; this one is run-scoped and varies
	// every call by design.
	RunID            string
	StreamsProcessed int64
	StreamsFailed    int64
	StepDurations    map[string]time.Duration
	FailureTable     []FailureRow
	Metrics          gmmetrics.Collection
}

// reportBuilder accumulates a RunReport from concurrent workers. Counters
// use atomics (spec §5: "append-only statistics counters ... updated via
// atomic counters or reduced at the end"); the failure table and step
// durations are small and infrequent enough to share a single mutex.
type reportBuilder struct {
	runID     string
	processed int64
	failed    int64

	mu            sync.Mutex
	stepDurations map[string]time.Duration
	failures      []FailureRow
	stations      []gmmetrics.StationMetrics
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{runID: uuid.New().String(), stepDurations: make(map[string]time.Duration)}
}

func (b *reportBuilder) recordStep(name string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stepDurations[name] += d
}

func (b *reportBuilder) recordStreamPassed() {
	atomic.AddInt64(&b.processed, 1)
}

func (b *reportBuilder) recordStreamFailed(stationID string, reasons []gmtrace.FailureReason) {
	atomic.AddInt64(&b.processed, 1)
	atomic.AddInt64(&b.failed, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(reasons) > 0 {
		r := reasons[0]
		b.failures = append(b.failures, FailureRow{StationID: stationID, Step: r.Stage, Kind: r.Kind, Text: r.Text})
	}
}

func (b *reportBuilder) recordMetrics(sm gmmetrics.StationMetrics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stations = append(b.stations, sm)
}

func (b *reportBuilder) build() *RunReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	durations := make(map[string]time.Duration, len(b.stepDurations))
	for k, v := range b.stepDurations {
		durations[k] = v
	}
	failures := make([]FailureRow, len(b.failures))
	copy(failures, b.failures)
	stations := make([]gmmetrics.StationMetrics, len(b.stations))
	copy(stations, b.stations)
	return &RunReport{
		RunID:            b.runID,
		StreamsProcessed: atomic.LoadInt64(&b.processed),
		StreamsFailed:    atomic.LoadInt64(&b.failed),
		StepDurations:    durations,
		FailureTable:     failures,
		Metrics:          gmmetrics.Collection{Stations: stations},
	}
}
