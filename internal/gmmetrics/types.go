// Package gmmetrics implements the ground-motion metric engine: component
// combination (including RotD), PGA/PGV, response spectra via an SDOF
// oscillator, FAS, Arias intensity, CAV, and duration metrics
// (spec.md §4.7).
package gmmetrics

// MetricType names one of the metric families from spec §4.7.
type MetricType string

const (
	TypePGA            MetricType = "pga"
	TypePGV            MetricType = "pgv"
	TypeSA             MetricType = "sa"
	TypePSA            MetricType = "psa"
	TypeFAS            MetricType = "fas"
	TypeArias          MetricType = "arias"
	TypeCAV            MetricType = "cav"
	TypeDuration       MetricType = "duration"
	TypeSortedDuration MetricType = "sorted_duration"
)

// ComponentKind names one of spec §4.7's component combinations.
type ComponentKind string

const (
	ComponentChannel        ComponentKind = "channel"
	ComponentArithmeticMean ComponentKind = "arithmetic_mean"
	ComponentGeometricMean  ComponentKind = "geometric_mean"
	ComponentQuadraticMean  ComponentKind = "quadratic_mean"
	ComponentRotD           ComponentKind = "rotd"
)

// Metric is a single (type, component, parameters, value) tuple, tagged
// with enough parameters to uniquely identify it (spec §4.7 closing
// paragraph: "tagged with component specification and a parameter
// dictionary sufficient to uniquely identify it").
type Metric struct {
	Type      MetricType
	Component ComponentKind
	Channel   string // populated when Component == ComponentChannel
	Period    float64
	Damping   float64
	Percentile float64
	Frequency float64 // populated for FAS point metrics
	P1, P2    float64 // populated for duration metrics
	Value     float64
}

// StationMetrics holds every metric computed for one station (spec §4.7
// "per-station lists of (metric-type, component-spec, value) triples").
type StationMetrics struct {
	StationID string
	Metrics   []Metric
}

// Packet is the ground-motion-packet output schema (SPEC_FULL.md §10
// "supplemented feature"): the full set of per-station metric results for
// one event, plus enough context to trace every value back to its source
// streams without re-running the pipeline.
type Packet struct {
	EventID  string
	Stations []StationMetrics
}

// Collection is the MetricsCollection named in spec §4.7.
type Collection struct {
	Stations []StationMetrics
}
