package gmtrace

// This file implements the "parameter maps on traces" design note
// (SPEC_FULL §3 / spec.md §9): a tagged union per parameter kind, stored
// in a keyed map on the trace, rather than a bag of interface{} values.

// ParamKind tags which field of Parameter is populated.
type ParamKind int

const (
	ParamUnknown ParamKind = iota
	ParamCornerFrequencies
	ParamSNR
	ParamSignalSplit
	ParamSignalEnd
	ParamPick
	ParamBaselineFit
	ParamRidder
)

// CornerFrequencies holds the selected high-pass/low-pass corners and the
// method used to select them (spec §4.3.3).
type CornerFrequencies struct {
	HighPass     float64
	LowPass      float64
	HighPassMode string // "constant", "snr", "magnitude", "ridder"
	LowPassMode  string
}

// SNRResult holds the smoothed SNR spectrum computed against a frequency
// grid (spec §4.3.1).
type SNRResult struct {
	Freqs   []float64
	Smoothed []float64 // signal/noise ratio, Konno-Ohmachi smoothed
	Passed  bool
}

// SignalSplit holds the computed noise/signal boundary (spec §4.2.1).
type SignalSplit struct {
	SplitSeconds float64 // seconds from trace start
	Method       string  // "pick", "no_noise"
}

// SignalEnd holds the computed signal-end time (spec §4.2.2).
type SignalEnd struct {
	EndSeconds float64 // seconds from trace start
	Method     string  // "model", "source_path", "velocity", "magnitude", "none"
}

// PickResult records the aggregated P-wave pick (spec §4.2.1).
type PickResult struct {
	TimeSeconds  float64
	Candidates   map[string]float64 // picker name -> candidate time (s)
	Disagreement bool                // true if candidates disagreed beyond pick_travel_time_warning
}

// BaselineFit records the sixth-order polynomial fit coefficients computed
// during detrend(baseline_sixth_order) (spec §4.4.1), for diagnostics.
type BaselineFit struct {
	Coefficients [7]float64 // order 0..6, constant and linear terms zeroed per invariant
}

// RidderResult records the outcome of the ridder-fchp corner search
// (spec §4.3.5).
type RidderResult struct {
	FC          float64
	Iterations  int
	Converged   bool
	ResidualRatio float64
}

// Parameter is the tagged union stored per key in a Trace's parameter map.
type Parameter struct {
	Kind              ParamKind
	CornerFrequencies CornerFrequencies
	SNR               SNRResult
	SignalSplit       SignalSplit
	SignalEnd         SignalEnd
	Pick              PickResult
	BaselineFit       BaselineFit
	Ridder            RidderResult
}

const (
	KeyCornerFrequencies = "corner_frequencies"
	KeySNR               = "snr"
	KeySignalSplit        = "signal_split"
	KeySignalEnd          = "signal_end"
	KeyPick               = "pick"
	KeyBaselineFit        = "baseline_fit"
	KeyRidder             = "ridder_fchp"
)
