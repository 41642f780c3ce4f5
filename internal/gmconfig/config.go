// Package gmconfig implements the hierarchical, merged-overlay
// configuration document described in spec.md §6 and the deep-merge
// semantics described in §9 ("Configuration deep-merge with history").
package gmconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// ProgramStep is one (step-name, parameter-map) entry of the `processing`
// list (spec §4.1, §6). The same step name MAY appear more than once; the
// list order is authoritative and is never sorted or deduplicated.
type ProgramStep struct {
	Name   string         `yaml:"step"`
	Params map[string]any `yaml:"params"`
}

// WindowsSignalEnd configures signal-end selection (spec §4.2.2).
type WindowsSignalEnd struct {
	Method     string  `yaml:"method"` // model, source_path, velocity, magnitude, none
	Model      string  `yaml:"model"`
	Epsilon    float64 `yaml:"epsilon"`
	VMin       float64 `yaml:"vmin"`
	Floor      float64 `yaml:"floor"`
	StressDrop float64 `yaml:"stress_drop"`
	Dur0       float64 `yaml:"dur0"`
	Dur1       float64 `yaml:"dur1"`
}

// WindowChecks configures §4.2.3.
type WindowChecks struct {
	Enabled            bool    `yaml:"enabled"`
	MinNoiseDuration   float64 `yaml:"min_noise_duration"`
	MinSignalDuration  float64 `yaml:"min_signal_duration"`
}

// RegionOverride overrides signal-end selection by tectonic regime
// (spec §4.2.2 "The selected method MAY be overridden by tectonic regime").
type RegionOverride struct {
	SignalEnd WindowsSignalEnd `yaml:"signal_end"`
}

// Windows is the `windows` top-level config section.
type Windows struct {
	NoNoise      bool                      `yaml:"no_noise"`
	SignalEnd    WindowsSignalEnd          `yaml:"signal_end"`
	WindowChecks WindowChecks              `yaml:"window_checks"`
	Regions      map[string]RegionOverride `yaml:"regions"`
}

// CheckStream is the `check_stream` top-level config section.
type CheckStream struct {
	AnyTraceFailures bool `yaml:"any_trace_failures"`
}

// PickerParams configures one P-wave picker (spec §4.2.1, §6 `pickers`).
type PickerParams struct {
	Enabled bool           `yaml:"enabled"`
	Params  map[string]any `yaml:"params"`
}

// Pickers is the `pickers` top-level config section.
type Pickers struct {
	Methods               []string                `yaml:"methods"` // "travel_time", "ar_aic", "baer", "kalkan", "power"
	Combine               string                  `yaml:"combine"` // "median"
	Window                float64                 `yaml:"window"`
	PArrivalShift         float64                 `yaml:"p_arrival_shift"`
	PickTravelTimeWarning float64                 `yaml:"pick_travel_time_warning"`
	PerPicker             map[string]PickerParams `yaml:"per_picker"`
}

// TypeParameters configures metric-type parameters (spec §4.7, §6 `metrics`).
type TypeParameters struct {
	SAPeriods       []float64 `yaml:"sa_periods"`
	Damping         []float64 `yaml:"damping"`
	SmoothingMethod string    `yaml:"smoothing_method"` // "konno_ohmachi"
	SmoothingParam  float64   `yaml:"smoothing_param"`  // Konno-Ohmachi bandwidth b
	FASFreqs        []float64 `yaml:"fas_freqs"`
	DurationIntervals [][2]float64 `yaml:"duration_intervals"` // e.g. [[5,75],[5,95]]
	RotDPercentiles []float64 `yaml:"rotd_percentiles"`
}

// Metrics is the `metrics` top-level config section.
type Metrics struct {
	ComponentsAndTypes  map[string][]string `yaml:"components_and_types"`
	ComponentParameters map[string]any      `yaml:"component_parameters"`
	TypeParameters      TypeParameters      `yaml:"type_parameters"`
}

// Integration is the `integration` top-level config section (spec §4.3.5, §6).
type Integration struct {
	Frequency   bool    `yaml:"frequency"` // frequency-domain vs time-domain
	Initial     string  `yaml:"initial"`   // "zero_init", "zero_mean"
	Demean      bool    `yaml:"demean"`
	TaperWidth  float64 `yaml:"taper_width"`
	TaperSide   string  `yaml:"taper_side"`
}

// Differentiation is the `differentiation` top-level config section.
type Differentiation struct {
	Frequency bool `yaml:"frequency"`
}

// Colocated is the `colocated` top-level config section.
type Colocated struct {
	Preference        []string `yaml:"preference"`
	MagnitudeOverride  bool     `yaml:"magnitude_distance_override"`
}

// Duplicate is the `duplicate` top-level config section, translated
// directly into gmtrace.DuplicatePreferences.
type Duplicate struct {
	ProcessLevelOrder  []string `yaml:"process_level_order"`
	SourceFormatOrder  []string `yaml:"source_format_order"`
	PreferredLocation  []string `yaml:"preferred_location"`
	DistanceToleranceM float64  `yaml:"distance_tolerance_m"`
}

// Config is the merged, hierarchical configuration document consumed by
// the core (spec §6).
type Config struct {
	Processing      []ProgramStep          `yaml:"processing"`
	Windows         Windows                `yaml:"windows"`
	CheckStream     CheckStream            `yaml:"check_stream"`
	Pickers         Pickers                `yaml:"pickers"`
	Metrics         Metrics                `yaml:"metrics"`
	Integration     Integration            `yaml:"integration"`
	Differentiation Differentiation        `yaml:"differentiation"`
	Colocated       Colocated              `yaml:"colocated"`
	Duplicate       Duplicate              `yaml:"duplicate"`
	GMMSelection    map[string]string      `yaml:"gmm_selection"`
}

// processLevelByName maps the YAML vocabulary onto gmtrace.ProcessLevel.
var processLevelByName = map[string]gmtrace.ProcessLevel{
	"raw": gmtrace.ProcessLevelRaw,
	"v0":  gmtrace.ProcessLevelV0,
	"v1":  gmtrace.ProcessLevelV1,
	"v2":  gmtrace.ProcessLevelV2,
}

// DuplicatePreferences translates the `duplicate` config section into the
// gmtrace-native preference struct.
func (d Duplicate) DuplicatePreferences() gmtrace.DuplicatePreferences {
	out := gmtrace.DefaultDuplicatePreferences()
	if len(d.ProcessLevelOrder) > 0 {
		levels := make([]gmtrace.ProcessLevel, 0, len(d.ProcessLevelOrder))
		for _, name := range d.ProcessLevelOrder {
			if lvl, ok := processLevelByName[name]; ok {
				levels = append(levels, lvl)
			}
		}
		out.ProcessLevelOrder = levels
	}
	if len(d.SourceFormatOrder) > 0 {
		out.SourceFormatOrder = d.SourceFormatOrder
	}
	if len(d.PreferredLocation) > 0 {
		out.PreferredLocation = d.PreferredLocation
	}
	if d.DistanceToleranceM > 0 {
		out.DistanceToleranceM = d.DistanceToleranceM
	}
	return out
}

// ParseYAML unmarshals a single configuration document from YAML bytes
// (spec §6: user documents override the default document key-by-key).
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("gmconfig: parse: %w", err)
	}
	return &cfg, nil
}
