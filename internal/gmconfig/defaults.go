package gmconfig

// DefaultConfig returns the built-in default configuration document that
// every user overlay is merged on top of (spec §6, SPEC_FULL §10 — shipped
// as a compiled literal since project-directory management, which would
// normally locate a config/ directory on disk, is an explicit non-goal).
func DefaultConfig() Config {
	return Config{
		Processing: []ProgramStep{
			{Name: "check_free_field"},
			{Name: "check_instrument", Params: map[string]any{"n_min": 1, "n_max": 3, "require_two_horiz": false}},
			{Name: "detrend", Params: map[string]any{"detrending_method": "demean"}},
			{Name: "signal_split"},
			{Name: "signal_end"},
			{Name: "compute_snr"},
			{Name: "check_snr", Params: map[string]any{"threshold": 3.0, "min_freq": "f0", "fmax": 40.0}},
			{Name: "corner_frequencies", Params: map[string]any{"method": "snr"}},
			{Name: "lowpass_cap", Params: map[string]any{"fn_fac": 0.75}},
			{Name: "cut"},
			{Name: "taper", Params: map[string]any{"width": 0.05, "side": "both"}},
			{Name: "filter", Params: map[string]any{"kind": "highpass", "passes": 2}},
			{Name: "filter", Params: map[string]any{"kind": "lowpass", "passes": 2}},
			{Name: "detrend", Params: map[string]any{"detrending_method": "linear"}},
			{Name: "detrend", Params: map[string]any{"detrending_method": "demean"}},
			{Name: "remove_response", Params: map[string]any{"water_level": 60.0}},
			{Name: "check_clipping", Params: map[string]any{"threshold": 0.2}},
			{Name: "check_sta_lta", Params: map[string]any{"threshold": 3.0, "sta_seconds": 1.0, "lta_seconds": 20.0}},
			{Name: "check_tail", Params: map[string]any{"duration_seconds": 5.0, "max_vel_ratio": 0.3, "max_dis_ratio": 0.3}},
		},
		Windows: Windows{
			NoNoise: false,
			SignalEnd: WindowsSignalEnd{
				Method:     "model",
				Model:      "AS18",
				Epsilon:    1.0,
				VMin:       1.0,
				Floor:      30.0,
				StressDrop: 10.0,
				Dur0:       5.0,
				Dur1:       0.5,
			},
			WindowChecks: WindowChecks{
				Enabled:           true,
				MinNoiseDuration:  5.0,
				MinSignalDuration: 5.0,
			},
		},
		CheckStream: CheckStream{AnyTraceFailures: true},
		Pickers: Pickers{
			Methods:               []string{"travel_time", "ar_aic", "power"},
			Combine:               "median",
			Window:                5.0,
			PArrivalShift:         0.0,
			PickTravelTimeWarning: 3.0,
		},
		Metrics: Metrics{
			ComponentsAndTypes: map[string][]string{
				"rotd50": {"pga", "pgv", "sa"},
				"channels": {"pga", "pgv"},
			},
			TypeParameters: TypeParameters{
				SAPeriods:         []float64{0.1, 0.2, 0.3, 0.5, 1.0, 2.0, 3.0},
				Damping:           []float64{0.05},
				SmoothingMethod:   "konno_ohmachi",
				SmoothingParam:    188.5,
				DurationIntervals: [][2]float64{{5, 75}, {5, 95}},
				RotDPercentiles:   []float64{50, 100},
			},
		},
		Integration: Integration{
			Frequency:  true,
			Initial:    "zero_init",
			Demean:     true,
			TaperWidth: 0.05,
			TaperSide:  "both",
		},
		Differentiation: Differentiation{Frequency: true},
		Colocated: Colocated{
			Preference: []string{"--", "00", "01"},
		},
		Duplicate: Duplicate{
			ProcessLevelOrder:  []string{"v1", "v2", "v0", "raw"},
			PreferredLocation:  []string{"00", "01", ""},
			DistanceToleranceM: 50.0,
		},
		GMMSelection: map[string]string{},
	}
}
