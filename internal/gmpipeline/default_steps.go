package gmpipeline

import (
	"strconv"
	"time"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmdsp"
	"github.com/groundmotion/gmprocess/internal/gmfilter"
	"github.com/groundmotion/gmprocess/internal/gmqa"
	"github.com/groundmotion/gmprocess/internal/gmresponse"
	"github.com/groundmotion/gmprocess/internal/gmsnr"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
	"github.com/groundmotion/gmprocess/internal/gmwindow"
)

// buildDefaultRegistry wires every step function from gmwindow, gmsnr,
// gmfilter, gmresponse, and gmqa under the step names spec §4.2-§4.6
// name them by. Each wrapper is responsible for per-trace iteration and
// for skipping already-failed traces, satisfying §4.1's "steps MUST be
// idempotent on already-failed streams" by making that a no-op rather
// than re-running the step's arithmetic on dead data.
func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("signal_split", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmwindow.Split(tr, event, cfg.Pickers, paramBool(params, "no_noise", cfg.Windows.NoNoise), referenceTime(event))
		})
	})

	r.Register("signal_end", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		regime := paramString(params, "regime", "")
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmwindow.SignalEnd(tr, event, cfg.Windows.SignalEnd, cfg.Windows.Regions, regime, referenceTime(event))
		})
	})

	r.Register("window_check", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmwindow.CheckWindow(tr, cfg.Windows.WindowChecks)
		})
	})

	r.Register("cut", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		secBefore := paramFloat(params, "sec_before_split", 5.0)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmwindow.Cut(tr, secBefore, referenceTime(event))
		})
	})

	r.Register("compute_snr", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		fMin := paramFloat(params, "fmin", 0.1)
		fMax := paramFloat(params, "fmax", 20.0)
		gridSize := paramInt(params, "nfreq", 64)
		bandwidth := paramFloat(params, "bandwidth", gmdsp.DefaultKonnoOhmachiBandwidth)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmsnr.ComputeSNR(tr, fMin, fMax, gridSize, bandwidth, referenceTime(event))
		})
	})

	r.Register("check_snr", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		fMin := paramFloat(params, "fmin", 0.1)
		if paramString(params, "min_freq", "") == "f0" {
			fMin = gmsnr.BruneF0Bound(event.Magnitude,
				paramFloat(params, "stress_drop", 10.0),
				paramFloat(params, "shear_vel", 3.7),
				paramFloat(params, "floor", 0.1),
				paramFloat(params, "ceiling", 2.0))
		}
		fMax := paramFloat(params, "fmax", 20.0)
		threshold := paramFloat(params, "threshold", 3.0)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmsnr.CheckSNR(tr, fMin, fMax, threshold)
		})
	})

	r.Register("corner_frequencies", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		switch paramString(params, "method", "constant") {
		case "constant":
			hp := paramFloat(params, "highpass", 0.08)
			lp := paramFloat(params, "lowpass", 20.0)
			forEachLiveTrace(s, func(tr *gmtrace.Trace) {
				gmsnr.SelectConstant(tr, hp, lp, referenceTime(event))
			})
		case "magnitude":
			forEachLiveTrace(s, func(tr *gmtrace.Trace) {
				gmsnr.SelectMagnitude(tr, event.Magnitude, gmsnr.DefaultMagnitudeBands, referenceTime(event))
			})
		case "snr":
			threshold := paramFloat(params, "threshold", 3.0)
			sameHoriz := paramBool(params, "same_horiz", true)
			gmsnr.SelectSNR(liveTraces(s), threshold, sameHoriz, referenceTime(event))
		}
	})

	r.Register("lowpass_cap", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		fnFac := paramFloat(params, "fn_fac", 0.9)
		lpMax := paramFloat(params, "lp_max", 40.0)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmsnr.ApplyLowpassCap(tr, fnFac, lpMax, referenceTime(event))
		})
	})

	r.Register("ridder_fchp", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		maxFC := paramFloat(params, "maxfc", 1.0)
		target := paramFloat(params, "target", 0.02)
		tol := paramFloat(params, "tol", 1e-4)
		order := paramInt(params, "order", 5)
		maxIter := paramInt(params, "max_iterations", 30)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			corners, ok := tr.CornerFrequencies()
			if !ok {
				tr.Fail("missing_corner_frequencies", "ridder_fchp", "ridder_fchp requires corner_frequencies to have run first")
				return
			}
			gmsnr.RefineHighPass(tr, corners.HighPass, maxFC, target, tol, order, maxIter, gmsnr.RidderFrequencyDomain, referenceTime(event))
		})
	})

	r.Register("detrend", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		method := gmfilter.DetrendMethod(paramString(params, "detrending_method", "linear"))
		order := paramInt(params, "order", 3)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			if method == gmfilter.DetrendBaselineSixth {
				result := gmfilter.BaselineSixthOrder(tr.Samples, tr.DeltaT)
				tr.SetParam(gmtrace.KeyBaselineFit, gmtrace.Parameter{Kind: gmtrace.ParamBaselineFit, BaselineFit: gmtrace.BaselineFit{Coefficients: result.Coefficients}})
				copy(tr.Samples, result.Corrected)
				tr.AppendProvenance("detrend", referenceTime(event), map[string]string{"method": string(method)})
				return
			}
			split, hasSplit := tr.SignalSplit()
			splitSample := 0
			if hasSplit {
				splitSample = int(split.SplitSeconds / tr.DeltaT)
			}
			if err := gmfilter.Detrend(tr.Samples, tr.DeltaT, method, order, splitSample); err != nil {
				tr.Fail("detrend_failed", "detrend", err.Error())
				return
			}
			tr.AppendProvenance("detrend", referenceTime(event), map[string]string{"method": string(method)})
		})
	})

	r.Register("taper", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		width := paramFloat(params, "width", 0.05)
		side := tapSideFromString(paramString(params, "side", "both"))
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmdsp.ApplyTaper(tr.Samples, width, side)
			tr.AppendProvenance("taper", referenceTime(event), map[string]string{"width": strconv.FormatFloat(width, 'g', -1, 64)})
		})
	})

	r.Register("filter", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		order := paramInt(params, "order", 5)
		passes := paramInt(params, "passes", 2)
		domain := filterDomainFromString(paramString(params, "domain", "frequency_domain"))
		kind := filterKindFromString(paramString(params, "kind", "bandpass"))
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			corners, ok := tr.CornerFrequencies()
			if !ok {
				tr.Fail("missing_corner_frequencies", "filter", "filter requires corner_frequencies to have run first")
				return
			}
			var freqCorners []float64
			switch kind {
			case gmfilter.HighPass:
				freqCorners = []float64{corners.HighPass}
			case gmfilter.LowPass:
				freqCorners = []float64{corners.LowPass}
			default:
				freqCorners = []float64{corners.HighPass, corners.LowPass}
			}
			filtered, err := gmfilter.ButterworthFilter(tr.Samples, tr.DeltaT, kind, freqCorners, order, domain, passes)
			if err != nil {
				tr.Fail("filter_failed", "filter", err.Error())
				return
			}
			copy(tr.Samples, filtered)
			tr.AppendProvenance("filter", referenceTime(event), map[string]string{
				"kind": paramString(params, "kind", "bandpass"),
			})
		})
	})

	r.Register("remove_response", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		opts := gmresponse.Options{
			GainTolerance: paramFloat(params, "gain_tolerance", 0.1),
			WaterLevel:    paramFloat(params, "water_level", 0.01),
			PreFilter: gmresponse.PreFilter{
				F1: paramFloat(params, "f1", 0.001),
				F2: paramFloat(params, "f2", 0.005),
				F3: paramFloat(params, "f3", 40.0),
				F4: paramFloat(params, "f4", 50.0),
			},
		}
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmresponse.RemoveResponse(tr, opts, referenceTime(event))
		})
	})

	r.Register("check_free_field", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		gmqa.CheckFreeField(s, paramStringSlice(params, "allowed_locations"), paramStringSlice(params, "allowed_structures"))
	})

	r.Register("check_instrument", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		gmqa.CheckInstrument(s, paramInt(params, "n_min", 1), paramInt(params, "n_max", 3), paramBool(params, "require_two_horiz", true))
	})

	r.Register("max_traces", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		gmqa.MaxTraces(s, paramInt(params, "n_max", 3))
	})

	r.Register("min_sample_rate", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		minSPS := paramFloat(params, "min_sps", 1.0)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmqa.MinSampleRate(tr, minSPS)
		})
	})

	r.Register("check_max_amplitude", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		min := paramFloat(params, "min", -2e6)
		max := paramFloat(params, "max", 2e6)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmqa.CheckMaxAmplitude(tr, min, max)
		})
	})

	r.Register("check_clipping", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		gmqa.CheckClipping(s, paramFloat(params, "threshold", 0.2))
	})

	r.Register("check_sta_lta", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		sta := paramFloat(params, "sta_seconds", 1.0)
		lta := paramFloat(params, "lta_seconds", 20.0)
		threshold := paramFloat(params, "threshold", 3.0)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmqa.CheckSTALTA(tr, sta, lta, threshold)
		})
	})

	r.Register("check_zero_crossings", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		minPerSec := paramFloat(params, "min_crossings_per_second", 0.1)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmqa.CheckZeroCrossings(tr, minPerSec)
		})
	})

	r.Register("check_tail", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		duration := paramFloat(params, "duration_seconds", 5.0)
		maxVel := paramFloat(params, "max_vel_ratio", 0.2)
		maxDis := paramFloat(params, "max_dis_ratio", 0.2)
		forEachLiveTrace(s, func(tr *gmtrace.Trace) {
			gmqa.CheckTail(tr, duration, maxVel, maxDis)
		})
	})

	r.Register("trim_multiple_events", func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		catalog := paramCatalog(params, "catalog")
		travelTimes := paramTravelTimes(params, "travel_times")
		if len(catalog) == 0 || len(travelTimes) == 0 {
			return
		}
		pctWindowReject := paramFloat(params, "pct_window_reject", 0.25)
		gmqa.TrimMultipleEvents(s, catalog, travelTimes, pctWindowReject)
	})

	return r
}

func forEachLiveTrace(s *gmtrace.Stream, fn func(tr *gmtrace.Trace)) {
	for _, tr := range s.Traces {
		if tr.Failed {
			continue
		}
		fn(tr)
	}
}

func liveTraces(s *gmtrace.Stream) []*gmtrace.Trace {
	out := make([]*gmtrace.Trace, 0, len(s.Traces))
	for _, tr := range s.Traces {
		if !tr.Failed {
			out = append(out, tr)
		}
	}
	return out
}

func referenceTime(event gmtrace.ScalarEvent) time.Time {
	if event.Time.IsZero() {
		return time.Now().UTC()
	}
	return event.Time
}

func tapSideFromString(s string) gmdsp.Side {
	switch s {
	case "left":
		return gmdsp.SideLeft
	case "right":
		return gmdsp.SideRight
	default:
		return gmdsp.SideBoth
	}
}

func filterDomainFromString(s string) gmfilter.Domain {
	if s == "time_domain" {
		return gmfilter.TimeDomain
	}
	return gmfilter.FrequencyDomain
}

func filterKindFromString(s string) gmfilter.FilterKind {
	switch s {
	case "highpass":
		return gmfilter.HighPass
	case "lowpass":
		return gmfilter.LowPass
	case "bandstop":
		return gmfilter.BandStop
	default:
		return gmfilter.BandPass
	}
}
