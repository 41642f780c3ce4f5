package gmwindow

import (
	"math"
	"time"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// SignalEnd computes the end of the signal window for a trace, per
// spec §4.2.2. The method used is cfg, unless the trace's event falls
// within a configured tectonic-regime override in regions, in which case
// that region's method takes precedence.
func SignalEnd(tr *gmtrace.Trace, event gmtrace.ScalarEvent, cfg gmconfig.WindowsSignalEnd, regions map[string]gmconfig.RegionOverride, regime string, at time.Time) {
	if override, ok := regions[regime]; ok {
		cfg = override.SignalEnd
	}

	splitSeconds := 0.0
	if split, ok := tr.SignalSplit(); ok {
		splitSeconds = split.SplitSeconds
	}

	var endSeconds float64
	switch cfg.Method {
	case "model":
		endSeconds = signalEndModel(event, tr, cfg, splitSeconds)
	case "source_path":
		endSeconds = signalEndSourcePath(event, tr, cfg, splitSeconds)
	case "velocity":
		endSeconds = signalEndVelocity(event, tr, cfg)
	case "magnitude":
		endSeconds = signalEndMagnitude(event, tr, splitSeconds)
	case "none":
		endSeconds = tr.Duration()
	default:
		endSeconds = tr.Duration()
	}

	if endSeconds > tr.Duration() {
		endSeconds = tr.Duration()
	}

	tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: endSeconds, Method: cfg.Method})
	tr.AppendProvenance("signal_end", at, map[string]string{
		"method":     cfg.Method,
		"end_offset": formatSeconds(endSeconds),
	})
}

// signalEndModel implements the "model" method: a linear duration model
// Ds = dur0 + dur1*epicentral_distance_km, inflated by a configurable
// number of standard deviations (epsilon) of its own residual scale
// (spec §4.2.2 "model").
func signalEndModel(event gmtrace.ScalarEvent, tr *gmtrace.Trace, cfg gmconfig.WindowsSignalEnd, splitSeconds float64) float64 {
	epiDist := gmtrace.EpicentralDistanceKM(event, tr)
	dur0, dur1 := cfg.Dur0, cfg.Dur1
	if dur0 == 0 && dur1 == 0 {
		dur0, dur1 = 10.0, 0.05
	}
	duration := dur0 + dur1*epiDist
	sigma := 0.2 * duration
	epsilon := cfg.Epsilon
	if epsilon == 0 {
		epsilon = 3.0
	}
	return splitSeconds + duration + epsilon*sigma
}

// signalEndSourcePath implements the "source_path" method: signal end is
// the split time plus the inverse corner frequency (a proxy for source
// duration) plus a distance-dependent path term (spec §4.2.2
// "source_path"). The corner frequency is estimated from the Brune model
// using the event magnitude, following the same Hanks-Kanamori moment
// conversion used elsewhere for magnitude-dependent corner selection
// (spec §4.3.3 "magnitude").
func signalEndSourcePath(event gmtrace.ScalarEvent, tr *gmtrace.Trace, cfg gmconfig.WindowsSignalEnd, splitSeconds float64) float64 {
	f0 := bruneCornerFrequencyHz(event.Magnitude)
	epiDist := gmtrace.EpicentralDistanceKM(event, tr)
	d0, d1 := cfg.Dur0, cfg.Dur1
	if d0 == 0 && d1 == 0 {
		d0, d1 = 5.0, 0.02
	}
	return splitSeconds + 1.0/f0 + d0 + d1*epiDist
}

// signalEndVelocity implements the "velocity" method: signal end is the
// time for a wave travelling at a minimum group velocity vmin to traverse
// the epicentral distance, with a configurable floor (spec §4.2.2
// "velocity"), expressed as seconds from the trace start.
func signalEndVelocity(event gmtrace.ScalarEvent, tr *gmtrace.Trace, cfg gmconfig.WindowsSignalEnd) float64 {
	epiDist := gmtrace.EpicentralDistanceKM(event, tr)
	vmin := cfg.VMin
	if vmin <= 0 {
		vmin = 1.0 // km/s, slow surface-wave group velocity floor
	}
	travel := epiDist / vmin
	if cfg.Floor > travel {
		travel = cfg.Floor
	}
	return event.Time.Sub(tr.StartTime).Seconds() + travel
}

// signalEndMagnitude implements the "magnitude" method: a coarse lookup
// table of signal duration by magnitude band (spec §4.2.2 "magnitude"),
// used when no distance-dependent model is configured.
func signalEndMagnitude(event gmtrace.ScalarEvent, tr *gmtrace.Trace, splitSeconds float64) float64 {
	m := event.Magnitude
	var duration float64
	switch {
	case m < 4:
		duration = 15
	case m < 5:
		duration = 30
	case m < 6:
		duration = 60
	case m < 7:
		duration = 120
	default:
		duration = 240
	}
	return splitSeconds + duration
}

// bruneCornerFrequencyHz estimates the Brune (1970) source corner
// frequency from moment magnitude, via the Hanks & Kanamori (1979) moment
// conversion, using a fixed stress drop and shear-wave velocity
// (GLOSSARY "corner frequency").
func bruneCornerFrequencyHz(mw float64) float64 {
	const (
		stressDropBars = 100.0
		betaKmS        = 3.7
	)
	m0 := math.Pow(10, 1.5*mw+16.05) // dyne-cm
	return 4.9e6 * betaKmS * math.Pow(stressDropBars/m0, 1.0/3.0)
}
