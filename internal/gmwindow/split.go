// Package gmwindow implements the signal/noise windowing engine:
// split-time (P-wave pick) estimation, signal-end estimation, window
// sanity checks, and the record cut itself (spec.md §4.2).
package gmwindow

import (
	"math"
	"sort"
	"time"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// assumedCrustalVelocityKmS is the constant-velocity 1-D earth model used
// by the travel-time picker (spec §4.2.1 "travel-time on a configured 1-D
// earth model"). A single P-wave velocity is a deliberately simplified
// stand-in for a layered velocity model: plausible for shallow crustal
// events within the corner-selection test scenarios this module targets.
const assumedCrustalVelocityKmS = 6.0

// travelTimePick estimates the P-arrival as event time + distance/velocity,
// expressed as seconds from the trace start.
func travelTimePick(event gmtrace.ScalarEvent, tr *gmtrace.Trace) (float64, bool) {
	distKM := gmtrace.EpicentralDistanceKM(event, tr)
	travelSeconds := distKM / assumedCrustalVelocityKmS
	arrival := event.Time.Add(time.Duration(travelSeconds * float64(time.Second)))
	return arrival.Sub(tr.StartTime).Seconds(), true
}

// arAicPick implements an Akaike-Information-Criterion picker: for each
// candidate split index k, AIC(k) = k*log(var(x[0:k])) +
// (n-k-1)*log(var(x[k:n])); the pick is the index minimizing AIC, the
// standard AR-AIC picker formulation (spec §4.2.1 "AR-AIC").
func arAicPick(samples []float64, dt float64) (float64, bool) {
	n := len(samples)
	if n < 10 {
		return 0, false
	}
	best := math.Inf(1)
	bestIdx := -1
	for k := 2; k < n-2; k++ {
		v1 := variance(samples[:k])
		v2 := variance(samples[k:])
		if v1 <= 0 {
			v1 = 1e-12
		}
		if v2 <= 0 {
			v2 = 1e-12
		}
		aic := float64(k)*math.Log(v1) + float64(n-k-1)*math.Log(v2)
		if aic < best {
			best = aic
			bestIdx = k
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return float64(bestIdx) * dt, true
}

// baerPick implements a simplified Baer-Kradolfer style picker: the first
// sample where a short-term/long-term energy ratio crosses a fixed
// threshold (spec §4.2.1 "Baer").
func baerPick(samples []float64, dt float64) (float64, bool) {
	return staltaOnsetPick(samples, dt, 0.5, 5.0, 3.5)
}

// kalkanPick implements a simplified Kalkan-Gulkan style picker, using a
// longer short-term window than baerPick to emphasize the energy buildup
// the Kalkan & Gulkan method is tuned for (spec §4.2.1 "Kalkan").
func kalkanPick(samples []float64, dt float64) (float64, bool) {
	return staltaOnsetPick(samples, dt, 1.0, 10.0, 3.0)
}

// powerPick picks the first sample where a short-window power estimate
// exceeds a multiple of the whole-record median power (spec §4.2.1
// "power").
func powerPick(samples []float64, dt float64) (float64, bool) {
	n := len(samples)
	win := int(1.0 / dt)
	if win < 2 || n < win*4 {
		return 0, false
	}
	powers := make([]float64, n-win)
	for i := range powers {
		powers[i] = variance(samples[i : i+win])
	}
	sorted := append([]float64(nil), powers...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	threshold := median * 6
	for i, p := range powers {
		if p > threshold {
			return float64(i) * dt, true
		}
	}
	return 0, false
}

// staltaOnsetPick returns the time of the first short-term/long-term
// average ratio crossing above threshold.
func staltaOnsetPick(samples []float64, dt, staSec, ltaSec, threshold float64) (float64, bool) {
	sta := int(staSec / dt)
	lta := int(ltaSec / dt)
	if sta < 1 || lta <= sta || len(samples) < lta+sta {
		return 0, false
	}
	for i := lta; i < len(samples)-sta; i++ {
		staEnergy := meanSquare(samples[i : i+sta])
		ltaEnergy := meanSquare(samples[i-lta : i])
		if ltaEnergy <= 0 {
			continue
		}
		if staEnergy/ltaEnergy >= threshold {
			return float64(i) * dt, true
		}
	}
	return 0, false
}

func variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	var ss float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(x))
}

func meanSquare(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	if len(x) == 0 {
		return 0
	}
	return sum / float64(len(x))
}

// Split computes the noise/signal boundary for a trace, per spec §4.2.1:
// combine candidate picks from the configured pickers (median), apply
// p_arrival_shift, and fail the trace with no_valid_pick if no candidate
// was produced. If cfg.NoNoise is set, the split is the record start.
// Split never returns an error: a picking failure is a DataError,
// recorded on the trace, not propagated (see gmerrors).
func Split(tr *gmtrace.Trace, event gmtrace.ScalarEvent, cfg gmconfig.Pickers, noNoise bool, at time.Time) {
	if noNoise {
		tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 0, Method: "no_noise"})
		tr.AppendProvenance("signal_split", at, map[string]string{"method": "no_noise"})
		return
	}

	candidates := map[string]float64{}
	methods := cfg.Methods
	if len(methods) == 0 {
		methods = []string{"travel_time", "ar_aic", "power"}
	}
	for _, m := range methods {
		switch m {
		case "travel_time":
			if s, ok := travelTimePick(event, tr); ok {
				candidates["travel_time"] = s
			}
		case "ar_aic":
			if s, ok := arAicPick(tr.Samples, tr.DeltaT); ok {
				candidates["ar_aic"] = s
			}
		case "baer":
			if s, ok := baerPick(tr.Samples, tr.DeltaT); ok {
				candidates["baer"] = s
			}
		case "kalkan":
			if s, ok := kalkanPick(tr.Samples, tr.DeltaT); ok {
				candidates["kalkan"] = s
			}
		case "power":
			if s, ok := powerPick(tr.Samples, tr.DeltaT); ok {
				candidates["power"] = s
			}
		}
	}

	if len(candidates) == 0 {
		tr.Fail("no_valid_pick", "signal_split", "no picker produced a candidate")
		return
	}

	// Aggregate picks within cfg.Window of the travel-time estimate by
	// median (spec §4.2.1); if no travel-time candidate exists, use all
	// candidates.
	values := make([]float64, 0, len(candidates))
	if ttPick, ok := candidates["travel_time"]; ok && cfg.Window > 0 {
		for _, v := range candidates {
			if math.Abs(v-ttPick) <= cfg.Window {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			values = append(values, ttPick)
		}
	} else {
		for _, v := range candidates {
			values = append(values, v)
		}
	}

	disagreement := spreadExceeds(values, cfg.PickTravelTimeWarning)
	pickSeconds := median(values) + cfg.PArrivalShift

	tr.SetParam(gmtrace.KeyPick, gmtrace.Parameter{
		Kind: gmtrace.ParamPick,
		Pick: gmtrace.PickResult{TimeSeconds: pickSeconds, Candidates: candidates, Disagreement: disagreement},
	})
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: pickSeconds, Method: "pick"})
	tr.AppendProvenance("signal_split", at, map[string]string{
		"method":       "pick",
		"split_offset": formatSeconds(pickSeconds),
	})
}

func spreadExceeds(values []float64, warning float64) bool {
	if warning <= 0 || len(values) < 2 {
		return false
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max-min > warning
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
