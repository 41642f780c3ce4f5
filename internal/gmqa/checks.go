// Package gmqa implements the QA check library (spec.md §4.6): each check
// is a step callable against a Stream, failing it with a structured
// reason when its criterion is not met.
package gmqa

import (
	"math"

	"github.com/samber/lo"

	"github.com/groundmotion/gmprocess/internal/gmfilter"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// nonFreeFieldLocationCodes and nonFreeFieldStructures are the default
// vocabularies CheckFreeField screens against when the caller supplies
// none; drawn from common strong-motion metadata conventions for
// structure-mounted (non-free-field) sensors.
var (
	defaultNonFreeFieldLocations  = []string{"B1", "B2", "B3", "RF", "99"}
	defaultNonFreeFieldStructures = []string{"building", "bridge", "dam"}
)

// CheckFreeField fails the stream if any trace's location code or
// FormatExtra["structure_type"] marks it as non-free-field (spec §4.6
// check_free_field).
func CheckFreeField(s *gmtrace.Stream, nonFreeFieldLocations, nonFreeFieldStructures []string) {
	if len(nonFreeFieldLocations) == 0 {
		nonFreeFieldLocations = defaultNonFreeFieldLocations
	}
	if len(nonFreeFieldStructures) == 0 {
		nonFreeFieldStructures = defaultNonFreeFieldStructures
	}
	for _, tr := range s.Traces {
		if lo.Contains(nonFreeFieldLocations, tr.Location) {
			s.Fail("not_free_field", "check_free_field", "location code marks trace as non-free-field")
			return
		}
		if structure, ok := tr.FormatExtra["structure_type"]; ok && lo.Contains(nonFreeFieldStructures, structure) {
			s.Fail("not_free_field", "check_free_field", "structure type marks trace as non-free-field")
			return
		}
	}
}

// CheckInstrument fails the stream if its trace count is outside
// [nMin, nMax], or if requireTwoHoriz is set and two orthogonal
// horizontals are not present (spec §4.6 check_instrument).
func CheckInstrument(s *gmtrace.Stream, nMin, nMax int, requireTwoHoriz bool) {
	n := len(s.Traces)
	if nMin > 0 && n < nMin {
		s.Fail("bad_instrument", "check_instrument", "fewer traces than n_min")
		return
	}
	if nMax > 0 && n > nMax {
		s.Fail("bad_instrument", "check_instrument", "more traces than n_max")
		return
	}
	if requireTwoHoriz && len(s.Horizontals()) < 2 {
		s.Fail("bad_instrument", "check_instrument", "fewer than two horizontal components present")
	}
}

// MaxTraces fails the stream if it has more than nMax traces (spec §4.6
// max_traces).
func MaxTraces(s *gmtrace.Stream, nMax int) {
	if nMax > 0 && len(s.Traces) > nMax {
		s.Fail("too_many_traces", "max_traces", "stream exceeds the configured maximum trace count")
	}
}

// MinSampleRate fails the trace if its sampling rate is below minSPS
// (spec §4.6 min_sample_rate).
func MinSampleRate(tr *gmtrace.Trace, minSPS float64) {
	if tr.SamplingRate() < minSPS {
		tr.Fail("low_sample_rate", "min_sample_rate", "sampling rate below configured minimum")
	}
}

// CheckMaxAmplitude fails the trace if max|sample| falls outside
// [min, max]. Spec §4.6 restricts this check to raw-count data.
func CheckMaxAmplitude(tr *gmtrace.Trace, min, max float64) {
	if tr.Metadata.UnitsType != gmtrace.UnitsCounts {
		return
	}
	peak := maxAbs(tr.Samples)
	if peak < min || peak > max {
		tr.Fail("bad_amplitude", "check_max_amplitude", "peak amplitude outside configured bounds")
	}
}

// CheckClipping estimates a clipping probability from the fraction of
// horizontal-component samples sitting within a hair of the record's own
// peak amplitude (a flat-topped waveform clips; a healthy one rarely
// revisits its peak), standing in for the neural classifier referenced
// in spec §4.6 check_clipping. Fails the stream if the estimate meets or
// exceeds threshold on any horizontal component.
func CheckClipping(s *gmtrace.Stream, threshold float64) {
	for _, tr := range s.Horizontals() {
		if clippingProbability(tr.Samples) >= threshold {
			s.Fail("clipped", "check_clipping", "estimated clipping probability at or above threshold")
			return
		}
	}
}

func clippingProbability(samples []float64) float64 {
	peak := maxAbs(samples)
	if peak == 0 {
		return 0
	}
	const nearPeakFrac = 0.995
	count := 0
	for _, s := range samples {
		if math.Abs(s) >= nearPeakFrac*peak {
			count++
		}
	}
	return float64(count) / float64(len(samples))
}

// CheckSTALTA fails the trace if its maximum short-term/long-term average
// ratio over the whole record is below threshold (spec §4.6
// check_sta_lta): a record with no clear impulsive arrival anywhere is
// presumed to be noise, not an event recording.
func CheckSTALTA(tr *gmtrace.Trace, staSeconds, ltaSeconds, threshold float64) {
	sta := int(staSeconds / tr.DeltaT)
	lta := int(ltaSeconds / tr.DeltaT)
	if sta < 1 || lta <= sta || len(tr.Samples) < lta+sta {
		tr.Fail("low_sta_lta", "check_sta_lta", "record too short for the configured STA/LTA windows")
		return
	}
	maxRatio := 0.0
	for i := lta; i < len(tr.Samples)-sta; i++ {
		staEnergy := meanSquare(tr.Samples[i : i+sta])
		ltaEnergy := meanSquare(tr.Samples[i-lta : i])
		if ltaEnergy <= 0 {
			continue
		}
		if ratio := staEnergy / ltaEnergy; ratio > maxRatio {
			maxRatio = ratio
		}
	}
	if maxRatio < threshold {
		tr.Fail("low_sta_lta", "check_sta_lta", "max STA/LTA ratio below threshold")
	}
}

// CheckZeroCrossings fails the trace if its zero-crossing rate is below
// minCrossingsPerSec (spec §4.6 check_zero_crossings).
func CheckZeroCrossings(tr *gmtrace.Trace, minCrossingsPerSec float64) {
	crossings := 0
	for i := 1; i < len(tr.Samples); i++ {
		if (tr.Samples[i-1] < 0) != (tr.Samples[i] < 0) {
			crossings++
		}
	}
	rate := float64(crossings) / tr.Duration()
	if rate < minCrossingsPerSec {
		tr.Fail("low_zero_crossings", "check_zero_crossings", "zero-crossing rate below threshold")
	}
}

// CheckTail fails the trace if the last `durationSeconds` of the record
// carries a disproportionate share of its velocity or displacement peak
// (spec §4.6 check_tail): max|tail_velocity|/max|velocity| > maxVelRatio,
// or the same test on displacement.
func CheckTail(tr *gmtrace.Trace, durationSeconds, maxVelRatio, maxDisRatio float64) {
	vel := gmfilter.IntegrateTimeDomain(tr.Samples, tr.DeltaT, gmfilter.IntegrateTimeZeroInit)
	disp := gmfilter.IntegrateTimeDomain(vel, tr.DeltaT, gmfilter.IntegrateTimeZeroInit)

	tailLen := int(durationSeconds / tr.DeltaT)
	if tailLen >= len(vel) {
		tailLen = len(vel)
	}
	tailStart := len(vel) - tailLen

	velRatio := ratioOfTail(vel, tailStart)
	disRatio := ratioOfTail(disp, tailStart)

	if velRatio > maxVelRatio || disRatio > maxDisRatio {
		tr.Fail("bad_tail", "check_tail", "tail amplitude ratio exceeds configured maximum")
	}
}

func ratioOfTail(series []float64, tailStart int) float64 {
	whole := maxAbs(series)
	if whole == 0 {
		return 0
	}
	return maxAbs(series[tailStart:]) / whole
}

func maxAbs(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	abs := make([]float64, len(samples))
	for i, s := range samples {
		abs[i] = math.Abs(s)
	}
	return lo.Max(abs)
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
