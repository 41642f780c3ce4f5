// Package gmresponse implements instrument response removal: type
// detection, stage-gain/sensitivity consistency checks, units checks, and
// pole-zero deconvolution or sensitivity-only correction (spec.md §4.5).
package gmresponse

import (
	"math"
	"strconv"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// PreFilter is the cosine-taper pre-filter corner quartet [f1, f2, f3, f4]
// applied before pole-zero deconvolution (spec §4.5 step 4).
type PreFilter struct {
	F1, F2, F3, F4 float64
}

// Options configures RemoveResponse.
type Options struct {
	GainTolerance float64 // relative tolerance for stage-gain vs sensitivity agreement
	WaterLevel    float64 // 0 disables full deconvolution
	PreFilter     PreFilter
}

const (
	accelerationUnits = "m/s**2"
	velocityUnits     = "m/s"
	cmPerM            = 100.0
)

// RemoveResponse applies spec §4.5's decision flow to tr in place and
// records a `remove_response` provenance entry. Output is acceleration in
// cm/s^2 regardless of the correction method used. A stage-gain/
// sensitivity disagreement beyond tolerance is a hard failure
// (sensitivity_mismatch); it does not fall through to the sensitivity-
// only correction, since the sensitivity itself is then suspect.
func RemoveResponse(tr *gmtrace.Trace, opts Options, at time.Time) {
	isAccelerometer := tr.IsAccelerometer()

	if !checkStageGainConsistency(tr, opts.GainTolerance) {
		return
	}
	if !checkUnitsConsistency(tr, isAccelerometer) {
		return
	}

	stagesComplete := len(tr.ResponseStages) > 0

	switch {
	case stagesComplete && opts.WaterLevel > 0:
		deconvolve(tr, opts)
		convertToAccelCmS2(tr, isAccelerometer)
		tr.AppendProvenance("remove_response", at, map[string]string{
			"method":      "pole_zero",
			"water_level": formatFloat(opts.WaterLevel),
		})
	case isAccelerometer && tr.Sensitivity.Value > 0:
		sensitivityOnlyCorrection(tr)
		convertToAccelCmS2(tr, isAccelerometer)
		tr.AppendProvenance("remove_response", at, map[string]string{
			"method": "sensitivity",
		})
	default:
		tr.Fail("bad_response_metadata", "remove_response", "no consistent response metadata available")
	}
}

// checkStageGainConsistency computes the product of stage gains and fails
// the trace if it disagrees with the overall sensitivity by more than
// tolerance (relative), per spec §4.5 step 2. Returns false if it failed
// the trace; a trace with no stages at all is not a mismatch (stages are
// simply absent, handled downstream by the sensitivity-only fallback).
func checkStageGainConsistency(tr *gmtrace.Trace, tolerance float64) bool {
	if len(tr.ResponseStages) == 0 || tr.Sensitivity.Value == 0 {
		return true
	}
	product := 1.0
	for _, s := range tr.ResponseStages {
		product *= s.Gain
	}
	if tolerance <= 0 {
		tolerance = 0.05
	}
	relDiff := math.Abs(product-tr.Sensitivity.Value) / math.Abs(tr.Sensitivity.Value)
	if relDiff > tolerance {
		tr.Fail("sensitivity_mismatch", "remove_response", "stage gain product disagrees with overall sensitivity")
		return false
	}
	return true
}

// checkUnitsConsistency validates the last response stage's output units
// against the expected physical quantity for the instrument type (spec
// §4.5 step 3). The overall sensitivity units are not checked.
func checkUnitsConsistency(tr *gmtrace.Trace, isAccelerometer bool) bool {
	expected := velocityUnits
	if isAccelerometer {
		expected = accelerationUnits
	}
	if len(tr.ResponseStages) > 0 {
		last := tr.ResponseStages[len(tr.ResponseStages)-1]
		if last.OutputUnits != "" && last.OutputUnits != expected {
			tr.Fail("bad_response_metadata", "remove_response", "composed stage units do not match instrument type")
			return false
		}
	}
	return true
}

// deconvolve performs full pole-zero instrument response removal: cosine-
// taper pre-filtering in the frequency domain, division by the composed
// pole-zero transfer function with water-level regularization.
func deconvolve(tr *gmtrace.Trace, opts Options) {
	n := len(tr.Samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, tr.Samples)

	overallGain := 1.0
	for _, s := range tr.ResponseStages {
		overallGain *= s.Gain
	}

	var poles, zeros []complex128
	for _, s := range tr.ResponseStages {
		poles = append(poles, s.Poles...)
		zeros = append(zeros, s.Zeros...)
	}

	waterLevelFloor := opts.WaterLevel * maxPoleZeroMagnitude(poles, zeros, overallGain, tr.DeltaT, n)

	for i := range coeffs {
		f := fft.Freq(i) / tr.DeltaT
		h := transferFunction(poles, zeros, overallGain, f)
		mag := math.Hypot(real(h), imag(h))
		if mag < waterLevelFloor {
			// Regularize toward the water level rather than dividing by a
			// near-zero response (spec §4.5 "water-level regularization").
			if mag == 0 {
				h = complex(waterLevelFloor, 0)
			} else {
				h *= complex(waterLevelFloor/mag, 0)
			}
		}
		taper := preFilterWeight(f, opts.PreFilter)
		coeffs[i] = coeffs[i] / h * complex(taper, 0)
	}

	samples := fft.Sequence(nil, coeffs)
	for i := range samples {
		samples[i] /= float64(n)
	}
	tr.Samples = samples
}

// transferFunction evaluates the pole-zero response H(f) = g * prod(i*2*pi*f - z) / prod(i*2*pi*f - p).
func transferFunction(poles, zeros []complex128, gain, f float64) complex128 {
	s := complex(0, 2*math.Pi*f)
	num := complex(gain, 0)
	for _, z := range zeros {
		num *= s - z
	}
	den := complex(1, 0)
	for _, p := range poles {
		den *= s - p
	}
	if den == 0 {
		return complex(1e-30, 0)
	}
	return num / den
}

// maxPoleZeroMagnitude scans the transfer function across the sampled
// frequency grid to establish the scale the water level is a fraction of.
func maxPoleZeroMagnitude(poles, zeros []complex128, gain, dt float64, n int) float64 {
	fft := fourier.NewFFT(n)
	max := 0.0
	for i := 0; i < n/2+1; i++ {
		f := fft.Freq(i) / dt
		h := transferFunction(poles, zeros, gain, f)
		if mag := math.Hypot(real(h), imag(h)); mag > max {
			max = mag
		}
	}
	return max
}

// preFilterWeight evaluates the cosine-taper pre-filter at frequency f:
// zero below f1, cosine ramp up to 1 over [f1,f2], flat through [f2,f3],
// cosine ramp down to zero over [f3,f4], zero above f4 (spec §4.5).
func preFilterWeight(f float64, pf PreFilter) float64 {
	f = math.Abs(f)
	if pf.F4 == 0 {
		return 1 // pre-filter not configured
	}
	switch {
	case f < pf.F1 || f > pf.F4:
		return 0
	case f < pf.F2:
		return cosineRamp(f, pf.F1, pf.F2)
	case f <= pf.F3:
		return 1
	default:
		return 1 - cosineRamp(f, pf.F3, pf.F4)
	}
}

func cosineRamp(f, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	frac := (f - lo) / (hi - lo)
	return 0.5 * (1 - math.Cos(math.Pi*frac))
}

// sensitivityOnlyCorrection divides by the overall sensitivity, the
// fallback used for accelerometers without full pole-zero metadata
// (spec §4.5 step 4).
func sensitivityOnlyCorrection(tr *gmtrace.Trace) {
	for i := range tr.Samples {
		tr.Samples[i] /= tr.Sensitivity.Value
	}
}

// convertToAccelCmS2 converts the corrected series to acceleration in
// cm/s^2: velocity is differentiated first, then meters are converted to
// centimeters (spec §4.5 "output is expressed as acceleration in cm/s^2").
func convertToAccelCmS2(tr *gmtrace.Trace, isAccelerometer bool) {
	if !isAccelerometer {
		differentiateInPlace(tr)
	}
	for i := range tr.Samples {
		tr.Samples[i] *= cmPerM
	}
	tr.Metadata.UnitsType = gmtrace.UnitsAcceleration
	tr.Metadata.Units = "cm/s**2"
}

// differentiateInPlace applies a Hann-tapered centered-difference
// derivative; tapering first avoids amplifying edge transients the way
// raw finite differencing would on an untapered velocity record.
func differentiateInPlace(tr *gmtrace.Trace) {
	n := len(tr.Samples)
	if n < 2 {
		return
	}
	win := make([]float64, n)
	for i := range win {
		win[i] = 1.0
	}
	win = window.Hann(win)
	tapered := make([]float64, n)
	for i, s := range tr.Samples {
		tapered[i] = s * win[i]
	}
	out := make([]float64, n)
	out[0] = (tapered[1] - tapered[0]) / tr.DeltaT
	out[n-1] = (tapered[n-1] - tapered[n-2]) / tr.DeltaT
	for i := 1; i < n-1; i++ {
		out[i] = (tapered[i+1] - tapered[i-1]) / (2 * tr.DeltaT)
	}
	tr.Samples = out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
