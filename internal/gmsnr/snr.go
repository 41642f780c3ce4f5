// Package gmsnr implements the corner-frequency and signal-to-noise ratio
// subsystem: SNR computation and checking, corner-frequency selection,
// the lowpass cap, and Ridder's-method highpass refinement (spec.md §4.3).
package gmsnr

import (
	"math"
	"strconv"
	"time"

	"github.com/groundmotion/gmprocess/internal/gmdsp"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// ComputeSNR splits tr at its stored signal-split time, computes one-sided
// power spectra of the noise and signal windows, Konno-Ohmachi smooths
// both onto a shared log-spaced frequency grid, and persists SNR(f) =
// smoothed_signal(f) / smoothed_noise(f) as a trace parameter (spec
// §4.3.1). Requires a prior Split call; fails with MissingPrereq
// semantics (recorded on the trace) if no split is present.
func ComputeSNR(tr *gmtrace.Trace, fMin, fMax float64, gridSize int, bandwidth float64, at time.Time) {
	split, ok := tr.SignalSplit()
	if !ok {
		tr.Fail("missing_prereq", "compute_snr", "signal split not computed")
		return
	}
	splitIdx := int(split.SplitSeconds / tr.DeltaT)
	if splitIdx <= 0 || splitIdx >= len(tr.Samples) {
		tr.Fail("window_too_short", "compute_snr", "split time leaves no noise or signal window")
		return
	}

	noise := tr.Samples[:splitIdx]
	signal := tr.Samples[splitIdx:]

	noiseSpec := gmdsp.PowerSpectrum(noise, tr.DeltaT)
	signalSpec := gmdsp.PowerSpectrum(signal, tr.DeltaT)

	if bandwidth <= 0 {
		bandwidth = gmdsp.DefaultKonnoOhmachiBandwidth
	}
	grid := gmdsp.LogSpace(fMin, fMax, gridSize)

	smoothedNoise := gmdsp.KonnoOhmachiSmooth(noiseSpec.Freqs, noiseSpec.Amps, grid, bandwidth)
	smoothedSignal := gmdsp.KonnoOhmachiSmooth(signalSpec.Freqs, signalSpec.Amps, grid, bandwidth)

	ratio := make([]float64, len(grid))
	for i := range grid {
		if smoothedNoise[i] > 0 {
			ratio[i] = smoothedSignal[i] / smoothedNoise[i]
		} else {
			ratio[i] = math.Inf(1)
		}
	}

	tr.SetSNR(gmtrace.SNRResult{Freqs: grid, Smoothed: ratio})
	tr.AppendProvenance("compute_snr", at, map[string]string{"grid_size": strconv.Itoa(len(grid))})
}

// CheckSNR rejects the trace if SNR(f) < threshold anywhere within
// [minFreq, maxFreq] (spec §4.3.2). minFreq is a plain frequency: a
// config's `min_freq: "f0"` literal is resolved by the caller via
// BruneF0Bound before calling CheckSNR.
func CheckSNR(tr *gmtrace.Trace, minFreq, maxFreq, threshold float64) {
	snr, ok := tr.SNR()
	if !ok {
		tr.Fail("missing_prereq", "check_snr", "SNR not computed")
		return
	}
	for i, f := range snr.Freqs {
		if f < minFreq || f > maxFreq {
			continue
		}
		if snr.Smoothed[i] < threshold {
			tr.Fail("low_snr", "check_snr", "SNR below threshold within required band")
			tr.SetParam(gmtrace.KeySNR, gmtrace.Parameter{Kind: gmtrace.ParamSNR, SNR: gmtrace.SNRResult{Freqs: snr.Freqs, Smoothed: snr.Smoothed, Passed: false}})
			return
		}
	}
	tr.SetParam(gmtrace.KeySNR, gmtrace.Parameter{Kind: gmtrace.ParamSNR, SNR: gmtrace.SNRResult{Freqs: snr.Freqs, Smoothed: snr.Smoothed, Passed: true}})
}

// BruneF0Bound resolves the `min_freq: "f0"` literal from spec §4.3.2 into
// a concrete frequency: max(floor, min(ceiling, f0(mag, stress_drop,
// shear_vel))), where f0 is the Brune corner frequency.
func BruneF0Bound(magnitude, stressDropBars, shearVelKmS, floor, ceiling float64) float64 {
	m0 := math.Pow(10, 1.5*magnitude+16.05)
	f0 := 4.9e6 * shearVelKmS * math.Pow(stressDropBars/m0, 1.0/3.0)
	if f0 < floor {
		f0 = floor
	}
	if f0 > ceiling {
		f0 = ceiling
	}
	return f0
}
