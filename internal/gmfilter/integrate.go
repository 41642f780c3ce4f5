// Package gmfilter implements detrending, tapering, Butterworth
// filtering, zero padding, and the sixth-order baseline correction
// (spec.md §4.4).
package gmfilter

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// IntegrationMethod selects how IntegrateFrequencyDomain's time-domain
// siblings initialize the running sum (spec §4.3.5).
type IntegrationMethod int

const (
	IntegrateFrequency IntegrationMethod = iota
	IntegrateTimeZeroInit
	IntegrateTimeZeroMean
)

// IntegrateFrequencyDomain integrates samples (sampled at dt) once by
// dividing the FFT by iω and zeroing the DC bin, then inverse-transforming
// — the integration scheme this module standardizes on for
// detrend(baseline_sixth_order) per the Open Question resolution recorded
// in SPEC_FULL.md §9.1.
func IntegrateFrequencyDomain(samples []float64, dt float64) []float64 {
	n := len(samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	for i := range coeffs {
		if i == 0 {
			coeffs[i] = 0
			continue
		}
		omega := 2 * math.Pi * fft.Freq(i) / dt
		// divide by i*omega == multiply by -i/omega, i.e. rotate -90 deg and scale
		c := coeffs[i]
		coeffs[i] = complex(imag(c)/omega, -real(c)/omega)
	}
	out := fft.Sequence(nil, coeffs)
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// IntegrateTimeDomain performs trapezoidal time-domain integration.
// ZeroInit starts the running sum at zero (the physically-motivated
// choice when there is no reason to believe pre-record velocity was
// nonzero); ZeroMean additionally removes the mean of the integrated
// series afterward, matching spec §4.3.5's "time-domain-zero-mean" option.
func IntegrateTimeDomain(samples []float64, dt float64, method IntegrationMethod) []float64 {
	out := make([]float64, len(samples))
	var running float64
	for i := 1; i < len(samples); i++ {
		running += 0.5 * (samples[i] + samples[i-1]) * dt
		out[i] = running
	}
	if method == IntegrateTimeZeroMean {
		mean := Mean(out)
		for i := range out {
			out[i] -= mean
		}
	}
	return out
}

// Mean is the arithmetic mean of samples.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// Differentiate computes the first derivative via centered finite
// differences (spec §6 `differentiation` time-domain option).
func Differentiate(samples []float64, dt float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = (samples[1] - samples[0]) / dt
	out[n-1] = (samples[n-1] - samples[n-2]) / dt
	for i := 1; i < n-1; i++ {
		out[i] = (samples[i+1] - samples[i-1]) / (2 * dt)
	}
	return out
}

// DifferentiateFrequencyDomain computes the derivative by multiplying the
// FFT by iω (spec §6 `differentiation.frequency` option).
func DifferentiateFrequencyDomain(samples []float64, dt float64) []float64 {
	n := len(samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)
	for i := range coeffs {
		omega := 2 * math.Pi * fft.Freq(i) / dt
		c := coeffs[i]
		coeffs[i] = complex(-imag(c)*omega, real(c)*omega)
	}
	out := fft.Sequence(nil, coeffs)
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}
