// Package gmdsp holds the small set of spectral-analysis primitives shared
// by the SNR/corner-selection subsystem (spec §4.3) and the metric engine
// (spec §4.7): one-sided FFT amplitude spectra and Konno-Ohmachi smoothing.
// Centralizing them here is what lets property 5 ("Parseval") in spec §8
// be tested once, against the single FFT code path both subsystems share.
package gmdsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is a one-sided amplitude spectrum: Freqs[i] is the frequency in
// Hz of Amps[i].
type Spectrum struct {
	Freqs []float64
	Amps  []float64
}

// OneSidedAmplitude computes the one-sided FFT amplitude spectrum of a
// real-valued time series sampled at interval dt. Amps holds amplitudes
// (|X_k|*dt, doubled for every bin except DC and the even-n Nyquist bin),
// not power, and is not divided by window duration; PowerSpectrum squares
// these amplitudes and applies the duration normalization.
func OneSidedAmplitude(samples []float64, dt float64) Spectrum {
	n := len(samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	freqs := make([]float64, len(coeffs))
	amps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		freqs[i] = fft.Freq(i) / dt
		mag := math.Hypot(real(c), imag(c))
		// Scale to a continuous-spectrum amplitude: two-sided energy
		// folded into one side (all bins except DC and, for even n, the
		// Nyquist bin, appear twice in the original two-sided spectrum).
		scale := dt
		if i != 0 && !(n%2 == 0 && i == len(coeffs)-1) {
			scale *= 2
		}
		amps[i] = mag * scale
	}
	return Spectrum{Freqs: freqs, Amps: amps}
}

// PowerSpectrum returns squared amplitude divided by window duration, the
// normalization named explicitly in spec §4.3.1 for SNR computation.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	duration := float64(len(samples)) * dt
	amp := OneSidedAmplitude(samples, dt)
	power := make([]float64, len(amp.Amps))
	for i, a := range amp.Amps {
		power[i] = (a * a) / duration
	}
	return Spectrum{Freqs: amp.Freqs, Amps: power}
}

// Energy computes the time-domain sum-of-squares energy of a real signal,
// used to verify the Parseval relation against PowerSpectrum's frequency-
// domain total (spec §8 property 5).
func Energy(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return sum
}
