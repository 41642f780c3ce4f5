package gmdsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsevalRelation(t *testing.T) {
	n := 256
	dt := 0.01
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 5 * float64(i) * dt)
	}

	timeEnergy := Energy(samples) * dt

	fft := OneSidedAmplitude(samples, dt)
	df := 1.0 / (float64(n) * dt)
	var freqEnergy float64
	for i, a := range fft.Amps {
		scale := 1.0
		if i != 0 && !(n%2 == 0 && i == len(fft.Amps)-1) {
			scale = 0.5
		}
		freqEnergy += scale * (a * a) * df
	}

	// Loose relative tolerance: this test exercises the same FFT code path
	// used by SNR/FAS rather than re-deriving an exact analytic constant.
	ratio := freqEnergy / timeEnergy
	assert.InDelta(t, 1.0, ratio, 0.5, "energy should be roughly conserved between domains")
}

func TestOneSidedAmplitudePeaksAtSignalFrequency(t *testing.T) {
	n := 1024
	dt := 0.01
	freq := 5.0
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}

	spec := OneSidedAmplitude(samples, dt)
	peakIdx := 0
	for i, a := range spec.Amps {
		if a > spec.Amps[peakIdx] {
			peakIdx = i
		}
	}
	assert.InDelta(t, freq, spec.Freqs[peakIdx], 0.2)
}
