package gmfilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func driftingSignal(n int, dt float64) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) * dt
		samples[i] = 1000 + 0.5*t + 3*math.Sin(2*math.Pi*2*t)
	}
	return samples
}

func TestDetrendLinearOrthogonality(t *testing.T) {
	dt := 0.01
	samples := driftingSignal(1000, dt)
	scale := 0.0
	for _, s := range samples {
		if math.Abs(s) > scale {
			scale = math.Abs(s)
		}
	}

	require.NoError(t, Detrend(samples, dt, DetrendLinear, 0, 0))

	tAxis := make([]float64, len(samples))
	for i := range tAxis {
		tAxis[i] = float64(i) * dt
	}
	_, slope := stat.LinearRegression(tAxis, samples, nil, false)

	assert.LessOrEqual(t, math.Abs(slope), 1e-10*scale,
		"spec §8 property 3: residual slope must be <= 1e-10 of signal scale")
}

func TestDetrendDemean(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	require.NoError(t, Detrend(samples, 1, DetrendDemean, 0, 0))
	assert.InDelta(t, 0, stat.Mean(samples, nil), 1e-12)
}

func TestDetrendConstantIsAliasOfDemean(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := append([]float64(nil), a...)
	require.NoError(t, Detrend(a, 1, DetrendDemean, 0, 0))
	require.NoError(t, Detrend(b, 1, DetrendConstant, 0, 0))
	assert.Equal(t, a, b)
}

func TestDetrendPreUsesNoiseWindowMean(t *testing.T) {
	samples := make([]float64, 100)
	for i := 0; i < 20; i++ {
		samples[i] = 5.0
	}
	for i := 20; i < 100; i++ {
		samples[i] = 100.0
	}
	require.NoError(t, Detrend(samples, 1, DetrendPre, 0, 20))
	assert.InDelta(t, 0, stat.Mean(samples[:20], nil), 1e-9)
}

func TestDetrendPreRequiresSplit(t *testing.T) {
	samples := []float64{1, 2, 3}
	assert.Error(t, Detrend(samples, 1, DetrendPre, 0, 0))
}

func TestDetrendPolynomialRemovesQuadraticTrend(t *testing.T) {
	n, dt := 500, 0.01
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) * dt
		samples[i] = 2*t*t - 3*t + 1
	}
	require.NoError(t, Detrend(samples, dt, DetrendPolynomial, 2, 0))
	for _, s := range samples {
		assert.InDelta(t, 0, s, 1e-6)
	}
}

func TestUnknownDetrendMethod(t *testing.T) {
	assert.Error(t, Detrend([]float64{1, 2, 3}, 1, "bogus", 0, 0))
}
