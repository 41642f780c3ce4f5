package gmfilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegrateFrequencyDomainOfCosineIsSine(t *testing.T) {
	n, dt := 1024, 0.01
	freq := 2.0
	omega := 2 * math.Pi * freq
	accel := make([]float64, n)
	for i := range accel {
		t := float64(i) * dt
		accel[i] = omega * math.Cos(omega*t) // derivative of sin(omega t)
	}

	vel := IntegrateFrequencyDomain(accel, dt)
	// Compare shape, ignoring the DC/edge artifacts inherent to FFT-based
	// integration, by checking the midpoint region tracks sin(omega t).
	mid := n / 2
	expected := math.Sin(omega * float64(mid) * dt)
	assert.InDelta(t, expected, vel[mid], 0.2)
}

func TestIntegrateTimeDomainZeroInitStartsAtZero(t *testing.T) {
	samples := []float64{1, 1, 1, 1}
	out := IntegrateTimeDomain(samples, 1.0, IntegrateTimeZeroInit)
	assert.Equal(t, 0.0, out[0])
}

func TestIntegrateTimeDomainZeroMeanHasZeroMean(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	out := IntegrateTimeDomain(samples, 1.0, IntegrateTimeZeroMean)
	assert.InDelta(t, 0, Mean(out), 1e-9)
}

func TestDifferentiateRecoversConstantSlope(t *testing.T) {
	dt := 0.1
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 3.0 * float64(i) * dt
	}
	d := Differentiate(samples, dt)
	for _, v := range d[1 : len(d)-1] {
		assert.InDelta(t, 3.0, v, 1e-9)
	}
}
