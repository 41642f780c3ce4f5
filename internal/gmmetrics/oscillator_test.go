package gmmetrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sineAccel(n int, dt, freqHz, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freqHz*float64(i)*dt)
	}
	return out
}

func TestSAAtZeroPeriodApproximatesPGA(t *testing.T) {
	// A very short period (stiff oscillator, natural frequency far above
	// the forcing frequency) should track the input almost exactly: peak absolute
	// acceleration response should approach PGA.
	dt := 0.005
	accel := sineAccel(4000, dt, 1.0, 1.0)
	_, _, peakAbsAccel := SA(accel, dt, 0.01, 0.05)
	assert.InDelta(t, PGA(accel), peakAbsAccel, 0.15)
}

func TestSAIsZeroForZeroInput(t *testing.T) {
	accel := make([]float64, 1000)
	peakDisp, peakVel, peakAbsAccel := SA(accel, 0.01, 1.0, 0.05)
	assert.Equal(t, 0.0, peakDisp)
	assert.Equal(t, 0.0, peakVel)
	assert.Equal(t, 0.0, peakAbsAccel)
}

func TestPSAMatchesOmegaSquaredTimesDisplacement(t *testing.T) {
	dt := 0.01
	accel := sineAccel(2000, dt, 2.0, 2.0)
	period := 0.5
	damping := 0.05
	peakDisp, _, _ := SA(accel, dt, period, damping)
	psa := PSA(accel, dt, period, damping)
	omega := 2 * math.Pi / period
	assert.InDelta(t, omega*omega*peakDisp, psa, 1e-9)
}

func TestMaybeUpsampleLeavesLongPeriodsUntouched(t *testing.T) {
	dt := 0.01
	out := maybeUpsample(make([]float64, 100), &dt, 2.0)
	assert.Equal(t, 100, len(out))
	assert.Equal(t, 0.01, dt)
}

func TestMaybeUpsampleRefinesShortPeriods(t *testing.T) {
	dt := 0.02
	n := 100
	out := maybeUpsample(make([]float64, n), &dt, 0.03)
	assert.Greater(t, len(out), n)
	assert.Less(t, dt, 0.02)
}

func TestLanczosUpsamplePreservesLength(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.2)
	}
	up := lanczosUpsample(x, 4)
	assert.Equal(t, 200, len(up))
}
