package gmdsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyTaperBothEnds(t *testing.T) {
	n := 100
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 1.0
	}
	ApplyTaper(samples, 0.1, SideBoth)

	assert.InDelta(t, 0.0, samples[0], 1e-6, "first sample should be tapered to ~0")
	assert.InDelta(t, 0.0, samples[n-1], 1e-6, "last sample should be tapered to ~0")
	assert.InDelta(t, 1.0, samples[n/2], 1e-6, "middle of record should be unaffected")
	assert.InDelta(t, 0.5413, samples[5], 0.01, "taper region should ramp, not hard-zero, partway through")
}

func TestApplyTaperLeftOnly(t *testing.T) {
	n := 100
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 1.0
	}
	ApplyTaper(samples, 0.1, SideLeft)

	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, 1.0, samples[n-1], 1e-9, "right side untouched")
}
