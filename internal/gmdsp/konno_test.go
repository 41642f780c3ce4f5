package gmdsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKonnoOhmachiWeightPeaksAtCenter(t *testing.T) {
	assert.Equal(t, 1.0, konnoOhmachiWeight(5.0, 5.0, 40))
	assert.Less(t, konnoOhmachiWeight(10.0, 5.0, 40), 1.0)
}

func TestKonnoOhmachiSmoothPreservesFlatSpectrum(t *testing.T) {
	src := LogSpace(0.1, 50, 200)
	amps := make([]float64, len(src))
	for i := range amps {
		amps[i] = 2.0
	}
	target := LogSpace(0.5, 20, 10)
	smoothed := KonnoOhmachiSmooth(src, amps, target, 40)
	for _, v := range smoothed {
		assert.InDelta(t, 2.0, v, 1e-6, "smoothing a flat spectrum must not change its level")
	}
}

func TestLogSpaceEndpoints(t *testing.T) {
	freqs := LogSpace(0.1, 10, 5)
	assert.InDelta(t, 0.1, freqs[0], 1e-9)
	assert.InDelta(t, 10, freqs[len(freqs)-1], 1e-9)
}
