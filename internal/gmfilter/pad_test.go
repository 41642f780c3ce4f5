package gmfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadForFilterAddsSymmetricZeros(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	padded := PadForFilter(samples, 0.01, 1.0, 2.0) // 1/1.0*2.0 = 2s of padding each side

	expectedPad := int(2.0/0.01) + 1
	assert.Equal(t, expectedPad, padded.PadCount)
	assert.Len(t, padded.Samples, len(samples)+2*expectedPad)
	assert.Equal(t, samples, padded.Strip())
}

func TestPadForFilterNoopWhenNoCorner(t *testing.T) {
	samples := []float64{1, 2, 3}
	padded := PadForFilter(samples, 0.01, 0, 2.0)
	assert.Equal(t, 0, padded.PadCount)
	assert.Equal(t, samples, padded.Strip())
}
