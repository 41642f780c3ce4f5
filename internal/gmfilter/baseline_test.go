package gmfilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaselineSixthOrderZeroesConstantAndLinearTerms(t *testing.T) {
	n, dt := 2000, 0.01
	accel := make([]float64, n)
	for i := range accel {
		t := float64(i) * dt
		accel[i] = math.Sin(2*math.Pi*1.5*t) + 0.002*t*t
	}

	result := BaselineSixthOrder(accel, dt)

	assert.Equal(t, 0.0, result.Coefficients[0], "spec §8 property 7: constant term must be zero")
	assert.Equal(t, 0.0, result.Coefficients[1], "spec §8 property 7: linear term must be zero")
	assert.Len(t, result.Corrected, n)
}

func TestPolyderiv(t *testing.T) {
	c := polyCoeffs{1, 2, 3} // 1 + 2t + 3t^2
	d := polyderiv(c)        // 2 + 6t
	assert.InDelta(t, 2, polyeval(d, 0), 1e-9)
	assert.InDelta(t, 8, polyeval(d, 1), 1e-9)
}
