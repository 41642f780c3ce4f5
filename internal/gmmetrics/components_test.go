package gmmetrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

func horizontalStreamFor(t *testing.T, n int, dt float64, f1, f2 func(i int) float64) *gmtrace.Stream {
	t.Helper()
	s1 := make([]float64, n)
	s2 := make([]float64, n)
	for i := 0; i < n; i++ {
		s1[i] = f1(i)
		s2[i] = f2(i)
	}
	e, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), dt, s1)
	require.NoError(t, err)
	nComp, err := gmtrace.NewTrace("NC", "STA1", "00", "HNN", time.Unix(0, 0).UTC(), dt, s2)
	require.NoError(t, err)
	stream, err := gmtrace.NewStream([]*gmtrace.Trace{e, nComp})
	require.NoError(t, err)
	return stream
}

func TestComponentSeriesArithmeticMean(t *testing.T) {
	s := horizontalStreamFor(t, 10, 0.01,
		func(i int) float64 { return 2 },
		func(i int) float64 { return 4 },
	)
	out, _, ok := ComponentSeries(s, ComponentArithmeticMean)
	require.True(t, ok)
	for _, v := range out {
		assert.Equal(t, 3.0, v)
	}
}

func TestComponentSeriesGeometricMean(t *testing.T) {
	s := horizontalStreamFor(t, 5, 0.01,
		func(i int) float64 { return 4 },
		func(i int) float64 { return 9 },
	)
	out, _, ok := ComponentSeries(s, ComponentGeometricMean)
	require.True(t, ok)
	assert.InDelta(t, 6.0, out[0], 1e-9)
}

func TestRotDPercentileRotationInvariant(t *testing.T) {
	// Rotating the pair of input channels by a fixed angle must not
	// change the RotD distribution: it is the same set of rotated
	// series under a relabeling of the starting angle.
	n, dt := 2000, 0.01
	h1 := sineAccel(n, dt, 1.3, 1.0)
	h2 := sineAccel(n, dt, 1.3, 0.6)

	base := RotDPercentile(h1, h2, 50, PGA)

	theta := 37.0 * math.Pi / 180.0
	r1 := rotatedSeries(h1, h2, theta)
	r2 := rotatedSeries(h1, h2, theta+math.Pi/2)
	rotated := RotDPercentile(r1, r2, 50, PGA)

	assert.InDelta(t, base, rotated, 1e-6)
}

func TestRotDPercentileMonotonicInPercentile(t *testing.T) {
	n, dt := 1000, 0.01
	h1 := sineAccel(n, dt, 0.8, 1.0)
	h2 := sineAccel(n, dt, 1.9, 0.4)

	p50 := RotDPercentile(h1, h2, 50, PGA)
	p100 := RotDPercentile(h1, h2, 100, PGA)
	assert.LessOrEqual(t, p50, p100+1e-9)
}
