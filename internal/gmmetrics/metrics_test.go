package gmmetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

func TestPGAIsMaxAbsoluteValue(t *testing.T) {
	assert.Equal(t, 5.0, PGA([]float64{1, -5, 3, 4}))
}

func TestPGVIntegratesThenPeaks(t *testing.T) {
	n, dt := 1000, 0.01
	accel := sineAccel(n, dt, 1.0, 1.0)
	pgv := PGV(accel, dt)
	assert.Greater(t, pgv, 0.0)
}

func TestAriasIntensityIsNondecreasing(t *testing.T) {
	accel := sineAccel(500, 0.01, 2.0, 1.0)
	arias := AriasIntensity(accel, 0.01)
	for i := 1; i < len(arias); i++ {
		assert.GreaterOrEqual(t, arias[i], arias[i-1])
	}
}

func TestCAVThresholdExcludesSmallSamples(t *testing.T) {
	samples := []float64{0.001, 0.001, 0.001, 10, 10}
	full := CAV(samples, 1.0, 0)
	thresholded := CAV(samples, 1.0, 1.0)
	assert.Less(t, thresholded, full)
}

func TestDurationBracketsArrivalFractions(t *testing.T) {
	n, dt := 2000, 0.01
	accel := sineAccel(n, dt, 1.0, 1.0)
	d595 := Duration(accel, dt, 5, 95)
	assert.Greater(t, d595, 0.0)
	assert.LessOrEqual(t, d595, float64(n)*dt)
}

func TestSortedDurationDiffersFromDuration(t *testing.T) {
	n, dt := 2000, 0.01
	samples := make([]float64, n)
	for i := 0; i < n; i += 100 {
		samples[i] = 10.0
	}
	d := Duration(samples, dt, 5, 95)
	sd := SortedDuration(samples, dt, 5, 95)
	assert.NotEqual(t, d, sd)
}

// TestPGAMonotonicUnderScaling checks spec §8 property 9 (metric
// monotonicity): scaling an acceleration record by a positive factor
// must scale its PGA by the same factor.
func TestPGAMonotonicUnderScaling(t *testing.T) {
	accel := sineAccel(500, 0.01, 1.0, 1.0)
	scaled := make([]float64, len(accel))
	for i, v := range accel {
		scaled[i] = v * 2.0
	}
	assert.InDelta(t, 2.0*PGA(accel), PGA(scaled), 1e-9)
}

func TestPSAMonotonicUnderScaling(t *testing.T) {
	dt := 0.01
	accel := sineAccel(1000, dt, 1.5, 1.0)
	scaled := make([]float64, len(accel))
	for i, v := range accel {
		scaled[i] = v * 3.0
	}
	base := PSA(accel, dt, 0.5, 0.05)
	scaledPSA := PSA(scaled, dt, 0.5, 0.05)
	assert.InDelta(t, 3.0*base, scaledPSA, base*0.01+1e-9)
}

func TestParseComponentRotD(t *testing.T) {
	kind, pct, err := parseComponent("rotd50")
	require.NoError(t, err)
	assert.Equal(t, ComponentRotD, kind)
	assert.Equal(t, 50.0, pct)
}

func TestParseComponentUnknown(t *testing.T) {
	_, _, err := parseComponent("bogus")
	assert.Error(t, err)
}

func computeTestStream(t *testing.T) *gmtrace.Stream {
	t.Helper()
	n, dt := 2000, 0.01
	s1 := sineAccel(n, dt, 1.0, 2.0)
	s2 := sineAccel(n, dt, 1.3, 1.5)
	e, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), dt, s1)
	require.NoError(t, err)
	nComp, err := gmtrace.NewTrace("NC", "STA1", "00", "HNN", time.Unix(0, 0).UTC(), dt, s2)
	require.NoError(t, err)
	stream, err := gmtrace.NewStream([]*gmtrace.Trace{e, nComp})
	require.NoError(t, err)
	return stream
}

func TestComputeDispatchesChannelsAndRotD(t *testing.T) {
	s := computeTestStream(t)
	cfg := gmconfig.Metrics{
		ComponentsAndTypes: map[string][]string{
			"channels": {"pga"},
			"rotd50":   {"pga"},
		},
		TypeParameters: gmconfig.TypeParameters{
			SAPeriods: []float64{0.3},
			Damping:   []float64{0.05},
		},
	}
	sm, err := Compute(s, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, sm.Metrics)

	foundChannel, foundRotD := false, false
	for _, m := range sm.Metrics {
		if m.Component == ComponentChannel && m.Channel != "" {
			foundChannel = true
		}
		if m.Component == ComponentRotD {
			foundRotD = true
			assert.Equal(t, 50.0, m.Percentile)
		}
	}
	assert.True(t, foundChannel)
	assert.True(t, foundRotD)
}

func TestComputeSAExpandsPeriodsAndDamping(t *testing.T) {
	s := computeTestStream(t)
	cfg := gmconfig.Metrics{
		ComponentsAndTypes: map[string][]string{
			"geometric_mean": {"sa"},
		},
		TypeParameters: gmconfig.TypeParameters{
			SAPeriods: []float64{0.3, 1.0},
			Damping:   []float64{0.05},
		},
	}
	sm, err := Compute(s, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, len(sm.Metrics))
}

func TestComputeFASUsesDefaultFrequencyGridWhenUnset(t *testing.T) {
	s := computeTestStream(t)
	cfg := gmconfig.Metrics{
		ComponentsAndTypes: map[string][]string{
			"arithmetic_mean": {"fas"},
		},
	}
	sm, err := Compute(s, cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, len(sm.Metrics))
}

func TestComputeRejectsUnknownComponent(t *testing.T) {
	s := computeTestStream(t)
	cfg := gmconfig.Metrics{
		ComponentsAndTypes: map[string][]string{"nonsense": {"pga"}},
	}
	_, err := Compute(s, cfg)
	assert.Error(t, err)
}

func TestComputeRotDRejectsUnsupportedType(t *testing.T) {
	s := computeTestStream(t)
	cfg := gmconfig.Metrics{
		ComponentsAndTypes: map[string][]string{"rotd50": {"fas"}},
	}
	_, err := Compute(s, cfg)
	assert.Error(t, err)
}

func TestMaxAbsFloatHandlesEmpty(t *testing.T) {
	assert.Equal(t, 0.0, maxAbsFloat(nil))
}

func TestDurationOfHandlesZeroTotal(t *testing.T) {
	assert.Equal(t, 0.0, durationOf([]float64{0, 0, 0}, 0.01, 5, 95))
}

func TestAriasScalesQuadratically(t *testing.T) {
	accel := sineAccel(500, 0.01, 1.0, 1.0)
	scaled := make([]float64, len(accel))
	for i, v := range accel {
		scaled[i] = v * 2
	}
	arias := AriasIntensity(accel, 0.01)
	ariasScaled := AriasIntensity(scaled, 0.01)
	assert.InDelta(t, 4*arias[len(arias)-1], ariasScaled[len(ariasScaled)-1], 1e-6)
}
