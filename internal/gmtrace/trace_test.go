package gmtrace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineTrace(t *testing.T, n int, dt float64) *Trace {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i)
	}
	tr, err := NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), dt, samples)
	require.NoError(t, err)
	return tr
}

func TestNewTraceValidation(t *testing.T) {
	_, err := NewTrace("NC", "STA1", "00", "HNE", time.Now(), 0.01, nil)
	assert.Error(t, err, "zero-length samples must fail")

	_, err = NewTrace("NC", "STA1", "00", "HNE", time.Now(), 0, []float64{1, 2, 3})
	assert.Error(t, err, "non-positive delta-t must fail")

	tr, err := NewTrace("NC", "STA1", "00", "HNE", time.Now(), 0.01, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, tr.NumSamples())
}

func TestIsAccelerometer(t *testing.T) {
	tr := sineTrace(t, 10, 0.01)
	assert.True(t, tr.IsAccelerometer(), "HNE -> accelerometer")
	tr.Channel = "HHE"
	assert.False(t, tr.IsAccelerometer(), "HHE -> seismometer")
}

func TestFailIsIdempotent(t *testing.T) {
	tr := sineTrace(t, 10, 0.01)
	tr.Fail("no_valid_pick", "windowing", "no candidate pick")
	first := tr.Failure
	tr.Fail("other", "later_stage", "should not overwrite")
	assert.Equal(t, first, tr.Failure, "first failure reason wins")
}

func TestProvenanceStableAcrossRuns(t *testing.T) {
	tr1 := sineTrace(t, 10, 0.01)
	tr2 := sineTrace(t, 10, 0.01)
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	params := map[string]string{"method": "linear"}

	tr1.AppendProvenance("detrend", at, params)
	tr2.AppendProvenance("detrend", at, params)

	assert.Equal(t, tr1.Provenance[0].ProvID, tr2.Provenance[0].ProvID,
		"identical activity+parameters must hash to the same prov_id")
}

func TestCornerFrequenciesRoundTrip(t *testing.T) {
	tr := sineTrace(t, 10, 0.01)
	_, ok := tr.CornerFrequencies()
	assert.False(t, ok)

	tr.SetCornerFrequencies(CornerFrequencies{HighPass: 0.1, LowPass: 20, HighPassMode: "snr"})
	cf, ok := tr.CornerFrequencies()
	require.True(t, ok)
	assert.Equal(t, 0.1, cf.HighPass)
	assert.Equal(t, "snr", cf.HighPassMode)
}

func TestCloneIsDeep(t *testing.T) {
	tr := sineTrace(t, 10, 0.01)
	tr.SetCornerFrequencies(CornerFrequencies{HighPass: 0.1})
	clone := tr.Clone()
	clone.Samples[0] = 999
	clone.SetCornerFrequencies(CornerFrequencies{HighPass: 5})

	assert.NotEqual(t, tr.Samples[0], clone.Samples[0])
	cf, _ := tr.CornerFrequencies()
	assert.Equal(t, 0.1, cf.HighPass, "mutating the clone must not affect the original")
}
