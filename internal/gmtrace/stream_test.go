package gmtrace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeComponent(t *testing.T) []*Trace {
	t.Helper()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]float64, 100)
	mk := func(chan_ string, dip float64) *Trace {
		tr, err := NewTrace("NC", "STA1", "00", chan_, start, 0.01, append([]float64(nil), samples...))
		require.NoError(t, err)
		tr.Orientation.Dip = dip
		return tr
	}
	return []*Trace{mk("HNE", 0), mk("HNN", 0), mk("HNZ", 90)}
}

func TestNewStreamAcceptsConsistentTraces(t *testing.T) {
	s, err := NewStream(threeComponent(t))
	require.NoError(t, err)
	assert.True(t, s.Passed)
	assert.Len(t, s.Horizontals(), 2)
	assert.NotNil(t, s.Vertical())
}

func TestNewStreamRejectsMismatchedStation(t *testing.T) {
	traces := threeComponent(t)
	traces[1].Station = "STA2"
	_, err := NewStream(traces)
	assert.Error(t, err)
}

func TestNewStreamRejectsMismatchedSampleCount(t *testing.T) {
	traces := threeComponent(t)
	traces[1].Samples = traces[1].Samples[:50]
	_, err := NewStream(traces)
	assert.Error(t, err)
}

func TestNewStreamRejectsTooManyTraces(t *testing.T) {
	traces := threeComponent(t)
	extra := traces[0].Clone()
	extra.Channel = "HNX"
	_, err := NewStream(append(traces, extra))
	assert.Error(t, err)
}

func TestStreamFailSetsReasons(t *testing.T) {
	s, err := NewStream(threeComponent(t))
	require.NoError(t, err)
	s.Fail("snr_check", "corner_selection", "SNR below threshold")
	assert.False(t, s.Passed)
	require.Len(t, s.FailureReasons, 1)
	assert.Equal(t, FailureKind("snr_check"), s.FailureReasons[0].Kind)
}

func TestAnyTraceFailed(t *testing.T) {
	s, err := NewStream(threeComponent(t))
	require.NoError(t, err)
	assert.False(t, s.AnyTraceFailed())
	s.Traces[0].Fail("data_error", "cut", "bad data")
	assert.True(t, s.AnyTraceFailed())
}
