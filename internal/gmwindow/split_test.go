package gmwindow

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

func quietThenShakingTrace(t *testing.T, onsetSeconds, dt float64, n int) *gmtrace.Trace {
	t.Helper()
	samples := make([]float64, n)
	onsetIdx := int(onsetSeconds / dt)
	for i := range samples {
		if i < onsetIdx {
			samples[i] = 0.001 * math.Sin(float64(i))
		} else {
			samples[i] = math.Sin(float64(i-onsetIdx) * 0.5)
		}
	}
	tr, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), dt, samples)
	require.NoError(t, err)
	tr.Coordinates = gmtrace.Coordinates{Latitude: 0, Longitude: 0}
	return tr
}

func TestSplitNoNoiseUsesRecordStart(t *testing.T) {
	tr := quietThenShakingTrace(t, 5, 0.01, 2000)
	Split(tr, gmtrace.ScalarEvent{}, gmconfig.Pickers{}, true, time.Now().UTC())

	split, ok := tr.SignalSplit()
	require.True(t, ok)
	assert.Equal(t, 0.0, split.SplitSeconds)
	assert.Equal(t, "no_noise", split.Method)
}

func TestSplitCombinesPickers(t *testing.T) {
	tr := quietThenShakingTrace(t, 5, 0.01, 4000)
	event := gmtrace.ScalarEvent{Time: time.Unix(0, 0).UTC(), Latitude: 0, Longitude: 0}
	cfg := gmconfig.Pickers{Methods: []string{"ar_aic", "power"}}

	Split(tr, event, cfg, false, time.Now().UTC())

	require.False(t, tr.Failed)
	split, ok := tr.SignalSplit()
	require.True(t, ok)
	assert.InDelta(t, 5.0, split.SplitSeconds, 1.0)
}

func TestSplitFailsWithNoValidPick(t *testing.T) {
	tr, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), 0.01, []float64{1, 2, 3})
	require.NoError(t, err)
	cfg := gmconfig.Pickers{Methods: []string{"ar_aic"}}

	Split(tr, gmtrace.ScalarEvent{}, cfg, false, time.Now().UTC())

	assert.True(t, tr.Failed)
	assert.Equal(t, gmtrace.FailureKind("no_valid_pick"), tr.Failure.Kind)
}

func TestArAicPickFindsVarianceChange(t *testing.T) {
	samples := make([]float64, 2000)
	for i := 1000; i < 2000; i++ {
		samples[i] = math.Sin(float64(i) * 0.5)
	}
	s, ok := arAicPick(samples, 0.01)
	require.True(t, ok)
	assert.InDelta(t, 10.0, s, 2.0)
}
