package gmwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

func longTrace(t *testing.T, n int, dt float64) *gmtrace.Trace {
	t.Helper()
	samples := make([]float64, n)
	tr, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), dt, samples)
	require.NoError(t, err)
	tr.Coordinates = gmtrace.Coordinates{Latitude: 0.5, Longitude: 0.5}
	return tr
}

func TestSignalEndModel(t *testing.T) {
	tr := longTrace(t, 100000, 0.01)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 10})
	event := gmtrace.ScalarEvent{Time: time.Unix(0, 0).UTC(), Magnitude: 6.0}

	SignalEnd(tr, event, gmconfig.WindowsSignalEnd{Method: "model"}, nil, "", time.Now().UTC())

	end, ok := tr.SignalEndParam()
	require.True(t, ok)
	assert.Equal(t, "model", end.Method)
	assert.Greater(t, end.EndSeconds, 10.0)
}

func TestSignalEndRegionOverride(t *testing.T) {
	tr := longTrace(t, 100000, 0.01)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 10})
	event := gmtrace.ScalarEvent{Time: time.Unix(0, 0).UTC(), Magnitude: 6.0}
	regions := map[string]gmconfig.RegionOverride{
		"subduction": {SignalEnd: gmconfig.WindowsSignalEnd{Method: "magnitude"}},
	}

	SignalEnd(tr, event, gmconfig.WindowsSignalEnd{Method: "model"}, regions, "subduction", time.Now().UTC())

	end, _ := tr.SignalEndParam()
	assert.Equal(t, "magnitude", end.Method)
}

func TestSignalEndClampedToRecordDuration(t *testing.T) {
	tr := longTrace(t, 100, 0.01) // 0.99s record
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 0})
	event := gmtrace.ScalarEvent{Time: time.Unix(0, 0).UTC(), Magnitude: 7.5}

	SignalEnd(tr, event, gmconfig.WindowsSignalEnd{Method: "magnitude"}, nil, "", time.Now().UTC())

	end, _ := tr.SignalEndParam()
	assert.Equal(t, tr.Duration(), end.EndSeconds)
}

func TestBruneCornerFrequencyDecreasesWithMagnitude(t *testing.T) {
	f0Small := bruneCornerFrequencyHz(4.0)
	f0Large := bruneCornerFrequencyHz(7.0)
	assert.Greater(t, f0Small, f0Large, "larger events have lower corner frequencies")
}
