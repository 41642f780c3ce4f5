package gmwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

func trimmableTrace(t *testing.T) *gmtrace.Trace {
	t.Helper()
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = float64(i)
	}
	tr, err := gmtrace.NewTrace("NC", "STA1", "00", "HNE", time.Unix(0, 0).UTC(), 0.1, samples)
	require.NoError(t, err)
	return tr
}

func TestCutTrimsToWindow(t *testing.T) {
	tr := trimmableTrace(t)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 10})
	tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: 50})

	Cut(tr, 2, time.Unix(0, 0).UTC())

	assert.False(t, tr.Failed)
	assert.InDelta(t, 8.0, tr.StartTime.Sub(time.Unix(0, 0).UTC()).Seconds(), 0.1)
	assert.Len(t, tr.Provenance, 1)
	assert.Equal(t, "cut", tr.Provenance[0].Activity)
}

func TestCutClampsNegativeStartToRecordStart(t *testing.T) {
	tr := trimmableTrace(t)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 1})
	tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: 50})

	Cut(tr, 5, time.Unix(0, 0).UTC())

	assert.Equal(t, time.Unix(0, 0).UTC(), tr.StartTime)
}

func TestCheckWindowFailsShortNoiseWindow(t *testing.T) {
	tr := trimmableTrace(t)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 1})
	tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: 50})

	CheckWindow(tr, gmconfig.WindowChecks{Enabled: true, MinNoiseDuration: 5, MinSignalDuration: 10})

	assert.True(t, tr.Failed)
}

func TestCheckWindowPassesAdequateWindows(t *testing.T) {
	tr := trimmableTrace(t)
	tr.SetSignalSplit(gmtrace.SignalSplit{SplitSeconds: 10})
	tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: 50})

	CheckWindow(tr, gmconfig.WindowChecks{Enabled: true, MinNoiseDuration: 5, MinSignalDuration: 10})

	assert.False(t, tr.Failed)
}
