package gmtrace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamAt(t *testing.T, lat, lon float64, level ProcessLevel, start time.Time) *Stream {
	t.Helper()
	samples := make([]float64, 100)
	tr, err := NewTrace("NC", "STA1", "00", "HNZ", start, 0.01, samples)
	require.NoError(t, err)
	tr.Coordinates.Latitude = lat
	tr.Coordinates.Longitude = lon
	tr.Metadata.ProcessLevel = level
	s, err := NewStream([]*Trace{tr})
	require.NoError(t, err)
	return s
}

func TestDeduplicatePrefersConfiguredProcessLevel(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	v1 := streamAt(t, 38.0, -122.0, ProcessLevelV1, start)
	v2 := streamAt(t, 38.0, -122.0, ProcessLevelV2, start)

	coll := &StreamCollection{Streams: []*Stream{v2, v1}}
	coll.Deduplicate(DefaultDuplicatePreferences())

	require.Len(t, coll.Streams, 1, "near-identical co-located streams collapse to one")
	assert.Equal(t, ProcessLevelV1, coll.Streams[0].Traces[0].Metadata.ProcessLevel,
		"scenario S6: the V1 stream must be kept over V2")
}

func TestDeduplicateKeepsDistantStations(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	near := streamAt(t, 38.0, -122.0, ProcessLevelV1, start)
	far := streamAt(t, 39.5, -121.0, ProcessLevelV1, start)

	coll := &StreamCollection{Streams: []*Stream{near, far}}
	coll.Deduplicate(DefaultDuplicatePreferences())

	assert.Len(t, coll.Streams, 2, "stations far apart are not duplicates even if same net/sta code")
}

func TestPassedAndFailedStreams(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s1 := streamAt(t, 38.0, -122.0, ProcessLevelV1, start)
	s2 := streamAt(t, 39.0, -121.0, ProcessLevelV1, start)
	s2.Fail("qa_check_fail", "check_tail", "exceeded")

	coll := &StreamCollection{Streams: []*Stream{s1, s2}}
	assert.Len(t, coll.PassedStreams(), 1)
	assert.Len(t, coll.FailedStreams(), 1)
}
