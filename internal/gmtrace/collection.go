package gmtrace

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// StreamCollection is the set of Streams for a single event. It exclusively
// owns its Streams (spec §3 "StreamCollection", "Ownership").
type StreamCollection struct {
	Event   ScalarEvent
	Streams []*Stream
}

// DuplicatePreferences configures the total order used to resolve
// duplicate streams (spec §3 "Duplicate resolution rule",
// config section `duplicate`).
type DuplicatePreferences struct {
	ProcessLevelOrder []ProcessLevel // earlier entries preferred
	SourceFormatOrder []string       // earlier entries preferred
	PreferredLocation []string       // earlier entries preferred
	DistanceToleranceM float64       // stations within this distance are "the same station"
}

// DefaultDuplicatePreferences matches the order implied by spec §8 S6:
// prefer V1 process level over V2.
func DefaultDuplicatePreferences() DuplicatePreferences {
	return DuplicatePreferences{
		ProcessLevelOrder:  []ProcessLevel{ProcessLevelV1, ProcessLevelV2, ProcessLevelV0, ProcessLevelRaw},
		SourceFormatOrder:  []string{},
		PreferredLocation:  []string{"00", "01", ""},
		DistanceToleranceM: 50.0,
	}
}

// haversineMeters is the great-circle distance between two lat/lon points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000.0
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dphi := (lat2 - lat1) * math.Pi / 180
	dlambda := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlambda/2)*math.Sin(dlambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func streamCoords(s *Stream) (lat, lon float64) {
	if len(s.Traces) == 0 {
		return 0, 0
	}
	return s.Traces[0].Coordinates.Latitude, s.Traces[0].Coordinates.Longitude
}

// rank returns the preference index of v within order, or len(order) if
// absent (least preferred), mirroring sixy6e-go-gsf/qa.go's use of
// lo-style membership lookups to rank near-duplicate records.
func rank[T comparable](order []T, v T) int {
	idx := lo.IndexOf(order, v)
	if idx < 0 {
		return len(order)
	}
	return idx
}

// preferred reports whether candidate a should be kept over b under the
// total order from spec §3: process-level preference, source-format
// preference, earliest start, most samples, highest rate, preferred
// location-code list.
func preferred(a, b *Stream, prefs DuplicatePreferences) bool {
	aProc, bProc := ProcessLevelUnknown, ProcessLevelUnknown
	aFmt, bFmt := "", ""
	if len(a.Traces) > 0 {
		aProc = a.Traces[0].Metadata.ProcessLevel
		aFmt = a.Traces[0].Metadata.SourceFormat
	}
	if len(b.Traces) > 0 {
		bProc = b.Traces[0].Metadata.ProcessLevel
		bFmt = b.Traces[0].Metadata.SourceFormat
	}
	if ra, rb := rank(prefs.ProcessLevelOrder, aProc), rank(prefs.ProcessLevelOrder, bProc); ra != rb {
		return ra < rb
	}
	if ra, rb := rank(prefs.SourceFormatOrder, aFmt), rank(prefs.SourceFormatOrder, bFmt); ra != rb {
		return ra < rb
	}
	aStart, bStart := a.Traces[0].StartTime, b.Traces[0].StartTime
	if !aStart.Equal(bStart) {
		return aStart.Before(bStart)
	}
	if na, nb := len(a.Traces[0].Samples), len(b.Traces[0].Samples); na != nb {
		return na > nb
	}
	if ra, rb := a.Traces[0].SamplingRate(), b.Traces[0].SamplingRate(); ra != rb {
		return ra > rb
	}
	aLoc, bLoc := a.Traces[0].Location, b.Traces[0].Location
	return rank(prefs.PreferredLocation, aLoc) < rank(prefs.PreferredLocation, bLoc)
}

// Deduplicate collapses streams that share network/station and lie within
// DistanceToleranceM of each other, keeping exactly one per group: the
// most-preferred stream under `preferred` (spec §3, scenario S6).
func (c *StreamCollection) Deduplicate(prefs DuplicatePreferences) {
	groups := map[string][]*Stream{}
	var order []string
	for _, s := range c.Streams {
		key := ""
		if len(s.Traces) > 0 {
			key = s.Traces[0].Network + "." + s.Traces[0].Station
		}
		groups[key] = append(groups[key], s)
		if len(groups[key]) == 1 {
			order = append(order, key)
		}
	}

	var result []*Stream
	for _, key := range order {
		bucket := groups[key]
		clusters := clusterByDistance(bucket, prefs.DistanceToleranceM)
		for _, cluster := range clusters {
			sort.SliceStable(cluster, func(i, j int) bool {
				return preferred(cluster[i], cluster[j], prefs)
			})
			result = append(result, cluster[0])
		}
	}
	c.Streams = result
}

// clusterByDistance groups same-station streams whose coordinates lie
// within tol meters of one another using simple single-linkage grouping.
func clusterByDistance(streams []*Stream, tol float64) [][]*Stream {
	var clusters [][]*Stream
	assigned := make([]bool, len(streams))
	for i := range streams {
		if assigned[i] {
			continue
		}
		lat1, lon1 := streamCoords(streams[i])
		cluster := []*Stream{streams[i]}
		assigned[i] = true
		for j := i + 1; j < len(streams); j++ {
			if assigned[j] {
				continue
			}
			lat2, lon2 := streamCoords(streams[j])
			if haversineMeters(lat1, lon1, lat2, lon2) <= tol {
				cluster = append(cluster, streams[j])
				assigned[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// PassedStreams returns only the streams that have not failed.
func (c *StreamCollection) PassedStreams() []*Stream {
	return lo.Filter(c.Streams, func(s *Stream, _ int) bool { return s.Passed })
}

// FailedStreams returns only the streams that have failed.
func (c *StreamCollection) FailedStreams() []*Stream {
	return lo.Filter(c.Streams, func(s *Stream, _ int) bool { return !s.Passed })
}
