package gmqa

import (
	"time"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// TrimMultipleEvents implements spec §4.6's trim_multiple_events: given a
// catalogue of other events and a precomputed P-wave travel time (seconds
// from origin to this stream's station) for each, find arrivals falling
// inside the stream's signal window. If any such arrival falls within the
// first `pctWindowReject` fraction of the signal window, the whole stream
// is rejected (too contaminated to salvage); otherwise the signal end of
// every trace is trimmed to just before the earliest qualifying arrival.
func TrimMultipleEvents(s *gmtrace.Stream, catalog []gmtrace.ScalarEvent, travelTimes map[string]float64, pctWindowReject float64) {
	for _, tr := range s.Traces {
		split, ok := tr.SignalSplit()
		if !ok {
			continue
		}
		end, ok := tr.SignalEndParam()
		if !ok {
			continue
		}
		signalDuration := end.EndSeconds - split.SplitSeconds
		if signalDuration <= 0 {
			continue
		}

		windowStart := tr.StartTime.Add(secondsDuration(split.SplitSeconds))
		windowEnd := tr.StartTime.Add(secondsDuration(end.EndSeconds))
		rejectBoundary := tr.StartTime.Add(secondsDuration(split.SplitSeconds + pctWindowReject*signalDuration))

		earliestOffsetSeconds := -1.0
		rejectStream := false

		for _, event := range catalog {
			travel, ok := travelTimes[event.ID]
			if !ok {
				continue
			}
			arrival := event.Time.Add(secondsDuration(travel))
			if arrival.Before(windowStart) || arrival.After(windowEnd) {
				continue
			}
			if arrival.Before(rejectBoundary) {
				rejectStream = true
				break
			}
			offset := arrival.Sub(tr.StartTime).Seconds()
			if earliestOffsetSeconds < 0 || offset < earliestOffsetSeconds {
				earliestOffsetSeconds = offset
			}
		}

		if rejectStream {
			s.Fail("multiple_events", "trim_multiple_events", "another event's P-arrival falls too early in the signal window")
			return
		}
		if earliestOffsetSeconds >= 0 {
			tr.SetSignalEnd(gmtrace.SignalEnd{EndSeconds: earliestOffsetSeconds, Method: end.Method})
		}
	}
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
