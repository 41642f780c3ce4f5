package gmtrace

import (
	"fmt"
	"math"
)

// Stream is an ordered set of one-to-three Traces belonging to the same
// sensor instance (spec §3 "Stream"). The Stream exclusively owns its
// Traces.
type Stream struct {
	Traces []*Trace

	Passed         bool
	FailureReasons []FailureReason
}

// sampleTolerance is the integer-sample tolerance for cross-trace sample
// count agreement (spec §3 "Stream" invariants).
const sampleTolerance = 1

// NewStream groups traces into a Stream after checking the cross-trace
// consistency invariants from spec §3: identical network/station/
// first-two-channel-code-chars/location, sampling interval, sample count
// (within sampleTolerance), and start time (within half a sample).
func NewStream(traces []*Trace) (*Stream, error) {
	if len(traces) == 0 {
		return nil, fmt.Errorf("gmtrace: empty stream")
	}
	if len(traces) > 3 {
		return nil, fmt.Errorf("gmtrace: stream has %d traces, max 3", len(traces))
	}

	ref := traces[0]
	refBand := bandCode(ref.Channel)
	for _, tr := range traces[1:] {
		if tr.Network != ref.Network || tr.Station != ref.Station || tr.Location != ref.Location {
			return nil, fmt.Errorf("gmtrace: trace %s.%s.%s.%s does not match stream network/station/location",
				tr.Network, tr.Station, tr.Location, tr.Channel)
		}
		if bandCode(tr.Channel) != refBand {
			return nil, fmt.Errorf("gmtrace: trace %s channel band %q != %q", tr.Channel, bandCode(tr.Channel), refBand)
		}
		if math.Abs(tr.DeltaT-ref.DeltaT) > 1e-9 {
			return nil, fmt.Errorf("gmtrace: trace %s sampling interval %g != %g", tr.Channel, tr.DeltaT, ref.DeltaT)
		}
		if diff := len(tr.Samples) - len(ref.Samples); diff > sampleTolerance || diff < -sampleTolerance {
			return nil, fmt.Errorf("gmtrace: trace %s sample count %d differs from %d by more than %d",
				tr.Channel, len(tr.Samples), len(ref.Samples), sampleTolerance)
		}
		halfSample := ref.DeltaT / 2
		if tr.StartTime.Sub(ref.StartTime).Seconds() > halfSample || ref.StartTime.Sub(tr.StartTime).Seconds() > halfSample {
			return nil, fmt.Errorf("gmtrace: trace %s start time differs by more than half a sample", tr.Channel)
		}
	}

	return &Stream{Traces: traces, Passed: true}, nil
}

// bandCode returns the first two characters of a channel code, e.g. "HN"
// from "HNE" (spec §3: "first-two-channel-code-chars").
func bandCode(channel string) string {
	if len(channel) < 2 {
		return channel
	}
	return channel[:2]
}

// Fail marks the whole stream failed with a structured reason.
func (s *Stream) Fail(kind FailureKind, stage, text string) {
	s.Passed = false
	s.FailureReasons = append(s.FailureReasons, FailureReason{Kind: kind, Stage: stage, Text: text})
}

// AnyTraceFailed reports whether any member trace has failed.
func (s *Stream) AnyTraceFailed() bool {
	for _, tr := range s.Traces {
		if tr.Failed {
			return true
		}
	}
	return false
}

// Horizontals returns the (up to two) horizontal-component traces, i.e.
// those whose dip is within 1 degree of zero.
func (s *Stream) Horizontals() []*Trace {
	var out []*Trace
	for _, tr := range s.Traces {
		if math.Abs(tr.Orientation.Dip) < 1.0 {
			out = append(out, tr)
		}
	}
	return out
}

// Vertical returns the vertical-component trace, if present (dip near 90
// or -90 degrees), else nil.
func (s *Stream) Vertical() *Trace {
	for _, tr := range s.Traces {
		if math.Abs(math.Abs(tr.Orientation.Dip)-90) < 1.0 {
			return tr
		}
	}
	return nil
}

// StationID identifies the sensor instance a Stream belongs to.
func (s *Stream) StationID() string {
	if len(s.Traces) == 0 {
		return ""
	}
	t := s.Traces[0]
	return fmt.Sprintf("%s.%s.%s", t.Network, t.Station, t.Location)
}
