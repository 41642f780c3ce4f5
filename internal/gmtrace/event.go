package gmtrace

import "time"

// ScalarEvent is a scalar earthquake descriptor passed read-only to the
// windowing engine and the metric engine (spec §3 "ScalarEvent").
type ScalarEvent struct {
	ID          string
	Time        time.Time
	Latitude    float64
	Longitude   float64
	DepthKM     float64
	Magnitude   float64
	MagnitudeType string
}
