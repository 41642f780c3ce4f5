package gmtrace

// EpicentralDistanceKM is the great-circle distance from a trace's sensor
// to an event's epicenter, used throughout windowing and corner selection
// (spec §4.2.2, §4.3.2).
func EpicentralDistanceKM(event ScalarEvent, t *Trace) float64 {
	return haversineMeters(event.Latitude, event.Longitude, t.Coordinates.Latitude, t.Coordinates.Longitude) / 1000.0
}
