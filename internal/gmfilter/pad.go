package gmfilter

// Padded wraps a zero-padded series together with enough bookkeeping to
// strip the padding symmetrically afterward (spec §4.4.4).
type Padded struct {
	Samples  []float64
	PadCount int // samples added on EACH side
}

// PadForFilter zero-pads samples on both ends to cover at least
// 1/fhp * paddingFactor seconds on each side (spec §4.4.4). fhp is the
// high-pass corner in Hz driving the padding requirement; if fhp <= 0 no
// padding is added.
func PadForFilter(samples []float64, dt, fhp, paddingFactor float64) Padded {
	if fhp <= 0 || paddingFactor <= 0 {
		return Padded{Samples: samples, PadCount: 0}
	}
	seconds := (1.0 / fhp) * paddingFactor
	padCount := int(seconds/dt) + 1

	out := make([]float64, len(samples)+2*padCount)
	copy(out[padCount:], samples)
	return Padded{Samples: out, PadCount: padCount}
}

// Strip removes the padding added by PadForFilter, returning the
// original-length series.
func (p Padded) Strip() []float64 {
	if p.PadCount == 0 {
		return p.Samples
	}
	return p.Samples[p.PadCount : len(p.Samples)-p.PadCount]
}
