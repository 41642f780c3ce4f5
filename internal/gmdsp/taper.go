package gmdsp

import "gonum.org/v1/gonum/dsp/window"

// Side selects which end(s) of a series a taper is applied to (spec §4.4.2).
type Side int

const (
	SideBoth Side = iota
	SideLeft
	SideRight
)

// ApplyTaper multiplies samples in place by a Hann window of fractional
// width `width` (0..0.5 of the record length) on the requested side(s),
// using gonum.org/v1/gonum/dsp/window.Hann for the kernel itself (the
// teacher's dependency set carries gonum but never needed a taper; this
// is new domain-stack wiring, not an adaptation of teacher code).
func ApplyTaper(samples []float64, width float64, side Side) {
	n := len(samples)
	if n == 0 || width <= 0 {
		return
	}
	taperLen := int(width * float64(n))
	if taperLen < 2 {
		return
	}
	full := make([]float64, 2*taperLen)
	for i := range full {
		full[i] = 1.0
	}
	full = window.Hann(full)

	if side == SideLeft || side == SideBoth {
		for i := 0; i < taperLen && i < n; i++ {
			samples[i] *= full[i]
		}
	}
	if side == SideRight || side == SideBoth {
		for i := 0; i < taperLen && i < n; i++ {
			samples[n-1-i] *= full[i]
		}
	}
}
