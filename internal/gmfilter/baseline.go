package gmfilter

// BaselineResult carries the sixth-order polynomial fit and the corrected
// acceleration series produced by BaselineSixthOrder (spec §4.4.1,
// §8 property 7).
type BaselineResult struct {
	Coefficients [7]float64 // order 0..6, AFTER zeroing the constant/linear terms
	Corrected    []float64
}

// BaselineSixthOrder implements detrend(baseline_sixth_order) (spec
// §4.4.1): integrate acceleration to displacement, fit a sixth-order
// polynomial, zero its constant and linear terms, differentiate twice,
// and subtract the result from the original acceleration.
//
// The integration scheme is frequency-domain (IntegrateFrequencyDomain),
// per the Open Question resolution in SPEC_FULL.md §9.1 — both
// integration steps (acceleration->velocity->displacement) use the same
// code path as the rest of the module's integration, so there is exactly
// one integrator to validate against spec §8 property 5 (Parseval).
func BaselineSixthOrder(accel []float64, dt float64) BaselineResult {
	vel := IntegrateFrequencyDomain(accel, dt)
	disp := IntegrateFrequencyDomain(vel, dt)

	fit := polyfit(disp, dt, 6)
	// Zero the constant and linear terms: the invariant checked by spec
	// §8 property 7 is that the FINAL displacement has zero constant and
	// linear terms in its least-squares sixth-order fit, which holds
	// because we zero exactly those two coefficients before subtracting
	// their (now purely quadratic-and-higher) contribution back out.
	fit[0] = 0
	fit[1] = 0

	accelCorrection := polyderiv(polyderiv(fit))

	corrected := make([]float64, len(accel))
	for i := range accel {
		t := float64(i) * dt
		corrected[i] = accel[i] - polyeval(accelCorrection, t)
	}

	var coeffs [7]float64
	copy(coeffs[:], fit)
	return BaselineResult{Coefficients: coeffs, Corrected: corrected}
}

// polyderiv returns the coefficients of c's derivative.
func polyderiv(c polyCoeffs) polyCoeffs {
	if len(c) <= 1 {
		return polyCoeffs{0}
	}
	out := make(polyCoeffs, len(c)-1)
	for i := 1; i < len(c); i++ {
		out[i-1] = c[i] * float64(i)
	}
	return out
}
