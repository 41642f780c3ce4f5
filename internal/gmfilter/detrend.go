package gmfilter

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DetrendMethod enumerates spec §4.4.1's detrend methods.
type DetrendMethod string

const (
	DetrendLinear       DetrendMethod = "linear"
	DetrendDemean       DetrendMethod = "demean"
	DetrendConstant     DetrendMethod = "constant" // alias of demean
	DetrendPolynomial   DetrendMethod = "polynomial"
	DetrendSpline       DetrendMethod = "spline"
	DetrendSimple       DetrendMethod = "simple"
	DetrendPre          DetrendMethod = "pre"
	DetrendBaselineSixth DetrendMethod = "baseline_sixth_order"
)

// Detrend removes a trend from samples in place, per spec §4.4.1. order
// is only used by DetrendPolynomial. splitSample is the sample index of
// the noise/signal boundary, required by DetrendPre.
func Detrend(samples []float64, dt float64, method DetrendMethod, order int, splitSample int) error {
	switch method {
	case DetrendDemean, DetrendConstant:
		mean := stat.Mean(samples, nil)
		for i := range samples {
			samples[i] -= mean
		}
	case DetrendLinear:
		detrendLinear(samples, dt)
	case DetrendSimple:
		detrendSimple(samples)
	case DetrendPolynomial:
		detrendPolynomial(samples, dt, order)
	case DetrendSpline:
		detrendSpline(samples, dt)
	case DetrendPre:
		if splitSample <= 0 || splitSample > len(samples) {
			return fmt.Errorf("gmfilter: detrend(pre) requires a valid split sample, got %d", splitSample)
		}
		mean := stat.Mean(samples[:splitSample], nil)
		for i := range samples {
			samples[i] -= mean
		}
	case DetrendBaselineSixth:
		return fmt.Errorf("gmfilter: detrend(baseline_sixth_order) must be invoked via BaselineSixthOrder, not Detrend")
	default:
		return fmt.Errorf("gmfilter: unknown detrend method %q", method)
	}
	return nil
}

// detrendLinear fits y = a + b*t by ordinary least squares (gonum/stat)
// and subtracts the fit, satisfying spec §8 property 3 ("Detrend
// orthogonality": residual slope <= 1e-10 of signal scale).
func detrendLinear(samples []float64, dt float64) {
	t := make([]float64, len(samples))
	for i := range t {
		t[i] = float64(i) * dt
	}
	alpha, beta := stat.LinearRegression(t, samples, nil, false)
	for i := range samples {
		samples[i] -= alpha + beta*t[i]
	}
}

// detrendSimple subtracts the line connecting the first and last sample,
// the ObsPy-style "simple" detrend distinct from a full least-squares fit.
func detrendSimple(samples []float64) {
	n := len(samples)
	if n < 2 {
		return
	}
	start, end := samples[0], samples[n-1]
	for i := range samples {
		frac := float64(i) / float64(n-1)
		samples[i] -= start + frac*(end-start)
	}
}

// detrendPolynomial fits and subtracts a least-squares polynomial of the
// given order via a Vandermonde system solved with gonum/mat.
func detrendPolynomial(samples []float64, dt float64, order int) {
	fit := polyfit(samples, dt, order)
	for i := range samples {
		samples[i] -= polyeval(fit, float64(i)*dt)
	}
}

// detrendSpline removes a smooth trend using a natural cubic spline fit
// through decimated knots (gonum.org/v1/gonum/interp), subtracting the
// spline's value at every sample.
func detrendSpline(samples []float64, dt float64) {
	n := len(samples)
	if n < 4 {
		detrendDemeanInPlace(samples)
		return
	}
	numKnots := 10
	if numKnots > n {
		numKnots = n
	}
	xs := make([]float64, numKnots)
	ys := make([]float64, numKnots)
	step := float64(n-1) / float64(numKnots-1)
	for i := 0; i < numKnots; i++ {
		idx := int(float64(i) * step)
		if idx >= n {
			idx = n - 1
		}
		xs[i] = float64(idx) * dt
		ys[i] = samples[idx]
	}

	var pc interp.NaturalCubic
	if err := pc.Fit(xs, ys); err != nil {
		detrendDemeanInPlace(samples)
		return
	}
	for i := range samples {
		x := float64(i) * dt
		if x < xs[0] {
			x = xs[0]
		}
		if x > xs[len(xs)-1] {
			x = xs[len(xs)-1]
		}
		samples[i] -= pc.Predict(x)
	}
}

func detrendDemeanInPlace(samples []float64) {
	mean := stat.Mean(samples, nil)
	for i := range samples {
		samples[i] -= mean
	}
}

// polyCoeffs is a fitted polynomial's coefficients, lowest order first.
type polyCoeffs []float64

// polyfit fits a degree-`order` polynomial to samples(t) via ordinary
// least squares (Vandermonde matrix solved with gonum/mat).
func polyfit(samples []float64, dt float64, order int) polyCoeffs {
	n := len(samples)
	cols := order + 1
	a := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= t
		}
	}
	y := mat.NewVecDense(n, samples)

	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	_ = qr.SolveVecTo(&x, false, y)

	coeffs := make(polyCoeffs, cols)
	for i := 0; i < cols; i++ {
		coeffs[i] = x.AtVec(i)
	}
	return coeffs
}

func polyeval(c polyCoeffs, t float64) float64 {
	var out, p float64 = 0, 1
	for _, coef := range c {
		out += coef * p
		p *= t
	}
	return out
}

// PolyFit exposes the Vandermonde least-squares polynomial fit used by
// detrend(polynomial) for callers outside this package that need the same
// fit, such as the ridder-fchp cubic-residual criterion (spec §4.3.5).
func PolyFit(samples []float64, dt float64, order int) []float64 {
	return polyfit(samples, dt, order)
}

// PolyEval evaluates a polynomial produced by PolyFit at t.
func PolyEval(coeffs []float64, t float64) float64 {
	return polyeval(coeffs, t)
}
