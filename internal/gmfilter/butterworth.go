package gmfilter

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	errUnknownFilterKind = errors.New("gmfilter: unknown filter kind")
	errUnknownDomain     = errors.New("gmfilter: unknown filter domain")
	errBadCorner         = errors.New("gmfilter: corner frequency must be in (0, nyquist)")
)

// FilterKind enumerates spec §4.4.3's four Butterworth filter shapes.
type FilterKind int

const (
	HighPass FilterKind = iota
	LowPass
	BandPass
	BandStop
)

// Domain selects the implementation strategy for ButterworthFilter
// (spec §4.4.3).
type Domain int

const (
	FrequencyDomain Domain = iota
	TimeDomain
)

// biquad is one second-order section in direct form I:
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2].
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// apply runs samples through the biquad forward, in place semantics via a
// returned new slice (keeps the original untouched for the filtfilt pass).
func (bq biquad) apply(x []float64) []float64 {
	y := make([]float64, len(x))
	var x1, x2, y1, y2 float64
	for i, xn := range x {
		yn := bq.b0*xn + bq.b1*x1 + bq.b2*x2 - bq.a1*y1 - bq.a2*y2
		y[i] = yn
		x2, x1 = x1, xn
		y2, y1 = y1, yn
	}
	return y
}

func reversed(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}

// butterworthAnalogPoles returns the order poles of a unit-cutoff analog
// Butterworth lowpass prototype, the standard textbook construction
// p_k = exp(i*pi*(2k+order+1)/(2*order)) for k = 0..order-1.
func butterworthAnalogPoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * (2*float64(k) + float64(order) + 1) / (2 * float64(order))
		poles[k] = complex(math.Cos(theta), math.Sin(theta))
	}
	return poles
}

// digitalSections designs a cascade of biquads (and, for odd order, one
// first-order section folded into a biquad with a2=b2=0) implementing a
// Butterworth lowpass or highpass filter at cutoff fc (Hz), sampled at
// 1/dt, via the standard pre-warp + bilinear-transform recipe.
func digitalSections(order int, fc, dt float64, highpass bool) []biquad {
	fs := 1.0 / dt
	wcAnalog := 2 * fs * math.Tan(math.Pi*fc/fs) // pre-warped cutoff, rad/s
	poles := butterworthAnalogPoles(order)

	// Scale the unit-cutoff prototype poles p0 to the desired cutoff
	// (p0*wc), then, for highpass, apply the lowpass->highpass frequency
	// transform s -> wc/s to the PROTOTYPE pole (wc/p0 = wc^2/(p0*wc)).
	for i, p0 := range poles {
		scaled := p0 * complex(wcAnalog, 0)
		if highpass {
			scaled = complex(wcAnalog*wcAnalog, 0) / scaled
		}
		poles[i] = scaled
	}

	// Bilinear transform each analog pole to a digital pole.
	twoFs := complex(2*fs, 0)
	zpoles := make([]complex128, len(poles))
	for i, p := range poles {
		zpoles[i] = (twoFs + p) / (twoFs - p)
	}

	// All zeros sit at z=-1 (lowpass) or z=+1 (highpass), order of them.
	zeroLoc := -1.0
	if highpass {
		zeroLoc = 1.0
	}

	sections := pairIntoBiquads(zpoles, zeroLoc)

	// Normalize DC gain to 1 (lowpass, evaluate at z=1) or Nyquist gain to
	// 1 (highpass, evaluate at z=-1).
	evalAt := complex(1, 0)
	if highpass {
		evalAt = complex(-1, 0)
	}
	gain := cascadeGainAt(sections, evalAt)
	if gain != 0 {
		scale := 1.0 / gain
		for i := range sections {
			sections[i].b0 *= scale
			sections[i].b1 *= scale
			sections[i].b2 *= scale
		}
	}
	return sections
}

// pairIntoBiquads groups digital poles into conjugate pairs (each forming
// a real-coefficient biquad denominator) with a matching pair of zeros at
// zeroLoc; an unpaired real pole becomes a first-order section with
// a2=b2=0.
func pairIntoBiquads(poles []complex128, zeroLoc float64) []biquad {
	var sections []biquad
	used := make([]bool, len(poles))
	for i, p := range poles {
		if used[i] {
			continue
		}
		if math.Abs(imag(p)) < 1e-9 {
			// Real pole: first-order section.
			sections = append(sections, biquad{
				b0: 1,
				b1: -zeroLoc,
				b2: 0,
				a1: -real(p),
				a2: 0,
			})
			used[i] = true
			continue
		}
		// Find its conjugate partner.
		for j := i + 1; j < len(poles); j++ {
			if used[j] {
				continue
			}
			if math.Abs(imag(poles[j])+imag(p)) < 1e-6 && math.Abs(real(poles[j])-real(p)) < 1e-6 {
				used[i], used[j] = true, true
				a1 := -2 * real(p)
				a2 := real(p)*real(p) + imag(p)*imag(p)
				sections = append(sections, biquad{
					b0: 1,
					b1: -2 * zeroLoc,
					b2: zeroLoc * zeroLoc,
					a1: a1,
					a2: a2,
				})
				break
			}
		}
	}
	return sections
}

// cascadeGainAt evaluates the cascade's transfer function magnitude at a
// point z on the unit circle (z=1 for DC, z=-1 for Nyquist).
func cascadeGainAt(sections []biquad, z complex128) float64 {
	h := complex(1, 0)
	zInv := 1 / z
	for _, s := range sections {
		num := complex(s.b0, 0) + complex(s.b1, 0)*zInv + complex(s.b2, 0)*zInv*zInv
		den := complex(1, 0) + complex(s.a1, 0)*zInv + complex(s.a2, 0)*zInv*zInv
		h *= num / den
	}
	return math.Hypot(real(h), imag(h))
}

// runCascade applies a cascade of biquads to samples, optionally in
// filtfilt (forward-then-reverse, zero-phase) form when passes == 2
// (spec §4.4.3 "time_domain" / "number_of_passes = 2").
func runCascade(sections []biquad, samples []float64, passes int) []float64 {
	out := samples
	for _, s := range sections {
		out = s.apply(out)
	}
	if passes == 2 {
		out = reversed(out)
		for _, s := range sections {
			out = s.apply(out)
		}
		out = reversed(out)
	}
	return out
}

// magnitudeResponse evaluates |H(f)| of the cascade at frequency f (Hz),
// sampled at 1/dt, used by the frequency-domain implementation.
func magnitudeResponse(sections []biquad, f, dt float64) float64 {
	omega := 2 * math.Pi * f * dt
	z := complex(math.Cos(omega), math.Sin(omega))
	return cascadeGainAt(sections, z)
}

// ButterworthFilter applies a Butterworth filter of the given kind and
// order to samples (sampled at dt), using either the frequency-domain or
// time-domain implementation (spec §4.4.3). corners has length 1 for
// HighPass/LowPass (the single corner), length 2 for BandPass/BandStop
// ([f1, f2]). Band-pass and band-stop are realized by composing the
// lowpass/highpass primitives (cascade for pass, original-minus-bandpass
// for stop) rather than deriving a dedicated bandpass analog prototype —
// the same two-primitive composition many simplified Butterworth
// implementations use to cover all four filter shapes from one pole
// design.
func ButterworthFilter(samples []float64, dt float64, kind FilterKind, corners []float64, order int, domain Domain, passes int) ([]float64, error) {
	switch kind {
	case HighPass:
		return filterSinglePole(samples, dt, corners[0], order, true, domain, passes)
	case LowPass:
		return filterSinglePole(samples, dt, corners[0], order, false, domain, passes)
	case BandPass:
		hp, err := filterSinglePole(samples, dt, corners[0], order, true, domain, passes)
		if err != nil {
			return nil, err
		}
		return filterSinglePole(hp, dt, corners[1], order, false, domain, passes)
	case BandStop:
		bp, err := ButterworthFilter(samples, dt, BandPass, corners, order, domain, passes)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(samples))
		for i := range samples {
			out[i] = samples[i] - bp[i]
		}
		return out, nil
	default:
		return nil, errUnknownFilterKind
	}
}

func filterSinglePole(samples []float64, dt, fc float64, order int, highpass bool, domain Domain, passes int) ([]float64, error) {
	if fc <= 0 || fc >= 1/(2*dt) {
		return nil, errBadCorner
	}
	switch domain {
	case TimeDomain:
		sections := digitalSections(order, fc, dt, highpass)
		return runCascade(sections, samples, passes), nil
	case FrequencyDomain:
		return filterFrequencyDomain(samples, dt, fc, order, highpass, passes), nil
	default:
		return nil, errUnknownDomain
	}
}

// filterFrequencyDomain multiplies the spectrum by the filter's magnitude
// response (spec §4.4.3 "frequency_domain"); number_of_passes=2 is
// realized by squaring the magnitude response, which is the acausal,
// exactly-zero-phase equivalent of running the time-domain filter forward
// then backward.
func filterFrequencyDomain(samples []float64, dt, fc float64, order int, highpass bool, passes int) []float64 {
	sections := digitalSections(order, fc, dt, highpass)
	n := len(samples)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)
	for i := range coeffs {
		f := fft.Freq(i) / dt
		mag := magnitudeResponse(sections, f, dt)
		if passes == 2 {
			mag *= mag
		}
		coeffs[i] *= complex(mag, 0)
	}
	out := fft.Sequence(nil, coeffs)
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}
