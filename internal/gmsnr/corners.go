package gmsnr

import (
	"math"
	"strconv"
	"time"

	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// MagnitudeBand is one row of the piecewise highpass/lowpass table used by
// the "magnitude" corner-selection method (spec §4.3.3).
type MagnitudeBand struct {
	MaxMagnitude float64 // band applies when event magnitude <= MaxMagnitude
	HighPass     float64
	LowPass      float64
}

// DefaultMagnitudeBands is a coarse magnitude-to-corner table in the
// tradition of regional strong-motion processing conventions, used when no
// table is configured.
var DefaultMagnitudeBands = []MagnitudeBand{
	{MaxMagnitude: 4.0, HighPass: 0.3, LowPass: 40},
	{MaxMagnitude: 5.0, HighPass: 0.2, LowPass: 35},
	{MaxMagnitude: 6.0, HighPass: 0.1, LowPass: 30},
	{MaxMagnitude: 7.0, HighPass: 0.05, LowPass: 25},
	{MaxMagnitude: math.Inf(1), HighPass: 0.02, LowPass: 20},
}

// SelectConstant sets fixed corner frequencies (spec §4.3.3 "constant").
func SelectConstant(tr *gmtrace.Trace, highpass, lowpass float64, at time.Time) {
	tr.SetCornerFrequencies(gmtrace.CornerFrequencies{HighPass: highpass, LowPass: lowpass, HighPassMode: "constant", LowPassMode: "constant"})
	appendCornerProvenance(tr, "constant", highpass, lowpass, at)
}

// SelectMagnitude sets corner frequencies from the band whose MaxMagnitude
// is the smallest value >= the event magnitude (spec §4.3.3 "magnitude").
func SelectMagnitude(tr *gmtrace.Trace, magnitude float64, bands []MagnitudeBand, at time.Time) {
	if len(bands) == 0 {
		bands = DefaultMagnitudeBands
	}
	band := bands[len(bands)-1]
	for _, b := range bands {
		if magnitude <= b.MaxMagnitude {
			band = b
			break
		}
	}
	tr.SetCornerFrequencies(gmtrace.CornerFrequencies{HighPass: band.HighPass, LowPass: band.LowPass, HighPassMode: "magnitude", LowPassMode: "magnitude"})
	appendCornerProvenance(tr, "magnitude", band.HighPass, band.LowPass, at)
}

// SelectSNR implements spec §4.3.3 "snr": the lowest frequency below the
// SNR peak where SNR crosses threshold becomes the highpass corner, and
// symmetrically the highest frequency above the peak becomes the lowpass
// corner. If sameHoriz is set, the two horizontal traces of a stream use
// the more conservative (narrower passband) of their two independent
// picks for both.
func SelectSNR(traces []*gmtrace.Trace, threshold float64, sameHoriz bool, at time.Time) {
	type pick struct {
		hp, lp float64
	}
	picks := make(map[*gmtrace.Trace]pick, len(traces))
	for _, tr := range traces {
		snr, ok := tr.SNR()
		if !ok || len(snr.Freqs) == 0 {
			continue
		}
		picks[tr] = snrCrossing(snr, threshold)
	}

	if sameHoriz && len(traces) > 1 {
		var hp, lp float64 = 0, math.Inf(1)
		for _, p := range picks {
			if p.hp > hp {
				hp = p.hp
			}
			if p.lp < lp {
				lp = p.lp
			}
		}
		for _, tr := range traces {
			if _, ok := picks[tr]; ok {
				tr.SetCornerFrequencies(gmtrace.CornerFrequencies{HighPass: hp, LowPass: lp, HighPassMode: "snr", LowPassMode: "snr"})
				appendCornerProvenance(tr, "snr", hp, lp, at)
			}
		}
		return
	}

	for tr, p := range picks {
		tr.SetCornerFrequencies(gmtrace.CornerFrequencies{HighPass: p.hp, LowPass: p.lp, HighPassMode: "snr", LowPassMode: "snr"})
		appendCornerProvenance(tr, "snr", p.hp, p.lp, at)
	}
}

// appendCornerProvenance records a corner-frequency selection or revision.
func appendCornerProvenance(tr *gmtrace.Trace, mode string, highpass, lowpass float64, at time.Time) {
	tr.AppendProvenance("corner_frequencies", at, map[string]string{
		"mode":     mode,
		"highpass": strconv.FormatFloat(highpass, 'g', -1, 64),
		"lowpass":  strconv.FormatFloat(lowpass, 'g', -1, 64),
	})
}

// snrCrossing finds the SNR peak, then walks outward to find the lowest
// below-peak frequency and highest above-peak frequency at which SNR
// crosses threshold.
func snrCrossing(snr gmtrace.SNRResult, threshold float64) struct{ hp, lp float64 } {
	peakIdx := 0
	for i, v := range snr.Smoothed {
		if v > snr.Smoothed[peakIdx] {
			peakIdx = i
		}
	}

	hp := snr.Freqs[0]
	for i := peakIdx; i >= 0; i-- {
		if snr.Smoothed[i] < threshold {
			hp = snr.Freqs[i]
			break
		}
		hp = snr.Freqs[i]
	}

	lp := snr.Freqs[len(snr.Freqs)-1]
	for i := peakIdx; i < len(snr.Freqs); i++ {
		if snr.Smoothed[i] < threshold {
			lp = snr.Freqs[i]
			break
		}
		lp = snr.Freqs[i]
	}

	return struct{ hp, lp float64 }{hp: hp, lp: lp}
}

// ApplyLowpassCap clamps the trace's lowpass corner to
// min(lowpass, fnFac*fNyquist, lpMax), per spec §4.3.4.
func ApplyLowpassCap(tr *gmtrace.Trace, fnFac, lpMax float64, at time.Time) {
	cf, ok := tr.CornerFrequencies()
	if !ok {
		return
	}
	nyquist := tr.SamplingRate() / 2
	ceiling := fnFac * nyquist
	if lpMax > 0 && lpMax < ceiling {
		ceiling = lpMax
	}
	if cf.LowPass > ceiling {
		cf.LowPass = ceiling
	}
	tr.SetCornerFrequencies(cf)
	tr.AppendProvenance("lowpass_cap", at, map[string]string{
		"lowpass": strconv.FormatFloat(cf.LowPass, 'g', -1, 64),
	})
}
