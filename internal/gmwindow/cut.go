package gmwindow

import (
	"time"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// CheckWindow applies the window sanity checks from spec §4.2.3: the
// noise window (trace start to split) must be at least min_noise_duration
// seconds, and the signal window (split to signal end) must be at least
// min_signal_duration seconds. Failing either marks the trace failed and
// leaves it otherwise untouched.
func CheckWindow(tr *gmtrace.Trace, cfg gmconfig.WindowChecks) {
	if !cfg.Enabled {
		return
	}
	split, _ := tr.SignalSplit()
	end, _ := tr.SignalEndParam()

	noiseDuration := split.SplitSeconds
	if split.Method == "no_noise" {
		noiseDuration = cfg.MinNoiseDuration // vacuously satisfied
	}
	if noiseDuration < cfg.MinNoiseDuration {
		tr.Fail("window_too_short", "window_checks", "noise window shorter than min_noise_duration")
		return
	}

	signalDuration := end.EndSeconds - split.SplitSeconds
	if signalDuration < cfg.MinSignalDuration {
		tr.Fail("window_too_short", "window_checks", "signal window shorter than min_signal_duration")
	}
}

// Cut trims a trace to [split - sec_before_split, signal_end], appending
// a provenance entry recording the operation (spec §4.2.4). A negative
// resulting start offset at the very beginning of the record is left
// clamped to the record start rather than fabricated backward in time
// (SPEC_FULL.md §9.3).
func Cut(tr *gmtrace.Trace, secBeforeSplit float64, at time.Time) {
	split, _ := tr.SignalSplit()
	end, _ := tr.SignalEndParam()

	startSeconds := split.SplitSeconds - secBeforeSplit
	if startSeconds < 0 {
		startSeconds = 0
	}
	endSeconds := end.EndSeconds
	if endSeconds <= startSeconds {
		endSeconds = tr.Duration()
	}

	startIdx := int(startSeconds / tr.DeltaT)
	endIdx := int(endSeconds/tr.DeltaT) + 1
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(tr.Samples) {
		endIdx = len(tr.Samples)
	}
	if startIdx >= endIdx {
		tr.Fail("window_too_short", "cut", "cut window is empty after clamping to record bounds")
		return
	}

	newStart := tr.StartTime.Add(time.Duration(float64(startIdx) * tr.DeltaT * float64(time.Second)))
	tr.Samples = append([]float64(nil), tr.Samples[startIdx:endIdx]...)
	tr.StartTime = newStart

	tr.AppendProvenance("cut", at, map[string]string{
		"start_offset_s": formatSeconds(startSeconds),
		"end_offset_s":   formatSeconds(endSeconds),
	})
}

func formatSeconds(s float64) string {
	return time.Duration(s * float64(time.Second)).String()
}
