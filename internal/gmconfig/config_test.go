package gmconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsWellFormed(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.Processing)
	assert.True(t, cfg.CheckStream.AnyTraceFailures)
	assert.Equal(t, "konno_ohmachi", cfg.Metrics.TypeParameters.SmoothingMethod)
}

func TestMergeOverlayReplacesListsWholesale(t *testing.T) {
	base := DefaultConfig()
	overlay := Config{
		Processing: []ProgramStep{
			{Name: "detrend", Params: map[string]any{"method": "linear"}},
		},
	}

	merged, err := base.MergeOverlay(overlay)
	require.NoError(t, err)
	require.Len(t, merged.Processing, 1, "lists must replace wholesale, not append")
	assert.Equal(t, "detrend", merged.Processing[0].Name)
}

func TestMergeOverlayMergesMapsKeyByKey(t *testing.T) {
	base := DefaultConfig()
	overlay := Config{
		CheckStream: CheckStream{AnyTraceFailures: false},
		Windows: Windows{
			WindowChecks: WindowChecks{Enabled: true, MinNoiseDuration: 10.0},
		},
	}

	merged, err := base.MergeOverlay(overlay)
	require.NoError(t, err)
	assert.False(t, merged.CheckStream.AnyTraceFailures, "overlay should override scalar fields")
	assert.Equal(t, 10.0, merged.Windows.WindowChecks.MinNoiseDuration)
}

func TestMergeOverlaysAppliesInOrder(t *testing.T) {
	base := DefaultConfig()
	projectOverlay := Config{Windows: Windows{NoNoise: true}}
	runOverride := Config{CheckStream: CheckStream{AnyTraceFailures: false}}

	merged, err := MergeOverlays(base, projectOverlay, runOverride)
	require.NoError(t, err)
	assert.True(t, merged.Windows.NoNoise)
	assert.False(t, merged.CheckStream.AnyTraceFailures)
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
check_stream:
  any_trace_failures: false
windows:
  no_noise: true
`)
	cfg, err := ParseYAML(doc)
	require.NoError(t, err)
	assert.False(t, cfg.CheckStream.AnyTraceFailures)
	assert.True(t, cfg.Windows.NoNoise)
}

func TestDuplicatePreferencesTranslation(t *testing.T) {
	d := Duplicate{ProcessLevelOrder: []string{"v2", "v1"}, DistanceToleranceM: 100}
	prefs := d.DuplicatePreferences()
	require.Len(t, prefs.ProcessLevelOrder, 2)
	assert.Equal(t, 100.0, prefs.DistanceToleranceM)
}
