package gmconfig

import (
	"fmt"

	"dario.cat/mergo"
)

// MergeOverlay layers overlay onto the receiver and returns the merged
// document, implementing spec §9's "Configuration deep-merge with
// history": maps merge key-by-key recursively, lists replace wholesale.
// mergo's default behavior (no mergo.WithAppendSlice) already replaces
// slice fields wholesale on override rather than concatenating them,
// which is exactly the semantics `processing` needs so a user overlay can
// reorder or shorten the step list (grounded on
// gruntwork-io-terragrunt/config/cty_helpers.go's
// mergo.Merge(&target, source, mergo.WithOverride) idiom).
func (c Config) MergeOverlay(overlay Config) (Config, error) {
	merged := c
	if err := mergo.Merge(&merged, overlay, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("gmconfig: merge overlay: %w", err)
	}
	return merged, nil
}

// MergeOverlays applies a sequence of overlays in order: built-in default
// ⊕ project overlay ⊕ per-run overrides (spec §9).
func MergeOverlays(base Config, overlays ...Config) (Config, error) {
	merged := base
	var err error
	for _, overlay := range overlays {
		merged, err = merged.MergeOverlay(overlay)
		if err != nil {
			return Config{}, err
		}
	}
	return merged, nil
}
