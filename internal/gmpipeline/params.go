package gmpipeline

import "github.com/groundmotion/gmprocess/internal/gmtrace"

// Parameter extraction helpers for the untyped params map a ProgramStep
// carries (spec §6: "ordered list of {step-name: parameter-map}"). Each
// step function pulls only the keys it needs, falling back to a default
// when the key is absent so a step can be invoked with a partial
// parameter map and still behave sensibly.

func paramFloat(params map[string]any, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

func paramInt(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func paramString(params map[string]any, key, def string) string {
	v, ok := params[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func paramBool(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func paramFloatSlice(params map[string]any, key string) []float64 {
	v, ok := params[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case int:
			out = append(out, float64(n))
		}
	}
	return out
}

func paramStringSlice(params map[string]any, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// paramCatalog and paramTravelTimes extract the non-primitive inputs
// trim_multiple_events needs. Catalogue lookup and travel-time computation
// are out of scope (spec Non-goals), so a caller assembling a ProgramStep
// must place these values directly in the step's params map rather than
// naming a source the step would fetch from itself.
func paramCatalog(params map[string]any, key string) []gmtrace.ScalarEvent {
	v, ok := params[key]
	if !ok {
		return nil
	}
	catalog, ok := v.([]gmtrace.ScalarEvent)
	if !ok {
		return nil
	}
	return catalog
}

func paramTravelTimes(params map[string]any, key string) map[string]float64 {
	v, ok := params[key]
	if !ok {
		return nil
	}
	travelTimes, ok := v.(map[string]float64)
	if !ok {
		return nil
	}
	return travelTimes
}
