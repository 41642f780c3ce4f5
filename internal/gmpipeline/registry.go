// Package gmpipeline implements the processing-program scheduler (spec
// §4.1, §5): a registry of named step functions, and a worker-pool
// dispatcher that runs the program over a batch of streams.
package gmpipeline

import (
	"sort"
	"sync"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// StepFunc is one registered processing step. It receives the stream
// (possibly already failed), the event the stream belongs to, this
// invocation's parameter map, and the full merged configuration (for
// sections a step needs beyond its own parameters, e.g. window_checks).
// Per spec §7, a step never returns an error for a processing failure —
// it records one on the stream or trace via Fail.
type StepFunc func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config)

// StepInfo is a summary of a registered step, for diagnostics and for
// validating a program before running it.
type StepInfo struct {
	Name string
}

// Registry holds named step functions. The zero value is not usable;
// construct with NewRegistry or use Default.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]StepFunc
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]StepFunc)}
}

// Register adds a step function under name. A second registration of the
// same name replaces the first, matching spec §4.1's acceptance that a
// program may invoke registered steps any number of times — the registry
// itself stays one-function-per-name regardless.
func (r *Registry) Register(name string, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[name] = fn
}

// Get retrieves a step function by name.
func (r *Registry) Get(name string) (StepFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.steps[name]
	return fn, ok
}

// List returns every registered step name, sorted for deterministic
// output.
func (r *Registry) List() []StepInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]StepInfo, 0, len(r.steps))
	for name := range r.steps {
		infos = append(infos, StepInfo{Name: name})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Clone returns a shallow copy of the registry's step map, so a caller
// can override one entry (e.g. compute_metrics, bound to a run-scoped
// sink) without mutating the shared original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	steps := make(map[string]StepFunc, len(r.steps))
	for name, fn := range r.steps {
		steps[name] = fn
	}
	return &Registry{steps: steps}
}

// Default is the process-wide registry populated with every step named
// in spec §4.2-§4.6. compute_metrics is intentionally absent here: Run
// always overrides it on a per-call clone, bound to that call's
// RunReport, since a step function has no return value to carry metric
// output back through. Callers that want a custom or reduced step set
// can build their own Registry with NewRegistry and Register instead.
var Default = buildDefaultRegistry()
