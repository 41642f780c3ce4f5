package gmpipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/alitto/pond"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmerrors"
	"github.com/groundmotion/gmprocess/internal/gmmetrics"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// Run dispatches program across streams using a fixed worker pool (spec
// §5: "a worker pool of N independent tasks ... the dispatcher partitions
// streams across workers; each worker runs the full program sequentially
// on its streams"), following the sizing and pond.New/Submit/StopAndWait
// idiom this engine's worker-pool dependency is used with elsewhere in
// the corpus.
//
// Every step name in program is validated against registry before any
// stream is touched: an unknown step is a ConfigError, the one failure
// kind ever returned rather than recorded (spec §7).
func Run(ctx context.Context, registry *Registry, streams []*gmtrace.Stream, event gmtrace.ScalarEvent, program []gmconfig.ProgramStep, cfg *gmconfig.Config) (*RunReport, error) {
	runRegistry := registry.Clone()
	builder := newReportBuilder()
	runRegistry.Register("compute_metrics", computeMetricsStep(builder))

	for _, step := range program {
		if _, ok := runRegistry.Get(step.Name); !ok {
			return nil, gmerrors.Config("gmpipeline: unknown step %q", step.Name)
		}
	}

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))

	for _, stream := range streams {
		st := stream
		pool.Submit(func() {
			runProgram(ctx, runRegistry, st, event, program, cfg, builder)
		})
	}
	pool.StopAndWait()

	return builder.build(), nil
}

// computeMetricsStep binds gmmetrics.Compute's output to this Run's
// report, since a StepFunc has no return value of its own (spec §7: a
// step either mutates its stream or records a failure on it — metric
// output is exactly the kind of side channel a RunReport exists for).
func computeMetricsStep(builder *reportBuilder) StepFunc {
	return func(s *gmtrace.Stream, event gmtrace.ScalarEvent, params map[string]any, cfg *gmconfig.Config) {
		if !s.Passed {
			return
		}
		sm, err := gmmetrics.Compute(s, cfg.Metrics)
		if err != nil {
			s.Fail("metrics_failed", "compute_metrics", err.Error())
			return
		}
		sm.StationID = s.StationID()
		builder.recordMetrics(sm)
	}
}

// runProgram executes program against one stream sequentially (spec §5:
// "within a single stream, steps are strictly sequential"), honoring
// cooperative cancellation at step boundaries only — never mid-step
// (spec §5: "a cancelled program leaves partially processed streams in
// whatever state the last completed step left them").
func runProgram(ctx context.Context, registry *Registry, s *gmtrace.Stream, event gmtrace.ScalarEvent, program []gmconfig.ProgramStep, cfg *gmconfig.Config, builder *reportBuilder) {
	for _, step := range program {
		select {
		case <-ctx.Done():
			recordOutcome(s, builder)
			return
		default:
		}

		fn, _ := registry.Get(step.Name) // validated in Run before dispatch
		start := time.Now()
		fn(s, event, step.Params, cfg)
		builder.recordStep(step.Name, time.Since(start))

		if cfg.CheckStream.AnyTraceFailures && s.Passed && s.AnyTraceFailed() {
			s.Fail("any_trace_failures", step.Name, "a trace failed and any_trace_failures is set")
		}
	}
	recordOutcome(s, builder)
}

func recordOutcome(s *gmtrace.Stream, builder *reportBuilder) {
	if s.Passed {
		builder.recordStreamPassed()
		return
	}
	builder.recordStreamFailed(s.StationID(), s.FailureReasons)
}
