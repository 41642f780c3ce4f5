// Package gmerrors defines the error taxonomy used across the waveform
// processing engine. Every failure raised anywhere in the engine is one of
// the six kinds below. ConfigError is the only kind ever returned from a
// public API call; the rest are recorded on a Trace or Stream as a
// FailureReason and never propagate as a Go error (see gmtrace.FailureReason).
package gmerrors

import "fmt"

// Kind enumerates the taxonomy from spec §7.
type Kind int

const (
	// ConfigError marks a malformed program, unknown step, or contradictory
	// parameters. Fatal at startup, surfaced to the caller before any
	// stream is touched.
	ConfigError Kind = iota
	// DataError marks malformed input: mismatched sample count, zero-length
	// trace, missing required metadata.
	DataError
	// ProcessingError marks a numerical failure during a step: non-finite
	// samples, an unstable filter, a failed Ridder search.
	ProcessingError
	// QACheckFail marks an explicit QA criterion that was not met.
	QACheckFail
	// ResponseMetadataError marks inconsistent instrument metadata.
	ResponseMetadataError
	// MissingPrereq marks a step that requires a trace parameter not set
	// by a previous step.
	MissingPrereq
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "config_error"
	case DataError:
		return "data_error"
	case ProcessingError:
		return "processing_error"
	case QACheckFail:
		return "qa_check_fail"
	case ResponseMetadataError:
		return "response_metadata_error"
	case MissingPrereq:
		return "missing_prereq"
	default:
		return "unknown_error"
	}
}

// Error is a taxonomy-tagged error. Stage is the step name that raised it,
// empty for errors raised outside of a pipeline step (e.g. config parsing).
type Error struct {
	Kind  Kind
	Stage string
	Text  string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Stage, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, stage, text string) *Error {
	return &Error{Kind: kind, Stage: stage, Text: text}
}

// Wrap builds an Error of the given kind wrapping an existing error.
func Wrap(kind Kind, stage string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Stage: stage, Text: err.Error(), Err: err}
}

// Config is a convenience constructor for the one Kind that is ever
// returned (not recorded) by the engine.
func Config(format string, args ...any) *Error {
	return &Error{Kind: ConfigError, Text: fmt.Sprintf(format, args...)}
}
