// Package gmworkspace defines the persistence boundary the processing
// core runs against: an opaque store of events, streams, auxiliary
// blobs, and configuration (spec.md §6 "Persistence boundary"). No
// ASDF/HDF5-backed implementation is provided here; Workspace is a
// contract other packages depend on, with MemoryWorkspace as the
// in-process stand-in used by tests and by callers that don't need
// durability.
package gmworkspace

import (
	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// Workspace is the persistence boundary the pipeline scheduler and its
// callers run against. Implementations MAY be backed by a file (ASDF),
// a database, or memory; the core never assumes which.
type Workspace interface {
	// GetEventIDs lists every event ID known to the workspace.
	GetEventIDs() ([]string, error)
	// GetEvent fetches one event's scalar descriptor.
	GetEvent(id string) (gmtrace.ScalarEvent, error)
	// GetStreams fetches the streams for an event, optionally filtered
	// to a subset of stations and processing labels. A nil/empty
	// stations or labels filter matches everything.
	GetStreams(eventID string, stations, labels []string) ([]*gmtrace.Stream, error)
	// GetConfig fetches the processing configuration in effect for the
	// workspace.
	GetConfig() (*gmconfig.Config, error)
	// InsertAux stores an opaque byte blob under (group, key), for
	// provenance artifacts or diagnostic output that doesn't fit the
	// Stream/Trace model.
	InsertAux(group, key string, data []byte) error
	// GetAux is the inverse of InsertAux.
	GetAux(group, key string) ([]byte, error)
	// SetStreams persists samples, metadata, parameters, and provenance
	// for an event under a processing label (e.g. "raw", "processed").
	SetStreams(eventID, label string, streams []*gmtrace.Stream) error
}
