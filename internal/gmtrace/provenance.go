package gmtrace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// ProvenanceEntry is a tagged record of one mutation applied to a Trace
// (spec §3 "Provenance entry"). ProvID is deterministic — a hash of the
// activity name and its parameters — rather than a random UUID, so that
// two runs with identical inputs produce byte-identical provenance logs
// (spec §8 property 1, "Provenance completeness").
type ProvenanceEntry struct {
	Activity   string
	ProvID     string
	Timestamp  time.Time
	Parameters map[string]string
}

// stableProvID hashes the activity name and a canonical (sorted-key)
// rendering of parameters, the same technique the teacher uses in
// internal/lidar/l3grid/background.go to fingerprint a background scene
// (sha256 over a canonical encoding, truncated to a short hex digest).
func stableProvID(activity string, parameters map[string]string) string {
	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte(activity))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(parameters[k]))
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("%s:%s", activity, hex.EncodeToString(sum[:8]))
}

// NewProvenanceEntry builds a provenance entry with a stable ProvID.
func NewProvenanceEntry(activity string, at time.Time, parameters map[string]string) ProvenanceEntry {
	if parameters == nil {
		parameters = map[string]string{}
	}
	return ProvenanceEntry{
		Activity:   activity,
		ProvID:     stableProvID(activity, parameters),
		Timestamp:  at,
		Parameters: parameters,
	}
}
