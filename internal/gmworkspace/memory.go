package gmworkspace

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/groundmotion/gmprocess/internal/gmconfig"
	"github.com/groundmotion/gmprocess/internal/gmtrace"
)

// streamKey identifies one (event, label, station) slot in a
// MemoryWorkspace.
type streamKey struct {
	eventID, label, station string
}

// MemoryWorkspace is an in-process Workspace backed by plain maps,
// guarded by a single RWMutex. It is not durable: it exists for tests
// and for callers that only need the Workspace contract for one
// process's lifetime.
type MemoryWorkspace struct {
	mu sync.RWMutex

	config  *gmconfig.Config
	events  map[string]gmtrace.ScalarEvent
	streams map[streamKey][]*gmtrace.Stream
	aux     map[[2]string][]byte
}

// NewMemoryWorkspace returns an empty MemoryWorkspace seeded with cfg.
func NewMemoryWorkspace(cfg *gmconfig.Config) *MemoryWorkspace {
	if cfg == nil {
		cfg = &gmconfig.Config{}
	}
	return &MemoryWorkspace{
		config:  cfg,
		events:  make(map[string]gmtrace.ScalarEvent),
		streams: make(map[streamKey][]*gmtrace.Stream),
		aux:     make(map[[2]string][]byte),
	}
}

// PutEvent registers an event, for test setup.
func (w *MemoryWorkspace) PutEvent(event gmtrace.ScalarEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events[event.ID] = event
}

func (w *MemoryWorkspace) GetEventIDs() ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.events))
	for id := range w.events {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (w *MemoryWorkspace) GetEvent(id string) (gmtrace.ScalarEvent, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	event, ok := w.events[id]
	if !ok {
		return gmtrace.ScalarEvent{}, fmt.Errorf("gmworkspace: unknown event %q", id)
	}
	return event, nil
}

func (w *MemoryWorkspace) GetStreams(eventID string, stations, labels []string) ([]*gmtrace.Stream, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(labels) == 0 {
		labels = w.labelsForEventLocked(eventID)
	}
	stationFilter := toSet(stations)

	var out []*gmtrace.Stream
	for _, label := range labels {
		for key, streams := range w.streams {
			if key.eventID != eventID || key.label != label {
				continue
			}
			if len(stationFilter) > 0 && !stationFilter[key.station] && !stationFilter[streams[0].Traces[0].Station] {
				continue
			}
			out = append(out, streams...)
		}
	}
	return out, nil
}

func (w *MemoryWorkspace) labelsForEventLocked(eventID string) []string {
	seen := map[string]bool{}
	for key := range w.streams {
		if key.eventID == eventID {
			seen[key.label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (w *MemoryWorkspace) GetConfig() (*gmconfig.Config, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config, nil
}

func (w *MemoryWorkspace) InsertAux(group, key string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	blob := make([]byte, len(data))
	copy(blob, data)
	w.aux[[2]string{group, key}] = blob
	log.Printf("[MemoryWorkspace] inserted aux blob group=%s key=%s bytes=%d", group, key, len(blob))
	return nil
}

func (w *MemoryWorkspace) GetAux(group, key string) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	blob, ok := w.aux[[2]string{group, key}]
	if !ok {
		return nil, fmt.Errorf("gmworkspace: no aux blob for group=%s key=%s", group, key)
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// SetStreams replaces whatever streams were previously stored under
// (eventID, label, station) with streams, grouped by station. A second
// call with the same key overwrites rather than accumulates, so
// re-running a program against the same label reflects only the latest
// run's output.
func (w *MemoryWorkspace) SetStreams(eventID, label string, streams []*gmtrace.Stream) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	byStation := make(map[string][]*gmtrace.Stream)
	for _, stream := range streams {
		if len(stream.Traces) == 0 {
			return fmt.Errorf("gmworkspace: cannot persist an empty stream for event %q", eventID)
		}
		station := stream.StationID()
		byStation[station] = append(byStation[station], stream)
	}
	for station, grouped := range byStation {
		w.streams[streamKey{eventID: eventID, label: label, station: station}] = grouped
	}
	log.Printf("[MemoryWorkspace] persisted %d streams for event=%s label=%s", len(streams), eventID, label)
	return nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

var _ Workspace = (*MemoryWorkspace)(nil)
