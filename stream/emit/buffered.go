package emit

import (
	"context"
	"sync"
)

// BufferedEmitter stores events in memory, grouped by StreamID, for
// later inspection -- development, testing, and post-execution
// analysis. Not meant for long-running production streams: nothing
// evicts old events short of an explicit Clear.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // StreamID -> events, in emission order
}

// HistoryFilter narrows GetHistoryWithFilter's result. Zero-valued
// fields impose no constraint; set fields combine with AND logic.
type HistoryFilter struct {
	NodeID uint64     // match this node only (0 = no filter)
	Kind   *Kind      // match this transition kind only (nil = no filter)
	MinSeq *uint64    // events with Seq >= MinSeq (nil = no lower bound)
	MaxSeq *uint64    // events with Seq <= MaxSeq (nil = no upper bound)
}

// NewBufferedEmitter constructs a BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

// Emit appends event to its StreamID's history.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.StreamID] = append(b.events[event.StreamID], event)
}

// EmitBatch appends events in order.
func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, event := range events {
		b.events[event.StreamID] = append(b.events[event.StreamID], event)
	}
	return nil
}

// Flush is a no-op: BufferedEmitter holds events directly, nothing to
// flush downstream.
func (b *BufferedEmitter) Flush(context.Context) error { return nil }

// GetHistory returns a copy of every event recorded for streamID, in
// emission order.
func (b *BufferedEmitter) GetHistory(streamID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	events := b.events[streamID]
	result := make([]Event, len(events))
	copy(result, events)
	return result
}

// GetHistoryWithFilter returns streamID's events matching filter, in
// emission order.
func (b *BufferedEmitter) GetHistoryWithFilter(streamID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []Event
	for _, event := range b.events[streamID] {
		if b.matchesFilter(event, filter) {
			result = append(result, event)
		}
	}
	return result
}

func (b *BufferedEmitter) matchesFilter(event Event, filter HistoryFilter) bool {
	if filter.NodeID != 0 && event.NodeID != filter.NodeID {
		return false
	}
	if filter.Kind != nil && event.Kind != *filter.Kind {
		return false
	}
	if filter.MinSeq != nil && event.Seq < *filter.MinSeq {
		return false
	}
	if filter.MaxSeq != nil && event.Seq > *filter.MaxSeq {
		return false
	}
	return true
}

// Clear discards streamID's stored events, or every stream's events if
// streamID is empty.
func (b *BufferedEmitter) Clear(streamID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if streamID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, streamID)
}
