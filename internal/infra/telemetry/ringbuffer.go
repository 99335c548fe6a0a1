package telemetry

import (
	"sync"

	"officegw/internal/domain"
)

// RingBuffer is a fixed-capacity log store. Once full, the oldest entry is
// overwritten. No allocation growth after steady state.
type RingBuffer struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	cursor  int
	full    bool
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = domain.DefaultLogBufferSize
	}
	return &RingBuffer{
		entries: make([]domain.LogEntry, capacity),
	}
}

func (b *RingBuffer) Add(entry domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.cursor] = entry
	b.cursor = (b.cursor + 1) % len(b.entries)
	if b.cursor == 0 {
		b.full = true
	}
}

// Snapshot returns the stored entries oldest to newest. When full, the
// slice starting at the cursor precedes the slice before it.
func (b *RingBuffer) Snapshot() []domain.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]domain.LogEntry, b.cursor)
		copy(out, b.entries[:b.cursor])
		return out
	}
	out := make([]domain.LogEntry, 0, len(b.entries))
	out = append(out, b.entries[b.cursor:]...)
	out = append(out, b.entries[:b.cursor]...)
	return out
}

func (b *RingBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = 0
	b.full = false
}

func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.entries)
	}
	return b.cursor
}
