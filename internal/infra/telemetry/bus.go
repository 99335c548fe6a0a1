package telemetry

import (
	"fmt"
	"os"
	"sync"

	"officegw/internal/domain"
)

// Bus dispatches named events to subscribers. Emission is best-effort: a
// panicking subscriber is isolated and reported on stderr, never back
// through the logging path. Delivery order per event name follows
// submission order.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*subscription
	next int
}

type subscription struct {
	id int
	cb func(domain.LogEntry)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// Subscribe registers cb for event and returns an unsubscribe func.
func (b *Bus) Subscribe(event string, cb func(domain.LogEntry)) func() {
	b.mu.Lock()
	b.next++
	sub := &subscription{id: b.next, cb: cb}
	b.subs[event] = append(b.subs[event], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[event]
		for i, s := range list {
			if s.id == sub.id {
				b.subs[event] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

func (b *Bus) Emit(event string, entry domain.LogEntry) {
	b.mu.RLock()
	list := make([]*subscription, len(b.subs[event]))
	copy(list, b.subs[event])
	b.mu.RUnlock()

	for _, sub := range list {
		invoke(event, sub.cb, entry)
	}
}

func invoke(event string, cb func(domain.LogEntry), entry domain.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "INFRASTRUCTURE ERROR: subscriber panic on %s: %v\n", event, r)
		}
	}()
	cb(entry)
}
