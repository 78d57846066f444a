// Package realtime provides the in-process change notification registry.
// It replaces a hosted realtime backend: writers publish table changes,
// subscribers (SSE handlers, pollers) receive them over channels. The
// registry is passed by reference wherever it is needed — there is no
// module-level singleton.
package realtime

import (
	"sync"
)

// Action is the kind of change applied to a table row.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes one committed write.
type Change struct {
	Table  string `json:"table"`
	Action Action `json:"action"`
	ID     string `json:"id"`
}

// Filter decides whether a subscriber receives a change. A nil filter
// accepts everything on the subscribed table.
type Filter func(Change) bool

// subscriber is one registered listener.
type subscriber struct {
	table  string // empty means all tables
	filter Filter
	ch     chan Change
}

// Registry fans table changes out to subscribers. Sends never block:
// a subscriber that falls behind its buffer misses changes rather than
// stalling writers.
type Registry struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
	closed bool
	buffer int
}

// NewRegistry builds a registry whose subscriber channels buffer up to
// buffer pending changes (default 16).
func NewRegistry(buffer int) *Registry {
	if buffer < 1 {
		buffer = 16
	}
	return &Registry{subs: make(map[int]*subscriber), buffer: buffer}
}

// Subscribe registers a listener for changes on table (empty for all
// tables), optionally narrowed by filter. The returned function cancels
// the subscription and closes the channel; it is safe to call more than
// once.
func (r *Registry) Subscribe(table string, filter Filter) (<-chan Change, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Change, r.buffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}

	id := r.nextID
	r.nextID++
	r.subs[id] = &subscriber{table: table, filter: filter, ch: ch}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(sub.ch)
			}
		})
	}
	return ch, unsubscribe
}

// SubscriberCount returns the number of live subscriptions.
func (r *Registry) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Publish delivers a change to every matching subscriber. Slow
// subscribers are skipped, never waited on.
func (r *Registry) Publish(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for _, sub := range r.subs {
		if sub.table != "" && sub.table != c.Table {
			continue
		}
		if sub.filter != nil && !sub.filter(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}

// Close terminates all subscriptions. Further publishes are dropped and
// further subscribes return an already-closed channel.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for id, sub := range r.subs {
		delete(r.subs, id)
		close(sub.ch)
	}
}
