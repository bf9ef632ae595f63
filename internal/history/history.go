// Package history keeps the bounded in-memory log of completed conversions
// shown on the form. The log is an explicitly owned value handed to the
// request handlers; there is no package-level state.
package history

import "sync"

// Entry is one completed conversion in display-ready form, already
// formatted with unit names ("100 Kilometers", "100000 Meters").
type Entry struct {
	FromVal string
	ToVal   string
}

// Log is a mutex-guarded FIFO of the most recent conversions. Appending
// beyond capacity evicts the oldest entry atomically with the append.
type Log struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
}

// DefaultCapacity is the number of conversions kept when no explicit
// capacity is configured.
const DefaultCapacity = 5

// New creates a log keeping at most capacity entries. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		cap:     capacity,
		entries: make([]Entry, 0, capacity),
	}
}

// Append records a conversion, evicting the oldest entry when full.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if len(l.entries) > l.cap {
		l.entries = l.entries[1:]
	}
}

// Entries returns a snapshot copy in insertion order, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
