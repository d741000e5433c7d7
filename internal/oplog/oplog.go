// Package oplog collects the replication records produced by update operators
// and appends them to a log sink so that the same effect can be reproduced
// deterministically on another copy of the data.
package oplog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single replication record: the ordered set of fully resolved
// dotted paths that were removed during one apply cycle over one document.
type Entry struct {
	ID        string    `json:"id" bson:"id"`
	Timestamp time.Time `json:"ts" bson:"ts"`
	Unsets    []string  `json:"unsets" bson:"unsets"`
}

// Builder accumulates unset records for a single apply cycle. A builder that
// never received a record produces no entry, no-op cycles must not appear in
// the log.
type Builder struct {
	unsets []string
}

// NewBuilder returns an empty builder for one apply cycle.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddUnset records that the field at the given fully resolved dotted path was
// removed. Placeholder parts must already be bound.
func (b *Builder) AddUnset(dotted string) error {
	if dotted == "" {
		return errors.New("cannot log an unset for an empty path")
	}
	b.unsets = append(b.unsets, dotted)
	return nil
}

// Len returns the number of records accumulated so far.
func (b *Builder) Len() int {
	return len(b.unsets)
}

// Entry seals the builder into a log entry. The second return is false when
// nothing was recorded, in which case no entry may be appended to any sink.
func (b *Builder) Entry() (Entry, bool) {
	if len(b.unsets) == 0 {
		return Entry{}, false
	}
	unsets := make([]string, len(b.unsets))
	copy(unsets, b.unsets)
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Unsets:    unsets,
	}, true
}

//------------------------------------------------------------------------------

// Sink is an append-only destination for log entries.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// MemorySink retains entries in memory, mostly useful for tests and for
// callers that replicate synchronously.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append adds an entry to the sink.
func (m *MemorySink) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return nil
}

// Entries returns a snapshot of all appended entries in order.
func (m *MemorySink) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}
