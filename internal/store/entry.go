package store

import (
	"reflect"
	"sync"
	"time"
)

// cell holds one type-erased value together with the static type it was
// stored as. A cell is shared between the map and any in-flight reader, and
// is never mutated after creation: Set swaps in a new cell instead.
type cell struct {
	mu    sync.RWMutex
	value any
	typ   reflect.Type
}

func (c *cell) load() (any, reflect.Type) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.typ
}

// Entry represents a single value stored in the cache.
//
// Zero value of ExpiresAt means "no expiration".
type Entry struct {
	cell      *cell
	ExpiresAt time.Time
}

func newEntry(value any, typ reflect.Type, expiresAt time.Time) Entry {
	return Entry{
		cell:      &cell{value: value, typ: typ},
		ExpiresAt: expiresAt,
	}
}

// IsExpired checks whether the entry is expired at the given time.
// An entry is dead from the instant its deadline is reached.
func (e Entry) IsExpired(now time.Time) bool {
	if !e.expires() {
		return false
	}
	return !now.Before(e.ExpiresAt)
}

func (e Entry) expires() bool {
	return !e.ExpiresAt.IsZero()
}

// Type reports the static type the entry's value was stored as, or nil for
// the zero Entry.
func (e Entry) Type() reflect.Type {
	if e.cell == nil {
		return nil
	}
	_, typ := e.cell.load()
	return typ
}

// expiry computes the deadline for a value stored at now with the given ttl.
// A non-positive ttl never expires.
func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
