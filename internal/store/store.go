package store

import (
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"memocache/internal/logs"
	"memocache/internal/metrics"
)

// DefaultMaxEntries is the entry count above which the next Set flushes the
// whole store.
const DefaultMaxEntries = 10240

// Store is a concurrency-safe in-memory cache holding values of any type.
//
// Design principles:
// - The map is guarded by an RWMutex; every value sits in its own cell so
// readers never block each other
// - Values are type-erased but tagged with the type they were stored as;
// a read with any other type is a miss
// - TTL expiration is checked on every read and reclaimed by RemoveExpired
// - Capacity is enforced by flushing everything once MaxEntries is exceeded
// - A panic inside an operation is recovered and counted; the operation
// degrades to a miss or a no-op
type Store struct {
	mu         sync.RWMutex
	data       map[string]Entry
	maxEntries int
	now        func() time.Time
	expiring   int

	flights sync.Mutex
	loads   map[reflect.Type]*singleflight.Group

	metrics *metrics.Registry
	logger  *logs.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries sets the overflow threshold. Non-positive values are ignored.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics sets the registry the store reports into.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Store) {
		if reg != nil {
			s.metrics = reg
		}
	}
}

// WithLogger sets the logger used for flushes and recovered faults.
func WithLogger(l *logs.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore initializes and returns a new Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:       make(map[string]Entry),
		loads:      make(map[reflect.Type]*singleflight.Group),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		metrics:    metrics.NewRegistry(),
		logger:     logs.NewLogger(100, logs.WARN),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key as type T, replacing any previous entry.
//
// A ttl of zero or less means the entry never expires. If the store already
// holds more than its maximum number of entries, every entry is dropped
// before the new one is inserted.
func Set[T any](s *Store, key string, value T, ttl time.Duration) {
	s.put(key, value, reflect.TypeOf((*T)(nil)).Elem(), ttl)
}

// Get returns the value stored under key if it was stored as exactly T and
// has not expired. Missing, mistyped and expired entries all report false.
func Get[T any](s *Store, key string) (out T, ok bool) {
	v, found := s.load(key, reflect.TypeOf((*T)(nil)).Elem())
	if !found {
		return out, false
	}
	// A nil interface value stored as an interface type.
	if v == nil {
		return out, true
	}
	out, ok = v.(T)
	return out, ok
}

func (s *Store) put(key string, value any, typ reflect.Type, ttl time.Duration) {
	defer s.recoverFault("set", key)

	entry := newEntry(value, typ, expiry(s.now(), ttl))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Inc(metrics.CacheSetsTotal)

	if len(s.data) > s.maxEntries {
		flushed := len(s.data)
		clear(s.data)

		s.metrics.Inc(metrics.CacheFlushesTotal)
		s.metrics.Add(metrics.CacheKeys, -int64(flushed))
		s.dropExpiring(s.expiring)
		s.logger.Warn("store over capacity, flushed all entries",
			"flushed", flushed, "max_entries", s.maxEntries)
	}

	if old, exists := s.data[key]; !exists {
		s.metrics.Inc(metrics.CacheKeys)
	} else if old.expires() {
		s.dropExpiring(1)
	}
	if entry.expires() {
		s.expiring++
		s.metrics.Inc(metrics.CacheExpiringKeys)
	}

	s.data[key] = entry
}

// dropExpiring forgets n entries that carried a deadline. Callers hold s.mu.
func (s *Store) dropExpiring(n int) {
	if n == 0 {
		return
	}
	s.expiring -= n
	s.metrics.Add(metrics.CacheExpiringKeys, -int64(n))
}

type lookup int

const (
	lookupMissing lookup = iota
	lookupExpired
	lookupMismatch
	lookupHit
)

func (s *Store) load(key string, want reflect.Type) (value any, ok bool) {
	defer s.recoverFault("get", key)

	s.metrics.Inc(metrics.CacheGetsTotal)

	entry, value, result := s.read(key, want)
	switch result {
	case lookupHit:
		s.metrics.Inc(metrics.CacheHitsTotal)
		return value, true
	case lookupExpired:
		s.purge(key, entry)
	case lookupMismatch:
		s.metrics.Inc(metrics.CacheTypeMismatchTotal)
	}

	s.metrics.Inc(metrics.CacheMissesTotal)
	return nil, false
}

// peek is load without the read counters, for re-checks inside a loader
// flight.
func (s *Store) peek(key string, want reflect.Type) (value any, ok bool) {
	defer s.recoverFault("get", key)

	_, value, result := s.read(key, want)
	return value, result == lookupHit
}

// read resolves key under the map read lock. The value cell is read while
// the map lock is still held so a concurrent sweep cannot interleave.
func (s *Store) read(key string, want reflect.Type) (Entry, any, lookup) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.data[key]
	if !exists {
		return Entry{}, nil, lookupMissing
	}

	if entry.IsExpired(s.now()) {
		return entry, nil, lookupExpired
	}

	value, typ := entry.cell.load()
	if typ != want {
		return entry, nil, lookupMismatch
	}
	return entry, value, lookupHit
}

// purge deletes key if it still maps to the stale entry observed by a read.
func (s *Store) purge(key string, stale Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	if !ok || current.cell != stale.cell {
		return
	}

	delete(s.data, key)
	s.metrics.Inc(metrics.CacheExpiredTotal)
	s.metrics.Add(metrics.CacheKeys, -1)
	s.dropExpiring(1)
}

// Remove deletes key from the store. Missing keys are ignored.
func (s *Store) Remove(key string) {
	defer s.recoverFault("remove", key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.data[key]; ok {
		delete(s.data, key)
		s.metrics.Add(metrics.CacheKeys, -1)
		if entry.expires() {
			s.dropExpiring(1)
		}
	}
}

// RemoveExpired removes all expired keys from the store.
//
// This is used by the background TTL cleaner.
func (s *Store) RemoveExpired() (removed int) {
	defer s.recoverFault("sweep", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.data {
		if v.IsExpired(now) {
			delete(s.data, k)
			removed++
		}
	}

	if removed > 0 {
		s.metrics.Add(metrics.CacheExpiredTotal, int64(removed))
		s.metrics.Add(metrics.CacheKeys, -int64(removed))
		s.dropExpiring(removed)
	}

	return removed
}

// List returns a snapshot of all non-expired entries.
// Used by admin APIs.
func (s *Store) List() map[string]Entry {
	defer s.recoverFault("list", "")

	result := make(map[string]Entry)

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	for k, v := range s.data {
		if !v.IsExpired(now) {
			result[k] = v
		}
	}
	return result
}

// Len returns the number of stored entries, including expired entries that
// have not been swept yet.
func (s *Store) Len() (n int) {
	defer s.recoverFault("len", "")

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear drops every entry.
func (s *Store) Clear() {
	defer s.recoverFault("clear", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Add(metrics.CacheKeys, -int64(len(s.data)))
	s.dropExpiring(s.expiring)
	clear(s.data)
}

// flight returns the loader group for values of type typ. Groups are split
// by type so loads of one key under two types never share a result.
func (s *Store) flight(typ reflect.Type) *singleflight.Group {
	s.flights.Lock()
	defer s.flights.Unlock()

	g, ok := s.loads[typ]
	if !ok {
		g = new(singleflight.Group)
		s.loads[typ] = g
	}
	return g
}

// recoverFault absorbs a panic raised inside a store operation. It must be
// deferred before any lock is taken so the lock's own deferred release runs
// first.
func (s *Store) recoverFault(op, key string) {
	r := recover()
	if r == nil {
		return
	}

	s.metrics.Inc(metrics.CacheFaultsTotal)
	s.logger.Error("panic recovered in store operation",
		"op", op, "key", key, "panic", r)
}
