package store

import (
	"fmt"
	"reflect"
	"time"

	"memocache/internal/metrics"
)

// GetOrLoad returns the value cached under key as T, calling load on a miss
// and caching its result for ttl. Concurrent misses for the same key and type
// share a single load call. A load error is returned as is and nothing is
// cached.
func GetOrLoad[T any](s *Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if v, ok := Get[T](s, key); ok {
		return v, nil
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	v, err, _ := s.flight(typ).Do(key, func() (any, error) {
		// Another flight may have filled the slot while this one queued.
		if v, ok := s.peek(key, typ); ok {
			return v, nil
		}

		s.metrics.Inc(metrics.LoaderCallsTotal)
		v, err := load()
		if err != nil {
			s.metrics.Inc(metrics.LoaderFailuresTotal)
			return nil, err
		}
		s.put(key, v, typ, ttl)
		return v, nil
	})
	var zero T
	if err != nil {
		return zero, err
	}
	// A nil interface value.
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("store: load %q: got %T, want %s", key, v, typ)
	}
	return out, nil
}

// Typed is a view of a Store fixed to one value type.
type Typed[T any] struct {
	s *Store
}

// NewTyped returns a view of s that reads and writes values of type T.
func NewTyped[T any](s *Store) *Typed[T] {
	return &Typed[T]{s: s}
}

func (t *Typed[T]) Get(key string) (T, bool) {
	return Get[T](t.s, key)
}

func (t *Typed[T]) Set(key string, value T, ttl time.Duration) {
	Set(t.s, key, value, ttl)
}

func (t *Typed[T]) Remove(key string) {
	t.s.Remove(key)
}

func (t *Typed[T]) GetOrLoad(key string, ttl time.Duration, load func() (T, error)) (T, error) {
	return GetOrLoad(t.s, key, ttl, load)
}
