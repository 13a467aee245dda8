// Package cache provides a single-slot, time-to-live cache for upstream payloads.
//
// A Slot holds at most one value together with the time it was fetched. Reads within the
// TTL return the stored value; the first read after expiry loads a replacement. Concurrent
// misses on the same slot share a single load.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock returns the current time. Tests substitute a fake to step past the TTL.
type Clock func() time.Time

// LoadFunc produces a fresh value for a slot
type LoadFunc[T any] func(ctx context.Context) (T, error)

// EntryLoadFunc produces a value together with the time its source was fetched. A zero
// FetchedAt is stamped with the slot clock when stored.
type EntryLoadFunc[T any] func(ctx context.Context) (Entry[T], error)

// Entry is a cached value and the time it was fetched
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Slot manages one cached value with a TTL
type Slot[T any] struct {
	mu    sync.RWMutex
	entry *Entry[T]
	ttl   time.Duration
	now   Clock
	sf    singleflight.Group
}

// NewSlot creates an empty slot. A nil clock uses time.Now.
func NewSlot[T any](ttl time.Duration, now Clock) *Slot[T] {
	if now == nil {
		now = time.Now
	}
	return &Slot[T]{
		ttl: ttl,
		now: now,
	}
}

// Peek returns the cached value if it is still fresh, without loading
func (s *Slot[T]) Peek() (T, bool) {
	e, ok := s.PeekEntry()
	return e.Value, ok
}

// PeekEntry returns the cached entry if it is still fresh, without loading
func (s *Slot[T]) PeekEntry() (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.freshLocked() {
		return Entry[T]{}, false
	}
	return *s.entry, true
}

// Set stores value as fetched now
func (s *Slot[T]) Set(value T) {
	s.store(Entry[T]{Value: value})
}

// store saves e, stamping a zero FetchedAt with the slot clock
func (s *Slot[T]) store(e Entry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.FetchedAt.IsZero() {
		e.FetchedAt = s.now()
	}
	s.entry = &e
}

// Get returns the cached value when fresh. Otherwise it calls load, stores the result and
// returns it. hit reports whether the value came from the cache. Load errors are returned
// as-is and leave the slot untouched.
func (s *Slot[T]) Get(ctx context.Context, load LoadFunc[T]) (value T, hit bool, err error) {
	return s.GetEntry(ctx, func(ctx context.Context) (Entry[T], error) {
		v, err := load(ctx)
		return Entry[T]{Value: v}, err
	})
}

// GetEntry is Get for loaders that know when their source was fetched. The stored entry
// keeps that time, so a value derived from an older payload expires with it.
//
// Concurrent misses share one load. The shared load is detached from the cancellation of
// whichever caller started it; a caller whose ctx ends stops waiting and gets ctx.Err().
func (s *Slot[T]) GetEntry(ctx context.Context, load EntryLoadFunc[T]) (value T, hit bool, err error) {
	if v, ok := s.Peek(); ok {
		return v, true, nil
	}

	ch := s.sf.DoChan("load", func() (interface{}, error) {
		// Another caller may have filled the slot while we waited to enter
		if v, ok := s.Peek(); ok {
			return v, nil
		}

		e, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.store(e)
		return e.Value, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}

// freshLocked reports whether the entry is younger than the TTL; callers hold mu
func (s *Slot[T]) freshLocked() bool {
	if s.entry == nil {
		return false
	}
	return s.now().Sub(s.entry.FetchedAt) < s.ttl
}
