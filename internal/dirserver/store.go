package dirserver

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Store is a generic, thread-safe, in-memory store that preserves insertion
// order for deterministic listing.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	order   []string
	prefix  string
	counter atomic.Uint64
}

// NewStore creates a Store whose generated IDs carry the given prefix,
// e.g. "usr" yields "usr_000001".
func NewStore[T any](prefix string) *Store[T] {
	return &Store[T]{
		items:  make(map[string]T),
		order:  make([]string, 0),
		prefix: prefix,
	}
}

// NextID generates the next deterministic ID.
func (s *Store[T]) NextID() string {
	n := s.counter.Add(1)
	return fmt.Sprintf("%s_%06d", s.prefix, n)
}

// Set stores an item under the given ID. An existing ID is overwritten but
// keeps its position in the insertion order.
func (s *Store[T]) Set(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
}

// Get retrieves an item by ID.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns all items in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result
}

// Filter returns items matching the predicate, in insertion order.
func (s *Store[T]) Filter(predicate func(item T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []T
	for _, id := range s.order {
		if predicate(s.items[id]) {
			result = append(result, s.items[id])
		}
	}
	return result
}

// Count returns the number of stored items.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
