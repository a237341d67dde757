package utils

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionStore is a thread-safe, in-memory map of upload sessions keyed by a
// random id. Entries idle for longer than ttl are evicted lazily; when the
// store is full the least recently used entry is dropped.
type SessionStore[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[string]*sessionEntry[T]
}

// NewSessionStore creates an empty SessionStore. A ttl or maxEntries of zero
// disables the respective limit.
func NewSessionStore[T any](ttl time.Duration, maxEntries int) *SessionStore[T] {
	return &SessionStore[T]{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]*sessionEntry[T]),
	}
}

// Create stores value under a fresh id and returns the id.
func (s *SessionStore[T]) Create(value T) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}

	id := uuid.NewString()
	s.entries[id] = &sessionEntry[T]{value: value, lastSeen: s.now()}
	return id
}

// Get returns the value for id and refreshes its idle timer.
func (s *SessionStore[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.entries[id]
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		delete(s.entries, id)
		return zero, false
	}
	e.lastSeen = s.now()
	return e.value, true
}

// Update applies fn to the stored value while holding the lock. It returns
// false if the id is unknown or expired.
func (s *SessionStore[T]) Update(id string, fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		return false
	}
	e.value = fn(e.value)
	e.lastSeen = s.now()
	return true
}

// Delete removes id. Deleting an unknown id is a no-op.
func (s *SessionStore[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Size returns the number of live sessions.
func (s *SessionStore[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	return len(s.entries)
}

func (s *SessionStore[T]) expired(e *sessionEntry[T]) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

func (s *SessionStore[T]) evictExpired() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}

func (s *SessionStore[T]) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
