package dedup

import (
	"sync"
)

// Set tracks seen item identities for one engine instance.
// Not shared across engines.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSet creates an empty identity set.
func NewSet() *Set {
	return &Set{
		seen: make(map[string]struct{}),
	}
}

// CheckAndAdd hashes the item and records its identity. Returns true when
// the identity was already present (reject as duplicate), false when it was
// newly inserted (accept). Check and insert happen under one lock so two
// concurrent callers with the same identity cannot both get false.
func (s *Set) CheckAndAdd(title, content string) bool {
	hash := Hash(title, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[hash]; ok {
		return true
	}
	s.seen[hash] = struct{}{}
	return false
}

// Len returns the number of distinct identities recorded.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
