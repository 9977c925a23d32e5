package soldmark

import (
	"context"
	"sync"
)

// MemoryStore is an in-process sold-mark store used when Redis is not
// configured, and by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	marks map[string]bool
}

// NewMemoryStore creates an empty in-memory sold-mark store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{marks: make(map[string]bool)}
}

// Mark flags the product's single unit as sold.
func (s *MemoryStore) Mark(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[productID] = true
	return nil
}

// Unmark clears the sold flag.
func (s *MemoryStore) Unmark(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.marks, productID)
	return nil
}

// IsSold reports whether the product has been marked sold.
func (s *MemoryStore) IsSold(_ context.Context, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marks[productID], nil
}

// Map returns the sold projection for the given product ids.
func (s *MemoryStore) Map(_ context.Context, productIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marks := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if s.marks[id] {
			marks[id] = true
		}
	}
	return marks, nil
}
