package memory

import (
	"context"
	"sync"
)

// Store implements ports.SettingsStore in memory.
// Safe for concurrent use.
type Store struct {
	enabled bool
	mu      sync.RWMutex
}

// NewStore creates a new in-memory store, initially disabled.
func NewStore() *Store {
	return &Store{}
}

// Enabled reports the flag.
func (s *Store) Enabled(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled, nil
}

// SetEnabled stores the flag.
func (s *Store) SetEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	return nil
}
