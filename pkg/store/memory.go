package store

import (
	"context"
	"sync"
	"time"

	"github.com/hanbyul/triago/internal/metrics"
)

// MemoryStore is the in-process fallback backend. Records never expire and
// live until the process exits or the conversation is deleted. One instance
// is shared process-wide; the map is guarded for concurrent handlers.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Get returns a deep copy of the stored record, or (nil, nil) if absent.
func (s *MemoryStore) Get(ctx context.Context, conversationID string) (*Record, error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("get", s.Type(), time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[conversationID].Clone(), nil
}

// Save stores a deep copy of the record, replacing any previous state.
func (s *MemoryStore) Save(ctx context.Context, conversationID string, rec *Record) error {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("save", s.Type(), time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[conversationID] = rec.Clone()
	return nil
}

// Delete removes the record. Idempotent.
func (s *MemoryStore) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, conversationID)
	return nil
}

// ExtendTTL is a no-op; the in-process store has no expiry.
func (s *MemoryStore) ExtendTTL(ctx context.Context, conversationID string) error {
	return nil
}

// Type identifies this backend.
func (s *MemoryStore) Type() string {
	return "memory"
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
