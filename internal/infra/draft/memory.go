package draft

import (
	"context"
	"sync"

	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

// MemoryStore is the in-memory test double of the draft slot.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ shared.DraftStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob := make([]byte, len(payload))
	copy(blob, payload)
	s.blobs[key] = blob
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
