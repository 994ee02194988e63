package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func memKey(owner, key string) string { return owner + "\x00" + key }

func (s *MemoryStore) Get(_ context.Context, owner, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.docs[memKey(owner, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) Put(_ context.Context, owner, key string, body []byte) error {
	s.mu.Lock()
	s.docs[memKey(owner, key)] = append([]byte(nil), body...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner, key string) error {
	s.mu.Lock()
	delete(s.docs, memKey(owner, key))
	s.mu.Unlock()
	return nil
}
