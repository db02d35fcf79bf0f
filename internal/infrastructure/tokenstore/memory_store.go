package tokenstore

import (
	"sync"

	"github.com/storegate/backoffice/internal/core/ports"
)

// MemoryStore is a volatile TokenStore for tests and embedding.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

var _ ports.TokenStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
