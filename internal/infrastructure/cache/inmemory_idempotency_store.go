package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
)

var _ ports.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

type entry struct {
	value     string
	expiresAt time.Time
}

// InMemoryIdempotencyStore almacén local de un solo proceso. Las claves vencidas se
// descartan al consultarlas.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: make(map[string]entry), now: time.Now}
}

// live devuelve la entrada si existe y no venció. Requiere mu tomado.
func (s *InMemoryIdempotencyStore) live(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = entry{value: pendingValue, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *InMemoryIdempotencyStore) Result(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok || e.value == pendingValue {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *InMemoryIdempotencyStore) Close() error { return nil }
