// Package tokenstore persists the access/refresh credential pair.
package tokenstore

import (
	"context"
	"sync"

	"github.com/noah-isme/scanova-console/internal/models"
)

// Fixed keys under which each token is stored.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Store holds the credential pair. Tokens are opaque: no shape or expiry
// checks happen here, and absence is not an error.
type Store interface {
	Set(ctx context.Context, pair models.TokenPair) error
	Get(ctx context.Context) (models.TokenPair, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the pair for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	pair models.TokenPair
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context) (models.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = models.TokenPair{}
	return nil
}
