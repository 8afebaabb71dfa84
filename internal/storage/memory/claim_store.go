// Package memory provides in-memory store implementations for local runs
// and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
)

// ClaimStore is an in-memory implementation of storage.ClaimStore.
// The single mutex gives the same one-winner guarantee the database
// uniqueness constraint gives, but only within one process.
type ClaimStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BurnClaim
}

// NewClaimStore creates a new in-memory claim store.
func NewClaimStore() *ClaimStore {
	return &ClaimStore{
		data: make(map[string]*domain.BurnClaim),
	}
}

// Compile-time interface check.
var _ storage.ClaimStore = (*ClaimStore)(nil)

// Has reports whether a claim exists for the signature.
func (s *ClaimStore) Has(_ context.Context, signature string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[signature]
	return exists, nil
}

// Insert records a claim. Returns ErrDuplicateKey if the signature exists.
func (s *ClaimStore) Insert(_ context.Context, claim *domain.BurnClaim) error {
	if claim == nil || claim.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[claim.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	stored := *claim
	if stored.RecordedAt.IsZero() {
		stored.RecordedAt = time.Now().UTC()
	}
	s.data[claim.Signature] = &stored
	return nil
}

// Get retrieves a claim by signature. Returns ErrNotFound if absent.
func (s *ClaimStore) Get(_ context.Context, signature string) (*domain.BurnClaim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, exists := s.data[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copied := *claim
	return &copied, nil
}
