package memory

import (
	"context"
	"sync"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
)

// AuditStore is an in-memory implementation of storage.AuditStore.
type AuditStore struct {
	mu      sync.RWMutex
	records []*domain.VerificationAudit
}

// NewAuditStore creates a new in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Compile-time interface check.
var _ storage.AuditStore = (*AuditStore)(nil)

// Insert adds one audit record.
func (s *AuditStore) Insert(_ context.Context, audit *domain.VerificationAudit) error {
	if audit == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *audit
	s.records = append(s.records, &copied)
	return nil
}

// All returns a snapshot of every recorded audit, in insertion order.
func (s *AuditStore) All() []*domain.VerificationAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.VerificationAudit, len(s.records))
	copy(out, s.records)
	return out
}
