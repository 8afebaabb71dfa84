package clickhouse

import (
	"context"
	"fmt"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
)

// AuditStore implements storage.AuditStore using ClickHouse. Audits are an
// append-only analytics trail; there is no uniqueness to enforce here.
type AuditStore struct {
	conn *Conn
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(conn *Conn) *AuditStore {
	return &AuditStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AuditStore = (*AuditStore)(nil)

// Insert adds one verification attempt record.
func (s *AuditStore) Insert(ctx context.Context, audit *domain.VerificationAudit) error {
	if audit == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO verification_audits (
			signature, wallet_address, outcome, stage,
			amount_burned, balance_delta, duration_ms, observed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		audit.Signature,
		audit.WalletAddress,
		audit.Outcome,
		audit.Stage,
		audit.AmountBurned.String(),
		audit.BalanceDelta.String(),
		audit.DurationMs,
		audit.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification audit: %w", err)
	}
	return nil
}
