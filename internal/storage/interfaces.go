// Package storage defines the persistence interfaces for burn claims and
// verification audits, plus the sentinel errors implementations return.
package storage

import (
	"context"

	"solana-burn-gate/internal/domain"
)

// ClaimStore is the claim ledger: an append-only registry of redeemed
// signatures. It is the sole owner of BurnClaim rows.
type ClaimStore interface {
	// Has reports whether a claim exists for the signature. A storage
	// failure is an error, never a "not claimed" answer.
	Has(ctx context.Context, signature string) (bool, error)

	// Insert records a claim. Returns ErrDuplicateKey if the signature
	// was already claimed. Must be atomic with respect to concurrent
	// inserts of the same signature: exactly one caller wins.
	Insert(ctx context.Context, claim *domain.BurnClaim) error

	// Get retrieves a claim by signature. Returns ErrNotFound if absent.
	Get(ctx context.Context, signature string) (*domain.BurnClaim, error)
}

// AuditStore records verification attempts for offline analytics.
// Append-only; losing an audit row must never affect a verdict.
type AuditStore interface {
	// Insert adds one audit record.
	Insert(ctx context.Context, audit *domain.VerificationAudit) error
}
