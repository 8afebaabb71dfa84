package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
)

// ClaimStore implements storage.ClaimStore using PostgreSQL. The PRIMARY
// KEY on signature is what makes recordClaim atomic across concurrent
// callers and across process instances.
type ClaimStore struct {
	pool *Pool
}

// NewClaimStore creates a new ClaimStore.
func NewClaimStore(pool *Pool) *ClaimStore {
	return &ClaimStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ClaimStore = (*ClaimStore)(nil)

// Has reports whether a claim exists for the signature.
func (s *ClaimStore) Has(ctx context.Context, signature string) (bool, error) {
	query := `SELECT 1 FROM burn_claims WHERE signature = $1`

	var one int
	err := s.pool.QueryRow(ctx, query, signature).Scan(&one)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("check claim exists: %w: %w", storage.ErrUnavailable, err)
	}
	return true, nil
}

// Insert records a claim. Returns ErrDuplicateKey if the signature was
// already claimed; the uniqueness check happens inside the database, not
// in application code, so two racing requests cannot both succeed.
func (s *ClaimStore) Insert(ctx context.Context, claim *domain.BurnClaim) error {
	if claim == nil || claim.Signature == "" {
		return storage.ErrInvalidInput
	}

	recordedAt := claim.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO burn_claims (signature, wallet_address, amount_burned, recorded_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		claim.Signature,
		claim.WalletAddress,
		claim.AmountBurned.String(),
		recordedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert burn claim: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

// Get retrieves a claim by signature. Returns ErrNotFound if absent.
func (s *ClaimStore) Get(ctx context.Context, signature string) (*domain.BurnClaim, error) {
	query := `
		SELECT signature, wallet_address, amount_burned::text, recorded_at
		FROM burn_claims
		WHERE signature = $1
	`

	var claim domain.BurnClaim
	var amount string
	err := s.pool.QueryRow(ctx, query, signature).Scan(
		&claim.Signature,
		&claim.WalletAddress,
		&amount,
		&claim.RecordedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get burn claim: %w: %w", storage.ErrUnavailable, err)
	}

	claim.AmountBurned, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}

	return &claim, nil
}
