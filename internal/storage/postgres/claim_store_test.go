package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
	"solana-burn-gate/internal/storage/postgres"
)

func testClaim(signature string) *domain.BurnClaim {
	return &domain.BurnClaim{
		Signature:     signature,
		WalletAddress: "Wallet1111111111111111111111111111111111111",
		AmountBurned:  decimal.RequireFromString("5.25"),
		RecordedAt:    time.Now().UTC(),
	}
}

func TestClaimStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewClaimStore(pool)

	claim := testClaim("Sig1")
	require.NoError(t, store.Insert(ctx, claim))

	got, err := store.Get(ctx, "Sig1")
	require.NoError(t, err)
	assert.Equal(t, claim.Signature, got.Signature)
	assert.Equal(t, claim.WalletAddress, got.WalletAddress)
	assert.True(t, got.AmountBurned.Equal(claim.AmountBurned),
		"want %s, got %s", claim.AmountBurned, got.AmountBurned)
	assert.WithinDuration(t, claim.RecordedAt, got.RecordedAt, time.Second)
}

func TestClaimStore_Get_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewClaimStore(pool)

	_, err := store.Get(context.Background(), "NoSuchSig")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClaimStore_Has(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewClaimStore(pool)

	has, err := store.Has(ctx, "Sig2")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Insert(ctx, testClaim("Sig2")))

	has, err = store.Has(ctx, "Sig2")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestClaimStore_Insert_Duplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewClaimStore(pool)

	require.NoError(t, store.Insert(ctx, testClaim("Sig3")))

	// Same signature, different wallet: the ledger is append-only and
	// keyed on signature alone.
	dup := testClaim("Sig3")
	dup.WalletAddress = "OtherWallet11111111111111111111111111111111"
	err := store.Insert(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The original row is untouched.
	got, err := store.Get(ctx, "Sig3")
	require.NoError(t, err)
	assert.Equal(t, "Wallet1111111111111111111111111111111111111", got.WalletAddress)
}

func TestClaimStore_Insert_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewClaimStore(pool)

	assert.ErrorIs(t, store.Insert(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(context.Background(), &domain.BurnClaim{}), storage.ErrInvalidInput)
}

func TestClaimStore_ConcurrentInserts_ExactlyOneWins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewClaimStore(pool)

	const n = 10
	results := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.Insert(ctx, testClaim("RacedSig"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "the database constraint must admit exactly one insert")
}
