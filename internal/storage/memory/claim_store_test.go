package memory

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
)

func testClaim(signature string) *domain.BurnClaim {
	return &domain.BurnClaim{
		Signature:     signature,
		WalletAddress: "Wallet1",
		AmountBurned:  decimal.RequireFromString("2.5"),
		RecordedAt:    time.Now().UTC(),
	}
}

func TestClaimStore_InsertAndGet(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testClaim("Sig1")))

	got, err := store.Get(ctx, "Sig1")
	require.NoError(t, err)
	assert.Equal(t, "Sig1", got.Signature)
	assert.True(t, got.AmountBurned.Equal(decimal.RequireFromString("2.5")))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClaimStore_Has(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	has, err := store.Has(ctx, "Sig1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Insert(ctx, testClaim("Sig1")))

	has, err = store.Has(ctx, "Sig1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestClaimStore_Insert_Duplicate(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testClaim("Sig1")))
	assert.ErrorIs(t, store.Insert(ctx, testClaim("Sig1")), storage.ErrDuplicateKey)
}

func TestClaimStore_Insert_InvalidInput(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.BurnClaim{}), storage.ErrInvalidInput)
}

func TestClaimStore_Get_ReturnsCopy(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testClaim("Sig1")))

	first, err := store.Get(ctx, "Sig1")
	require.NoError(t, err)
	first.WalletAddress = "mutated"

	second, err := store.Get(ctx, "Sig1")
	require.NoError(t, err)
	assert.Equal(t, "Wallet1", second.WalletAddress)
}

func TestClaimStore_ConcurrentInserts_ExactlyOneWins(t *testing.T) {
	store := NewClaimStore()
	ctx := context.Background()

	const n = 32
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
	assert.Equal(t, 1, wins)
}

func TestAuditStore_InsertAndAll(t *testing.T) {
	store := NewAuditStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.Empty(t, store.All())

	require.NoError(t, store.Insert(ctx, &domain.VerificationAudit{Signature: "a", Outcome: "completed"}))
	require.NoError(t, store.Insert(ctx, &domain.VerificationAudit{Signature: "b", Outcome: "not_found"}))

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Signature)
	assert.Equal(t, "b", all[1].Signature)
}
