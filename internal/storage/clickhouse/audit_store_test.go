package clickhouse_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/storage"
	"solana-burn-gate/internal/storage/clickhouse"
	"solana-burn-gate/internal/storage/migrations"
)

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*clickhouse.Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	conn, err := clickhouse.NewConn(ctx, fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port()))
	require.NoError(t, err)

	require.NoError(t, migrations.RunClickhouseMigrations(ctx, conn))

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

func TestAuditStore_Insert(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := clickhouse.NewAuditStore(conn)

	audit := &domain.VerificationAudit{
		Signature:     "Sig1",
		WalletAddress: "Wallet1",
		Outcome:       "completed",
		Stage:         "completed",
		AmountBurned:  decimal.RequireFromString("5.25"),
		BalanceDelta:  decimal.RequireFromString("5.25"),
		DurationMs:    42,
		ObservedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Insert(ctx, audit))

	rejected := &domain.VerificationAudit{
		Signature:     "Sig2",
		WalletAddress: "Wallet2",
		Outcome:       "signer_mismatch",
		Stage:         "chain_fetched",
		AmountBurned:  decimal.Zero,
		BalanceDelta:  decimal.Zero,
		DurationMs:    7,
		ObservedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Insert(ctx, rejected))

	rows, err := conn.Query(ctx, `
		SELECT signature, outcome, amount_burned
		FROM verification_audits
		ORDER BY signature
	`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		signature string
		outcome   string
		amount    string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.signature, &r.outcome, &r.amount))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, row{"Sig1", "completed", "5.25"}, got[0])
	assert.Equal(t, row{"Sig2", "signer_mismatch", "0"}, got[1])
}

func TestAuditStore_Insert_InvalidInput(t *testing.T) {
	store := clickhouse.NewAuditStore(nil)
	assert.ErrorIs(t, store.Insert(context.Background(), nil), storage.ErrInvalidInput)
}
