// Package main runs the burn verification service: an HTTP API that
// checks a token burn transaction against chain data and records each
// claimed signature exactly once.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-burn-gate/internal/api"
	"solana-burn-gate/internal/config"
	"solana-burn-gate/internal/solana"
	"solana-burn-gate/internal/storage"
	chstore "solana-burn-gate/internal/storage/clickhouse"
	"solana-burn-gate/internal/storage/memory"
	"solana-burn-gate/internal/storage/migrations"
	pgstore "solana-burn-gate/internal/storage/postgres"
	"solana-burn-gate/internal/verify"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file if exists
	loadEnvFile()

	defaults := config.Load()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", defaults.ListenAddr, "HTTP listen address")
	rpcEndpoint := flag.String("rpc-endpoint", defaults.RPCEndpoint, "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", defaults.WSEndpoint, "Solana WebSocket endpoint (optional, enables finality wait)")
	commitment := flag.String("commitment", defaults.Commitment, "Commitment level for chain reads")
	rpcTimeout := flag.Duration("rpc-timeout", defaults.RPCTimeout, "Timeout per RPC request")
	tokenMint := flag.String("token-mint", defaults.TokenMint, "Mint address of the burnable token")
	tokenDecimals := flag.Int("token-decimals", defaults.TokenDecimals, "Decimals of the burnable token")
	postgresDSN := flag.String("postgres-dsn", defaults.PostgresDSN, "PostgreSQL connection string for the claim ledger")
	clickhouseDSN := flag.String("clickhouse-dsn", defaults.ClickhouseDSN, "ClickHouse connection string for the audit sink (optional)")
	useMemory := flag.Bool("use-memory", defaults.UseMemory, "Use in-memory storage instead of PostgreSQL")
	rewardRate := flag.Int64("reward-rate", defaults.RewardRate, "Reward units granted per whole token burned")

	flag.Parse()

	cfg := &config.Config{
		ListenAddr:    *listenAddr,
		RPCEndpoint:   *rpcEndpoint,
		WSEndpoint:    *wsEndpoint,
		Commitment:    *commitment,
		RPCTimeout:    *rpcTimeout,
		TokenMint:     *tokenMint,
		TokenDecimals: *tokenDecimals,
		PostgresDSN:   *postgresDSN,
		ClickhouseDSN: *clickhouseDSN,
		UseMemory:     *useMemory,
		RewardRate:    *rewardRate,
	}

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A config error does not stop the process: /health and /metrics stay
	// up, and verification requests are rejected until the config is fixed.
	configErr := cfg.Validate()
	if configErr != nil {
		logger.Printf("WARNING: %v; verification requests will be rejected", configErr)
	}

	var verifier *verify.Verifier
	cleanup := func() {}
	if configErr == nil {
		var err error
		verifier, cleanup, err = buildVerifier(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize: %v", err)
		}
	}
	defer cleanup()

	server := api.NewServer(cfg, verifier, configErr, logger)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Listening on %s (mint=%s commitment=%s)", cfg.ListenAddr, cfg.TokenMint, cfg.Commitment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-errCh:
		logger.Fatalf("HTTP server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Graceful shutdown failed: %v", err)
	}
	cancel()

	logger.Println("Shutdown complete")
}

// buildVerifier wires the chain client and stores into a Verifier.
func buildVerifier(ctx context.Context, cfg *config.Config, logger *log.Logger) (*verify.Verifier, func(), error) {
	rpc := solana.NewHTTPClient(cfg.RPCEndpoint,
		solana.WithCommitment(cfg.Commitment),
		solana.WithTimeout(cfg.RPCTimeout),
	)

	var waiter solana.SignatureWaiter
	if cfg.WSEndpoint != "" {
		waiter = solana.NewWSClient(cfg.WSEndpoint, solana.WithWSCommitment(cfg.Commitment))
	}

	claims, audits, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	verifier := verify.New(verify.Options{
		RPC:          rpc,
		Claims:       claims,
		Audits:       audits,
		Mint:         cfg.TokenMint,
		MintDecimals: int32(cfg.TokenDecimals),
		Policy:       verify.RewardPolicy{RatePerToken: cfg.RewardRate},
		Waiter:       waiter,
		Logger:       logger,
	})
	return verifier, cleanup, nil
}

// createStores creates the claim ledger and the optional audit sink.
func createStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.ClaimStore, storage.AuditStore, func(), error) {
	if cfg.UseMemory {
		logger.Println("Using in-memory storage; claims will not survive a restart")
		return memory.NewClaimStore(), memory.NewAuditStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	cleanup := pool.Close
	var audits storage.AuditStore
	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			conn.Close()
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply clickhouse migrations: %w", err)
		}
		audits = chstore.NewAuditStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return pgstore.NewClaimStore(pool), audits, cleanup, nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
