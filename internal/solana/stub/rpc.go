// Package stub provides in-memory test doubles for the solana package.
package stub

import (
	"context"
	"sync"

	"solana-burn-gate/internal/solana"
)

// RPCClient implements solana.RPCClient from an in-memory map.
type RPCClient struct {
	Transactions map[string]*solana.ParsedTransaction

	// Err, when set, is returned by every call. Used to simulate an
	// unreachable endpoint.
	Err error

	// Calls counts lookups, including misses.
	Calls int

	mu sync.Mutex
}

// NewRPCClient creates an empty stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.ParsedTransaction),
	}
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

// GetParsedTransaction retrieves a transaction from the stub store.
func (c *RPCClient) GetParsedTransaction(_ context.Context, signature string) (*solana.ParsedTransaction, error) {
	c.mu.Lock()
	c.Calls++
	c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	tx, ok := c.Transactions[signature]
	if !ok {
		return nil, solana.ErrNotFound
	}
	return tx, nil
}
