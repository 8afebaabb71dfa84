// Package solana provides read-only access to a Solana JSON-RPC endpoint
// and decoding of jsonParsed transaction payloads.
package solana

import (
	"context"
	"encoding/json"
	"errors"
)

// Typed RPC failures. Callers must be able to tell a permanently absent
// transaction from a transient endpoint failure.
var (
	// ErrNotFound means the ledger has no record of the signature
	// (not yet finalized, wrong network, or a bad signature).
	ErrNotFound = errors.New("transaction not found")

	// ErrUnavailable means the RPC endpoint could not be reached or
	// returned an unusable response. Safe to retry by the caller.
	ErrUnavailable = errors.New("rpc endpoint unavailable")
)

// RPCClient defines the Solana RPC interface used by the verifier.
type RPCClient interface {
	// GetParsedTransaction retrieves a transaction by signature in
	// jsonParsed encoding. Returns ErrNotFound if the ledger has no record.
	GetParsedTransaction(ctx context.Context, signature string) (*ParsedTransaction, error)
}

// ParsedTransaction is a Solana transaction in jsonParsed encoding.
type ParsedTransaction struct {
	Slot      int64
	BlockTime int64 // Unix timestamp (seconds), zero if unavailable
	Meta      *Meta
	Message   *Message
}

// Meta contains execution metadata for a transaction.
type Meta struct {
	// Err is non-nil when the transaction executed but failed on-chain.
	Err               interface{}
	LogMessages       []string
	InnerInstructions []InnerInstructionGroup
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
}

// Failed reports whether the transaction executed but failed on-chain.
func (t *ParsedTransaction) Failed() bool {
	return t.Meta != nil && t.Meta.Err != nil
}

// InnerInstructionGroup holds the inner instructions emitted by the
// top-level instruction at Index.
type InnerInstructionGroup struct {
	Index        int
	Instructions []ParsedInstruction
}

// Message is the parsed transaction message.
type Message struct {
	AccountKeys  []AccountKey
	Instructions []ParsedInstruction
}

// IsSigner reports whether pubkey is an actual signer of the transaction,
// not merely a referenced account key.
func (m *Message) IsSigner(pubkey string) bool {
	for _, key := range m.AccountKeys {
		if key.Pubkey == pubkey {
			return key.Signer
		}
	}
	return false
}

// AccountKey is one account referenced by the transaction message.
type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// ParsedInstruction is a single instruction as returned by jsonParsed
// encoding. Parsed is left raw here; DecodeInstruction turns it into a
// typed variant before any business logic touches it.
type ParsedInstruction struct {
	Program   string          `json:"program"`
	ProgramID string          `json:"programId"`
	Parsed    json.RawMessage `json:"parsed"`
}

// TokenBalance is a pre/post token balance entry from transaction meta.
type TokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// UITokenAmount carries the raw integer amount as a string plus decimals.
type UITokenAmount struct {
	Amount         string `json:"amount"`
	Decimals       int32  `json:"decimals"`
	UIAmountString string `json:"uiAmountString"`
}
