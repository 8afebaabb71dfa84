// Package domain contains the core types shared across the service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BurnClaim is a recorded one-time redemption of a burn transaction.
// Claims are append-only: created once, never mutated, never deleted.
// Signature is globally unique; the storage layer enforces uniqueness.
type BurnClaim struct {
	Signature     string
	WalletAddress string
	AmountBurned  decimal.Decimal
	RecordedAt    time.Time
}
