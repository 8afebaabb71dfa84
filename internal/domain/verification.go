package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationRequest is the caller-supplied input, validated before any
// chain call is made.
type VerificationRequest struct {
	Signature     string
	WalletAddress string

	// RequiredAmount, when set, is the minimum amount the transaction must
	// have burned for the configured mint.
	RequiredAmount *decimal.Decimal
}

// VerificationResult is returned to the caller on success. It is never
// persisted beyond the BurnClaim side effect.
type VerificationResult struct {
	Signature    string
	AmountBurned decimal.Decimal
	Reward       int64
}

// VerificationAudit describes one verification attempt for the analytics
// sink. Outcome is "completed" or the rejection kind; Stage is the last
// stage the attempt reached.
type VerificationAudit struct {
	Signature     string
	WalletAddress string
	Outcome       string
	Stage         string
	AmountBurned  decimal.Decimal
	BalanceDelta  decimal.Decimal
	DurationMs    int64
	ObservedAt    time.Time
}
