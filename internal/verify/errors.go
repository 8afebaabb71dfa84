// Package verify orchestrates burn verification: replay check, chain
// fetch, signer check, burn extraction, amount policy, claim recording.
package verify

import (
	"errors"
	"fmt"
)

// Kind identifies why a verification was rejected. Every rejected state
// transition maps to exactly one kind; nothing is silently swallowed.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindAlreadyClaimed      Kind = "already_claimed"
	KindNotFound            Kind = "not_found"
	KindOnChainFailure      Kind = "on_chain_failure"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindSignerMismatch      Kind = "signer_mismatch"
	KindNoBurnFound         Kind = "no_burn_found"
	KindAmountMismatch      Kind = "amount_mismatch"
	KindInsufficientAmount  Kind = "insufficient_amount"
	KindStorageUnavailable  Kind = "storage_unavailable"
	KindMisconfigured       Kind = "misconfigured"
)

// Retryable reports whether the caller may safely retry: no claim row is
// ever written on these paths.
func (k Kind) Retryable() bool {
	return k == KindUpstreamUnavailable || k == KindStorageUnavailable
}

// Rejection is a terminal verification failure. Message is caller-safe:
// upstream internals (connection strings, raw driver errors) never appear
// here, only in server-side logs.
type Rejection struct {
	Kind    Kind
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// reject builds a Rejection.
func reject(kind Kind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
