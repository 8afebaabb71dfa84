package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Wire sizes of base58-decoded identifiers.
const (
	signatureLen = 64
	pubkeyLen    = 32
)

// ErrInvalidSignature means the signature is not a syntactically valid
// base58 transaction signature. No network call is made for such input.
var ErrInvalidSignature = errors.New("invalid transaction signature")

// ErrInvalidWallet means the wallet address is not a valid ed25519 public
// key. Off-curve addresses (PDAs) cannot sign transactions.
var ErrInvalidWallet = errors.New("invalid wallet address")

// ValidateSignature checks that sig decodes to a 64-byte value.
func ValidateSignature(sig string) error {
	if sig == "" {
		return ErrInvalidSignature
	}
	decoded, err := base58.Decode(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(decoded) != signatureLen {
		return fmt.Errorf("%w: decoded length %d", ErrInvalidSignature, len(decoded))
	}
	return nil
}

// ValidateWallet checks that addr decodes to a 32-byte on-curve pubkey.
func ValidateWallet(addr string) error {
	if addr == "" {
		return ErrInvalidWallet
	}
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWallet, err)
	}
	if len(decoded) != pubkeyLen {
		return fmt.Errorf("%w: decoded length %d", ErrInvalidWallet, len(decoded))
	}
	if !isOnCurve(decoded) {
		return fmt.Errorf("%w: off-curve point cannot sign", ErrInvalidWallet)
	}
	return nil
}

func isOnCurve(point []byte) bool {
	if len(point) != pubkeyLen {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
