// Package burn extracts SPL-token burn amounts from parsed transactions.
package burn

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/solana"
)

// ErrDecimalsMismatch means a burnChecked instruction reported decimals
// that disagree with the configured mint decimals. The configured value is
// authoritative; a disagreement is suspicious and fails closed.
var ErrDecimalsMismatch = errors.New("instruction decimals disagree with configured mint decimals")

// Extractor computes the amount burned against a single target mint.
// Instruction scanning is the authoritative method; balance deltas are a
// secondary signal only (a balance decrease can also be a transfer out).
type Extractor struct {
	mint     string
	decimals int32
}

// NewExtractor creates an extractor scoped to the target mint.
func NewExtractor(mint string, decimals int32) *Extractor {
	return &Extractor{mint: mint, decimals: decimals}
}

// Extract scans top-level and inner instructions for burn/burnChecked
// operations and sums the raw amounts whose mint matches the target.
// It returns the total in token units plus every burn event seen, for any
// mint. A zero total with no matching burns is a normal result, not an
// error; the caller decides whether zero is acceptable.
func (e *Extractor) Extract(tx *solana.ParsedTransaction) (decimal.Decimal, []domain.BurnEvent, error) {
	var events []domain.BurnEvent

	collect := func(instructions []solana.ParsedInstruction) error {
		for _, ix := range instructions {
			decoded, err := solana.DecodeInstruction(ix)
			if err != nil {
				return fmt.Errorf("decode instruction: %w", err)
			}
			if decoded.Kind != solana.KindBurn && decoded.Kind != solana.KindBurnChecked {
				continue
			}
			events = append(events, domain.BurnEvent{
				Mint:        decoded.Mint,
				Authority:   decoded.Authority,
				RawAmount:   decoded.RawAmount,
				Decimals:    decoded.Decimals,
				HasDecimals: decoded.HasDecimals,
			})
		}
		return nil
	}

	if tx.Message != nil {
		if err := collect(tx.Message.Instructions); err != nil {
			return decimal.Zero, nil, err
		}
	}
	if tx.Meta != nil {
		for _, group := range tx.Meta.InnerInstructions {
			if err := collect(group.Instructions); err != nil {
				return decimal.Zero, nil, err
			}
		}
	}

	total := new(big.Int)
	for _, event := range events {
		if event.Mint != e.mint {
			continue
		}
		if event.HasDecimals && event.Decimals != e.decimals {
			return decimal.Zero, events, fmt.Errorf("%w: instruction %d, configured %d",
				ErrDecimalsMismatch, event.Decimals, e.decimals)
		}
		total.Add(total, event.RawAmount)
	}

	return decimal.NewFromBigInt(total, -e.decimals), events, nil
}

// BalanceDelta computes the net decrease of the owner's target-mint token
// accounts across the transaction, summing positive per-account decreases.
// Secondary signal only: never use this as sole authority for a burn.
func (e *Extractor) BalanceDelta(tx *solana.ParsedTransaction, owner string) (decimal.Decimal, error) {
	if tx.Meta == nil {
		return decimal.Zero, nil
	}

	pre := make(map[int]*big.Int)
	for _, balance := range tx.Meta.PreTokenBalances {
		if balance.Mint != e.mint || balance.Owner != owner {
			continue
		}
		raw, err := parseRawAmount(balance.UITokenAmount.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("pre balance account %d: %w", balance.AccountIndex, err)
		}
		pre[balance.AccountIndex] = raw
	}

	post := make(map[int]*big.Int)
	for _, balance := range tx.Meta.PostTokenBalances {
		if balance.Mint != e.mint || balance.Owner != owner {
			continue
		}
		raw, err := parseRawAmount(balance.UITokenAmount.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("post balance account %d: %w", balance.AccountIndex, err)
		}
		post[balance.AccountIndex] = raw
	}

	total := new(big.Int)
	for index, preAmount := range pre {
		postAmount, ok := post[index]
		if !ok {
			// Account closed in this transaction: entire balance left it.
			postAmount = new(big.Int)
		}
		delta := new(big.Int).Sub(preAmount, postAmount)
		if delta.Sign() > 0 {
			total.Add(total, delta)
		}
	}

	return decimal.NewFromBigInt(total, -e.decimals), nil
}

func parseRawAmount(raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid raw token amount %q", raw)
	}
	return amount, nil
}
