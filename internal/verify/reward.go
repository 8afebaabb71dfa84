package verify

import "github.com/shopspring/decimal"

// RewardPolicy converts a verified burned amount into an in-game reward
// quantity. Pure function: fixed conversion rate, no side effects, no I/O.
//
// reward = floor(amountBurned * RatePerToken)
//
// Floor keeps the result an integer and monotonically non-decreasing in
// the burned amount.
type RewardPolicy struct {
	// RatePerToken is the reward units granted per whole token burned.
	RatePerToken int64
}

// Reward computes the payout for a burned amount in token units.
func (p RewardPolicy) Reward(amountBurned decimal.Decimal) int64 {
	if p.RatePerToken <= 0 || amountBurned.Sign() <= 0 {
		return 0
	}
	return amountBurned.Mul(decimal.NewFromInt(p.RatePerToken)).Floor().IntPart()
}
