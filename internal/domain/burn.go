package domain

import "math/big"

// BurnEvent is a single burn or burnChecked instruction extracted from a
// parsed transaction. Raw amounts stay as arbitrary-precision integers;
// conversion to token units happens only at the extraction boundary.
// Ephemeral: derived per verification call, never persisted.
type BurnEvent struct {
	Mint      string
	Authority string
	RawAmount *big.Int

	// Decimals is the decimals value reported by a burnChecked instruction.
	// Plain burn instructions carry no decimals; HasDecimals is false then.
	Decimals    int32
	HasDecimals bool
}
