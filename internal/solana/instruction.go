package solana

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// SPL token program IDs whose parsed instructions carry burn operations.
const (
	TokenProgramID     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"

	// tokenProgramAlias is the value the RPC puts in the "program" field
	// for both classic and 2022 token programs.
	tokenProgramAlias = "spl-token"
)

// InstructionKind tags a decoded instruction variant.
type InstructionKind int

const (
	// KindOther covers every instruction the verifier does not act on.
	KindOther InstructionKind = iota
	// KindBurn is a spl-token "burn" instruction.
	KindBurn
	// KindBurnChecked is a spl-token "burnChecked" instruction.
	KindBurnChecked
)

// Instruction is the decoded, typed form of a parsed instruction. Only the
// burn variants carry a payload; everything else decodes to KindOther.
type Instruction struct {
	Kind      InstructionKind
	Mint      string
	Authority string
	RawAmount *big.Int

	// Decimals is only meaningful for KindBurnChecked, where the
	// instruction itself reports the mint decimals.
	Decimals    int32
	HasDecimals bool
}

// parsedPayload is the "parsed" object shape for spl-token instructions.
type parsedPayload struct {
	Type string            `json:"type"`
	Info parsedPayloadInfo `json:"info"`
}

type parsedPayloadInfo struct {
	Mint        string             `json:"mint"`
	Authority   string             `json:"authority"`
	Amount      string             `json:"amount"`
	Decimals    *int32             `json:"decimals"`
	TokenAmount *parsedTokenAmount `json:"tokenAmount"`
}

type parsedTokenAmount struct {
	Amount   string `json:"amount"`
	Decimals int32  `json:"decimals"`
}

// DecodeInstruction turns a raw parsed instruction into its typed variant.
// Instructions outside the token programs, and token instructions other
// than burn/burnChecked, decode to KindOther. A burn instruction with an
// unparsable amount is an error, not a silent zero.
func DecodeInstruction(ix ParsedInstruction) (Instruction, error) {
	if !isTokenProgram(ix) || len(ix.Parsed) == 0 {
		return Instruction{Kind: KindOther}, nil
	}

	var payload parsedPayload
	if err := json.Unmarshal(ix.Parsed, &payload); err != nil {
		// Non-object "parsed" values occur for memo-style programs.
		return Instruction{Kind: KindOther}, nil
	}

	var kind InstructionKind
	switch payload.Type {
	case "burn":
		kind = KindBurn
	case "burnChecked":
		kind = KindBurnChecked
	default:
		return Instruction{Kind: KindOther}, nil
	}

	out := Instruction{
		Kind:      kind,
		Mint:      payload.Info.Mint,
		Authority: payload.Info.Authority,
	}

	// burnChecked reports the amount under tokenAmount; plain burn uses
	// the flat amount field. Some RPC providers populate both.
	rawAmount := payload.Info.Amount
	if payload.Info.TokenAmount != nil {
		if rawAmount == "" {
			rawAmount = payload.Info.TokenAmount.Amount
		}
		out.Decimals = payload.Info.TokenAmount.Decimals
		out.HasDecimals = true
	}
	if payload.Info.Decimals != nil {
		out.Decimals = *payload.Info.Decimals
		out.HasDecimals = true
	}

	amount, ok := new(big.Int).SetString(rawAmount, 10)
	if !ok || amount.Sign() < 0 {
		return Instruction{}, fmt.Errorf("burn instruction has invalid amount %q", rawAmount)
	}
	out.RawAmount = amount

	return out, nil
}

func isTokenProgram(ix ParsedInstruction) bool {
	if ix.Program == tokenProgramAlias {
		return true
	}
	return ix.ProgramID == TokenProgramID || ix.ProgramID == Token2022ProgramID
}
