package verify

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"solana-burn-gate/internal/burn"
	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/observability"
	"solana-burn-gate/internal/solana"
	"solana-burn-gate/internal/storage"
)

// Stage names the verification state machine states, in order. A request
// either walks the full chain to StageCompleted or stops at a terminal
// Rejection; the last stage reached is recorded in the audit trail.
type Stage string

const (
	StageReceived           Stage = "received"
	StageSignatureValidated Stage = "signature_validated"
	StageReplayChecked      Stage = "replay_checked"
	StageChainFetched       Stage = "chain_fetched"
	StageSignerVerified     Stage = "signer_verified"
	StageBurnExtracted      Stage = "burn_extracted"
	StageAmountAccepted     Stage = "amount_accepted"
	StageRecorded           Stage = "recorded"
	StageCompleted          Stage = "completed"
)

// Verifier validates a burn transaction against chain data and redeems it
// exactly once. Stateless per request: all persistent state lives in the
// claim ledger, so any number of replicas can run concurrently.
type Verifier struct {
	rpc       solana.RPCClient
	claims    storage.ClaimStore
	audits    storage.AuditStore // optional
	extractor *burn.Extractor
	policy    RewardPolicy
	waiter    solana.SignatureWaiter // optional
	logger    *log.Logger
}

// Options configures a Verifier. RPC, Claims, Mint are required.
type Options struct {
	RPC          solana.RPCClient
	Claims       storage.ClaimStore
	Audits       storage.AuditStore
	Mint         string
	MintDecimals int32
	Policy       RewardPolicy
	Waiter       solana.SignatureWaiter
	Logger       *log.Logger
}

// New creates a Verifier.
func New(opts Options) *Verifier {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Verifier{
		rpc:       opts.RPC,
		claims:    opts.Claims,
		audits:    opts.Audits,
		extractor: burn.NewExtractor(opts.Mint, opts.MintDecimals),
		policy:    opts.Policy,
		waiter:    opts.Waiter,
		logger:    logger,
	}
}

// Verify runs the full state machine for one request. On success it
// returns the result; on any terminal rejection it returns a *Rejection
// whose kind the transport layer maps to a status code.
func (v *Verifier) Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationResult, error) {
	start := time.Now()
	stage := StageReceived
	amount := decimal.Zero
	delta := decimal.Zero

	result, rej := v.run(ctx, req, &stage, &amount, &delta)

	outcome := string(StageCompleted)
	if rej != nil {
		outcome = string(rej.Kind)
	}
	observability.RecordVerification(outcome, time.Since(start).Seconds())
	v.recordAudit(ctx, req, stage, outcome, amount, delta, time.Since(start))

	if rej != nil {
		return nil, rej
	}
	return result, nil
}

func (v *Verifier) run(ctx context.Context, req domain.VerificationRequest, stage *Stage, amount, delta *decimal.Decimal) (*domain.VerificationResult, *Rejection) {
	// Received -> SignatureValidated
	if req.Signature == "" || req.WalletAddress == "" {
		return nil, reject(KindInvalidInput, "missing signature or userWallet")
	}
	if err := solana.ValidateSignature(req.Signature); err != nil {
		return nil, reject(KindInvalidInput, "signature is not a valid transaction signature")
	}
	if err := solana.ValidateWallet(req.WalletAddress); err != nil {
		return nil, reject(KindInvalidInput, "userWallet is not a valid wallet address")
	}
	if req.RequiredAmount != nil && req.RequiredAmount.Sign() <= 0 {
		return nil, reject(KindInvalidInput, "requiredAmount must be positive")
	}
	*stage = StageSignatureValidated

	// SignatureValidated -> ReplayChecked. Fail fast before any chain call.
	hasStart := time.Now()
	claimed, err := v.claims.Has(ctx, req.Signature)
	observability.RecordClaimStoreLatency("has", time.Since(hasStart).Seconds())
	if err != nil {
		v.logger.Printf("claim lookup failed for %s: %v", req.Signature, err)
		return nil, reject(KindStorageUnavailable, "claim ledger unavailable")
	}
	if claimed {
		return nil, reject(KindAlreadyClaimed, "transaction already claimed")
	}
	*stage = StageReplayChecked

	// ReplayChecked -> ChainFetched. The finality wait is best effort: the
	// HTTP fetch below remains the authoritative read.
	if v.waiter != nil {
		if err := v.waiter.WaitForSignature(ctx, req.Signature); err != nil {
			v.logger.Printf("finality wait for %s: %v", req.Signature, err)
		}
	}

	fetchStart := time.Now()
	tx, err := v.rpc.GetParsedTransaction(ctx, req.Signature)
	observability.RecordRPCLatency("getTransaction", time.Since(fetchStart).Seconds())
	if err != nil {
		if errors.Is(err, solana.ErrNotFound) {
			return nil, reject(KindNotFound, "transaction not found")
		}
		v.logger.Printf("chain fetch failed for %s: %v", req.Signature, err)
		return nil, reject(KindUpstreamUnavailable, "ledger RPC unavailable")
	}
	if tx.Failed() {
		return nil, reject(KindOnChainFailure, "transaction failed on-chain")
	}
	*stage = StageChainFetched

	// ChainFetched -> SignerVerified. The wallet must be an actual signer,
	// not merely a referenced account key, so one wallet cannot claim
	// credit for another wallet's burn.
	if tx.Message == nil || !tx.Message.IsSigner(req.WalletAddress) {
		return nil, reject(KindSignerMismatch, "transaction signer does not match wallet")
	}
	*stage = StageSignerVerified

	// SignerVerified -> BurnExtracted.
	burned, _, err := v.extractor.Extract(tx)
	if err != nil {
		if errors.Is(err, burn.ErrDecimalsMismatch) {
			return nil, reject(KindAmountMismatch, "burn instruction decimals do not match the configured mint")
		}
		v.logger.Printf("burn extraction failed for %s: %v", req.Signature, err)
		return nil, reject(KindUpstreamUnavailable, "could not parse transaction payload")
	}
	if burned.Sign() <= 0 {
		return nil, reject(KindNoBurnFound, "no burn found for the configured mint")
	}
	*amount = burned

	// Balance-delta cross-check is a secondary signal only: a disagreement
	// is logged and recorded in the audit trail, never a verdict.
	if d, derr := v.extractor.BalanceDelta(tx, req.WalletAddress); derr == nil {
		*delta = d
		if !d.Equal(burned) {
			v.logger.Printf("balance delta %s disagrees with extracted burn %s for %s",
				d, burned, req.Signature)
		}
	}
	*stage = StageBurnExtracted

	// BurnExtracted -> AmountAccepted. Minimum-threshold policy: the
	// transaction must have burned at least the required amount.
	if req.RequiredAmount != nil && burned.LessThan(*req.RequiredAmount) {
		return nil, reject(KindInsufficientAmount, "burned amount below required amount")
	}
	*stage = StageAmountAccepted

	// AmountAccepted -> Recorded. The ledger's uniqueness constraint is
	// the real anti-replay guarantee; losing this race is AlreadyClaimed
	// even though the earlier replay check passed.
	claim := &domain.BurnClaim{
		Signature:     req.Signature,
		WalletAddress: req.WalletAddress,
		AmountBurned:  burned,
		RecordedAt:    time.Now().UTC(),
	}
	insertStart := time.Now()
	err = v.claims.Insert(ctx, claim)
	observability.RecordClaimStoreLatency("insert", time.Since(insertStart).Seconds())
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, reject(KindAlreadyClaimed, "transaction already claimed")
		}
		v.logger.Printf("claim insert failed for %s: %v", req.Signature, err)
		return nil, reject(KindStorageUnavailable, "claim ledger unavailable")
	}
	*stage = StageRecorded
	observability.RecordClaimRecorded(burned.InexactFloat64())

	// Recorded -> Completed.
	result := &domain.VerificationResult{
		Signature:    req.Signature,
		AmountBurned: burned,
		Reward:       v.policy.Reward(burned),
	}
	*stage = StageCompleted
	return result, nil
}

// recordAudit writes the attempt to the analytics sink. Best effort: an
// audit failure never changes a verdict.
func (v *Verifier) recordAudit(ctx context.Context, req domain.VerificationRequest, stage Stage, outcome string, amount, delta decimal.Decimal, elapsed time.Duration) {
	if v.audits == nil {
		return
	}
	audit := &domain.VerificationAudit{
		Signature:     req.Signature,
		WalletAddress: req.WalletAddress,
		Outcome:       outcome,
		Stage:         string(stage),
		AmountBurned:  amount,
		BalanceDelta:  delta,
		DurationMs:    elapsed.Milliseconds(),
		ObservedAt:    time.Now().UTC(),
	}
	if err := v.audits.Insert(ctx, audit); err != nil {
		v.logger.Printf("audit insert failed for %s: %v", req.Signature, err)
	}
}
