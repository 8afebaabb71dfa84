package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"solana-burn-gate/internal/domain"
	"solana-burn-gate/internal/verify"
)

// statusForKind maps a rejection kind to an HTTP status code. Claim and
// policy rejections are the caller's problem (400), identity rejections
// are forbidden (403), an unknown signature is 404, and anything the
// caller can do nothing about is 500.
func statusForKind(kind verify.Kind) int {
	switch kind {
	case verify.KindInvalidInput,
		verify.KindAlreadyClaimed,
		verify.KindOnChainFailure,
		verify.KindNoBurnFound,
		verify.KindAmountMismatch,
		verify.KindInsufficientAmount:
		return http.StatusBadRequest
	case verify.KindSignerMismatch:
		return http.StatusForbidden
	case verify.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// verifyBurn handles POST /verify-burn.
func (s *Server) verifyBurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	s.requests.Add(1)

	if s.configErr != nil {
		s.logger.Printf("rejecting verification, server misconfigured: %v", s.configErr)
		s.errorResponse(w, http.StatusInternalServerError, string(verify.KindMisconfigured),
			"server is not configured for burn verification")
		return
	}

	var body VerifyBurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(verify.KindInvalidInput),
			"request body is not valid JSON")
		return
	}

	req := domain.VerificationRequest{
		Signature:     body.Signature,
		WalletAddress: body.UserWallet,
	}
	if body.RequiredAmount != "" {
		required, err := decimal.NewFromString(body.RequiredAmount.String())
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, string(verify.KindInvalidInput),
				"requiredAmount is not a valid number")
			return
		}
		req.RequiredAmount = &required
	}

	result, err := s.verifier.Verify(r.Context(), req)
	if err != nil {
		if rej, ok := verify.AsRejection(err); ok {
			s.errorResponse(w, statusForKind(rej.Kind), string(rej.Kind), rej.Message)
			return
		}
		s.logger.Printf("verification failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	s.verified.Add(1)
	s.jsonResponse(w, http.StatusOK, VerifyBurnResponse{
		Success:      true,
		Signature:    result.Signature,
		AmountBurned: json.Number(result.AmountBurned.String()),
		Reward:       result.Reward,
		Message:      "Burn verified and recorded successfully",
	})
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// status handles GET /status.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	status := "ok"
	if s.configErr != nil {
		status = "misconfigured"
	}
	storage := "postgres"
	if s.cfg.UseMemory {
		storage = "memory"
	}

	s.jsonResponse(w, http.StatusOK, StatusResponse{
		Status:        status,
		Storage:       storage,
		Mint:          s.cfg.TokenMint,
		Commitment:    s.cfg.Commitment,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Requests:      s.requests.Load(),
		Verified:      s.verified.Load(),
	})
}
