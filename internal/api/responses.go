package api

import "encoding/json"

// VerifyBurnRequest is the request body for POST /verify-burn.
// RequiredAmount is optional; when present it is the minimum amount, in
// human units, the transaction must have burned.
type VerifyBurnRequest struct {
	Signature      string      `json:"signature"`
	UserWallet     string      `json:"userWallet"`
	RequiredAmount json.Number `json:"requiredAmount,omitempty"`
}

// VerifyBurnResponse is the success response for POST /verify-burn.
// AmountBurned is a decimal string so callers never lose precision to
// float parsing.
type VerifyBurnResponse struct {
	Success      bool        `json:"success"`
	Signature    string      `json:"signature"`
	AmountBurned json.Number `json:"amountBurned"`
	Reward       int64       `json:"reward,omitempty"`
	Message      string      `json:"message"`
}

// ErrorResponse is the response for all rejections. Code is the stable
// machine-readable rejection kind; Error is the human-readable message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Status        string `json:"status"`
	Storage       string `json:"storage"`
	Mint          string `json:"mint,omitempty"`
	Commitment    string `json:"commitment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Requests      int64  `json:"requests"`
	Verified      int64  `json:"verified"`
}
