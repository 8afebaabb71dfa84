package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// SignatureWaiter blocks until a signature reaches the requested commitment
// or the deadline passes. It is a best-effort pre-fetch optimization: a
// wait failure is not a verification failure.
type SignatureWaiter interface {
	WaitForSignature(ctx context.Context, signature string) error
}

// DefaultWaitTimeout bounds a single signatureSubscribe wait.
const DefaultWaitTimeout = 20 * time.Second

// WSClient waits for signature finality over the Solana WebSocket API.
// Each wait dials its own connection; signatureSubscribe auto-cancels
// after the first notification, so there is no shared subscription state.
type WSClient struct {
	endpoint    string
	commitment  string
	waitTimeout time.Duration
	dialer      *websocket.Dialer
}

// WSOption configures WSClient.
type WSOption func(*WSClient)

// WithWaitTimeout bounds each WaitForSignature call.
func WithWaitTimeout(d time.Duration) WSOption {
	return func(c *WSClient) {
		c.waitTimeout = d
	}
}

// WithWSCommitment sets the commitment level for subscriptions.
func WithWSCommitment(commitment string) WSOption {
	return func(c *WSClient) {
		c.commitment = commitment
	}
}

// NewWSClient creates a signature finality waiter for a WebSocket endpoint.
func NewWSClient(endpoint string, opts ...WSOption) *WSClient {
	c := &WSClient{
		endpoint:    endpoint,
		commitment:  DefaultCommitment,
		waitTimeout: DefaultWaitTimeout,
		dialer:      websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ SignatureWaiter = (*WSClient)(nil)

// wsRequest is a JSON-RPC 2.0 request over the WebSocket transport.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// wsMessage covers both subscription replies and notifications.
type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	Method string          `json:"method"`
	Params *wsNotifyParams `json:"params"`
}

type wsNotifyParams struct {
	Subscription uint64            `json:"subscription"`
	Result       wsSignatureResult `json:"result"`
}

type wsSignatureResult struct {
	Value struct {
		Err interface{} `json:"err"`
	} `json:"value"`
}

// WaitForSignature subscribes to signature status notifications and returns
// once the signature reaches the configured commitment. The on-chain error
// state is not interpreted here; the HTTP fetch remains authoritative.
func (c *WSClient) WaitForSignature(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]interface{}{"commitment": c.commitment},
		},
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("subscribe to signature: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read notification: %w", err)
		}

		if msg.Error != nil {
			return fmt.Errorf("subscription rejected: %w", msg.Error)
		}

		// Subscription confirmation carries our request ID; the
		// notification that follows carries the method name.
		if msg.Method == "signatureNotification" && msg.Params != nil {
			return nil
		}
	}
}
