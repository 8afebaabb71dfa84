package solana

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsTestServer(t *testing.T, handler func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSClient_WaitForSignature(t *testing.T) {
	server := wsTestServer(t, func(conn *websocket.Conn) {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if req.Method != "signatureSubscribe" {
			t.Errorf("expected signatureSubscribe, got %s", req.Method)
		}

		// Subscription confirmation, then the notification.
		conn.WriteJSON(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": 42})
		conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "signatureNotification",
			"params": map[string]interface{}{
				"subscription": 42,
				"result":       map[string]interface{}{"value": map[string]interface{}{"err": nil}},
			},
		})
	})
	defer server.Close()

	client := NewWSClient(wsURL(server), WithWaitTimeout(5*time.Second))

	if err := client.WaitForSignature(context.Background(), "sig123"); err != nil {
		t.Fatalf("WaitForSignature: %v", err)
	}
}

func TestWSClient_WaitForSignature_Timeout(t *testing.T) {
	server := wsTestServer(t, func(conn *websocket.Conn) {
		var req wsRequest
		conn.ReadJSON(&req)
		// Confirm the subscription but never notify.
		conn.WriteJSON(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": 7})
		time.Sleep(2 * time.Second)
	})
	defer server.Close()

	client := NewWSClient(wsURL(server), WithWaitTimeout(200*time.Millisecond))

	if err := client.WaitForSignature(context.Background(), "sig123"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWSClient_WaitForSignature_DialFailure(t *testing.T) {
	client := NewWSClient("ws://127.0.0.1:1", WithWaitTimeout(500*time.Millisecond))

	if err := client.WaitForSignature(context.Background(), "sig123"); err == nil {
		t.Fatal("expected dial error")
	}
}
