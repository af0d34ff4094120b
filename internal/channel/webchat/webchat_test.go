package webchat

import (
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pmchrislee/ai-agent/internal/channel"
)

func TestName(t *testing.T) {
	adapter := New(true, slog.Default())
	if adapter.Name() != "webchat" {
		t.Errorf("expected name webchat, got %s", adapter.Name())
	}
}

func TestRoundTrip(t *testing.T) {
	adapter := New(true, slog.Default())
	srv := httptest.NewServer(adapter.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user_id=alice"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(WSMessage{Type: "message", Content: "hello"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg := <-adapter.Incoming()
	if msg.UserID != "alice" {
		t.Errorf("expected alice, got %s", msg.UserID)
	}
	if msg.Content != "hello" {
		t.Errorf("expected hello, got %s", msg.Content)
	}

	if err := adapter.SendMessage("alice", &channel.Response{Content: "hi there"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	var reply WSMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.Content != "hi there" {
		t.Errorf("expected hi there, got %s", reply.Content)
	}
}

func TestStopUnblocksPendingSend(t *testing.T) {
	adapter := New(true, slog.Default())
	srv := httptest.NewServer(adapter.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user_id=alice"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Overflow the incoming buffer with nothing draining it, so the
	// handler ends up parked on a send.
	for i := 0; i < 110; i++ {
		if err := conn.WriteJSON(WSMessage{Type: "message", Content: "spam"}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	stopped := make(chan error, 1)
	go func() { stopped <- adapter.Stop() }()

	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("stop failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}

	// Incoming must be closed by now; draining it terminates.
	for range adapter.Incoming() {
	}

	if err := adapter.Stop(); err != nil {
		t.Errorf("second stop failed: %v", err)
	}
}

func TestSendMessageUnknownUserIsNoOp(t *testing.T) {
	adapter := New(true, slog.Default())
	if err := adapter.SendMessage("ghost", nil); err != nil {
		t.Errorf("expected nil for unknown user, got %v", err)
	}
}
