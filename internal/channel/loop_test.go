package channel

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/pmchrislee/ai-agent/internal/agent"
	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/news"
	"github.com/pmchrislee/ai-agent/internal/weather"
)

type fakeAdapter struct {
	incoming chan *Message
	sent     chan *Response
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		incoming: make(chan *Message, 10),
		sent:     make(chan *Response, 10),
	}
}

func (f *fakeAdapter) Start(ctx context.Context) error { return nil }
func (f *fakeAdapter) Stop() error                     { close(f.incoming); return nil }
func (f *fakeAdapter) Name() string                    { return "fake" }
func (f *fakeAdapter) IsEnabled() bool                 { return true }
func (f *fakeAdapter) Incoming() <-chan *Message       { return f.incoming }

func (f *fakeAdapter) SendMessage(userID string, resp *Response) error {
	f.sent <- resp
	return nil
}

func testLoop(t *testing.T) (*Loop, *agent.Agent) {
	t.Helper()
	logger := slog.Default()
	weatherSvc := weather.NewService(config.WeatherConfig{
		BaseURL:     "http://127.0.0.1:1/weather",
		FallbackURL: "http://127.0.0.1:1/meteo",
		Timeout:     "100ms",
	}, logger)
	newsSvc := news.NewService(config.NewsConfig{Timeout: "100ms"}, logger)
	a := agent.New(config.AgentConfig{Name: "Test", Version: "0.0.1"},
		history.NewBuffer(10), weatherSvc, newsSvc, logger)
	return NewLoop(a, 1000, logger), a
}

func TestLoopRepliesToInbound(t *testing.T) {
	loop, a := testLoop(t)
	adapter := newFakeAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Run(ctx, adapter)

	adapter.incoming <- &Message{ID: "1", Channel: "fake", UserID: "u1", Content: "hello"}

	select {
	case resp := <-adapter.sent:
		if resp.Content == "" {
			t.Error("expected non-empty reply")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply within deadline")
	}

	if got := len(a.History("u1", 0)); got != 1 {
		t.Errorf("expected 1 history turn, got %d", got)
	}
}

func TestLoopRejectsEmptyMessage(t *testing.T) {
	loop, a := testLoop(t)
	adapter := newFakeAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Run(ctx, adapter)

	adapter.incoming <- &Message{ID: "1", Channel: "fake", UserID: "u1", Content: "   "}

	select {
	case resp := <-adapter.sent:
		if resp.Content == "" {
			t.Error("expected a validation error reply")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply within deadline")
	}

	if got := len(a.History("u1", 0)); got != 0 {
		t.Errorf("expected no history for rejected message, got %d", got)
	}
}

func TestLoopExitsWhenAdapterStops(t *testing.T) {
	loop, _ := testLoop(t)
	adapter := newFakeAdapter()
	loop.Run(context.Background(), adapter)
	adapter.Stop()

	done := make(chan struct{})
	go func() { loop.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after adapter stop")
	}
}
