// Package webchat serves browser chat over a websocket. Unlike the
// other adapters it owns no listener: the HTTP server mounts Handler()
// on its own mux.
package webchat

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pmchrislee/ai-agent/internal/channel"
)

type Adapter struct {
	enabled  bool
	incoming chan *channel.Message
	done     chan struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger

	connMux  sync.RWMutex
	conns    map[string]*conn
	stopped  bool
	handlers sync.WaitGroup
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// WSMessage is the browser-facing frame format.
type WSMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	UserID  string `json:"user_id,omitempty"`
}

func New(enabled bool, logger *slog.Logger) *Adapter {
	return &Adapter{
		enabled:  enabled,
		incoming: make(chan *channel.Message, 100),
		done:     make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns:  make(map[string]*conn),
		logger: logger,
	}
}

func (w *Adapter) Name() string {
	return "webchat"
}

func (w *Adapter) IsEnabled() bool {
	return w.enabled
}

// Start is a no-op; the HTTP server drives the adapter via Handler().
func (w *Adapter) Start(ctx context.Context) error {
	return nil
}

// Stop refuses new connections, drops the live ones, and closes the
// incoming channel once every handler has returned. Safe to call once.
func (w *Adapter) Stop() error {
	w.connMux.Lock()
	if w.stopped {
		w.connMux.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	for _, c := range w.conns {
		c.ws.Close()
	}
	w.conns = make(map[string]*conn)
	w.connMux.Unlock()

	// No handler may be mid-send on incoming when it closes.
	w.handlers.Wait()
	close(w.incoming)
	return nil
}

func (w *Adapter) SendMessage(userID string, resp *channel.Response) error {
	w.connMux.RLock()
	c, exists := w.conns[userID]
	w.connMux.RUnlock()
	if !exists {
		// The browser went away; nothing to deliver.
		return nil
	}
	return c.writeJSON(WSMessage{Type: "message", Content: resp.Content, UserID: userID})
}

func (w *Adapter) Incoming() <-chan *channel.Message {
	return w.incoming
}

// Handler returns the websocket endpoint for mounting at /ws.
func (w *Adapter) Handler() http.Handler {
	return http.HandlerFunc(w.serveWS)
}

func (w *Adapter) serveWS(rw http.ResponseWriter, r *http.Request) {
	w.connMux.Lock()
	if w.stopped {
		w.connMux.Unlock()
		http.Error(rw, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.handlers.Add(1)
	w.connMux.Unlock()
	defer w.handlers.Done()

	ws, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "web-" + uuid.NewString()
	}
	c := &conn{ws: ws}

	w.connMux.Lock()
	if w.stopped {
		// Stop ran while the upgrade was in flight.
		w.connMux.Unlock()
		ws.Close()
		return
	}
	w.conns[userID] = c
	w.connMux.Unlock()

	w.logger.Info("webchat connection opened", "user_id", userID)
	defer func() {
		w.connMux.Lock()
		delete(w.conns, userID)
		w.connMux.Unlock()
		ws.Close()
		w.logger.Info("webchat connection closed", "user_id", userID)
	}()

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.logger.Warn("websocket read error", "user_id", userID, "error", err)
			}
			return
		}
		if msg.Type != "message" {
			continue
		}
		inbound := &channel.Message{
			ID:        uuid.NewString(),
			Channel:   "webchat",
			UserID:    userID,
			Content:   msg.Content,
			Metadata:  map[string]string{"connection_id": userID},
			Timestamp: time.Now().Unix(),
		}
		select {
		case w.incoming <- inbound:
		case <-w.done:
			return
		}
	}
}
