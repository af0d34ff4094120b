// Package server exposes the agent over HTTP: chat, status, history,
// health, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pmchrislee/ai-agent/internal/agent"
	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/metrics"
	"github.com/pmchrislee/ai-agent/internal/validate"
)

// anonymousUser identifies chat requests that carry no user_id.
const anonymousUser = "web_user"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	agent      *agent.Agent
	wsHandler  http.Handler
	httpServer *http.Server
	startTime  time.Time
	logger     *slog.Logger
}

// ChatRequest represents an inbound chat message
type ChatRequest struct {
	Message  string            `json:"message"`
	UserID   string            `json:"user_id,omitempty"`
	Location *Location         `json:"location,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

// Location is a caller-supplied position, typically from the browser's
// geolocation API.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city,omitempty"`
}

// ErrorResponse represents an API error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// StatusResponse represents the full agent status
type StatusResponse struct {
	Agent     agent.StatusInfo `json:"agent"`
	Channels  map[string]bool  `json:"channels"`
	Timestamp string           `json:"timestamp"`
}

// HistoryResponse represents the conversation history list
type HistoryResponse struct {
	Turns []history.Turn `json:"turns"`
	Count int            `json:"count"`
}

// New creates a new HTTP server. wsHandler may be nil when the webchat
// channel is disabled.
func New(cfg *config.Config, a *agent.Agent, wsHandler http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		agent:     a,
		wsHandler: wsHandler,
		startTime: time.Now(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.instrument("/health", s.healthHandler))
	mux.HandleFunc("/api/v1/chat", s.instrument("/api/v1/chat", s.chatHandler))
	mux.HandleFunc("/api/v1/status", s.instrument("/api/v1/status", s.statusHandler))
	mux.HandleFunc("/api/v1/history", s.instrument("/api/v1/history", s.historyHandler))
	mux.Handle("/metrics", promhttp.Handler())
	if wsHandler != nil {
		mux.Handle("/ws", wsHandler)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// statusRecorder captures the response code for the request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RequestCount.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.allowedOrigin(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.cfg.Server.CORSOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

// chatHandler handles chat requests
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	message, err := validate.Message(req.Message, s.cfg.Server.MaxMessageLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = anonymousUser
	}
	userID, err = validate.UserID(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agentReq := agent.Request{Message: message, UserID: userID}
	if req.Location != nil {
		agentReq.City = req.Location.City
		// A zero lat/lon pair means the client sent only a city name.
		if req.Location.Lat != 0 || req.Location.Lon != 0 {
			agentReq.Lat = req.Location.Lat
			agentReq.Lon = req.Location.Lon
			agentReq.HasCoords = true
		}
	}
	resp := s.agent.Process(r.Context(), agentReq)

	writeJSON(w, http.StatusOK, resp)
}

// healthHandler handles health check requests
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   s.agent.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// statusHandler handles agent status requests
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Agent: s.agent.StatusInfo(),
		Channels: map[string]bool{
			"telegram": s.cfg.Channels.Telegram.Enabled,
			"discord":  s.cfg.Channels.Discord.Enabled,
			"webchat":  s.cfg.Channels.WebChat.Enabled,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// historyHandler handles history listing and clearing
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID != "" {
		var err error
		if userID, err = validate.UserID(userID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		turns := s.agent.History(userID, limit)
		writeJSON(w, http.StatusOK, HistoryResponse{Turns: turns, Count: len(turns)})
	case http.MethodDelete:
		s.agent.ClearHistory(userID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
