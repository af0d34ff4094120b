// Package agent implements the keyword-rule dispatcher: the first rule
// whose predicate matches the lowercased message handles it, unmatched
// messages get a random default reply, and every successful exchange is
// recorded as one history turn.
package agent

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/location"
	"github.com/pmchrislee/ai-agent/internal/metrics"
	"github.com/pmchrislee/ai-agent/internal/news"
	"github.com/pmchrislee/ai-agent/internal/weather"
)

// Status is the agent's session state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusError      Status = "error"
)

const defaultHeadlineLimit = 5

// Request is one inbound message. City optionally carries a caller-
// provided location (e.g. from the HTTP body) used when the message
// itself names no place; Lat/Lon carry a device position when
// HasCoords is set.
type Request struct {
	Message   string
	UserID    string
	City      string
	Lat, Lon  float64
	HasCoords bool
}

// Response is the reply for one processed message.
type Response struct {
	Content   string            `json:"content"`
	Type      string            `json:"type"`
	Timestamp string            `json:"timestamp"`
	UserID    string            `json:"user_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StatusInfo is the externally visible agent state.
type StatusInfo struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	Status            Status `json:"status"`
	ConversationCount int    `json:"conversation_count"`
	MaxHistory        int    `json:"max_history"`
	Uptime            string `json:"uptime"`
}

// Agent dispatches messages to keyword-rule handlers. Providers are
// injected at construction; there is no hidden global state.
type Agent struct {
	name            string
	version         string
	defaultLocation string

	mu     sync.Mutex
	status Status

	history   *history.Buffer
	weather   *weather.Service
	news      *news.Service
	dispatch  []Rule
	startTime time.Time
	logger    *slog.Logger
}

// New creates an agent with its rule table in priority order.
func New(cfg config.AgentConfig, hist *history.Buffer, weatherSvc *weather.Service, newsSvc *news.Service, logger *slog.Logger) *Agent {
	a := &Agent{
		name:            cfg.Name,
		version:         cfg.Version,
		defaultLocation: cfg.DefaultLocation,
		status:          StatusIdle,
		history:         hist,
		weather:         weatherSvc,
		news:            newsSvc,
		startTime:       time.Now(),
		logger:          logger,
	}
	if a.defaultLocation == "" {
		a.defaultLocation = location.DefaultPlace
	}
	a.dispatch = a.rules()
	logger.Info("agent initialized", "name", a.name, "version", a.version)
	return a
}

// Process runs one message through the dispatch table. Validation is
// the caller's job; Process assumes a non-empty message. A handler
// error yields a generic error reply and flips the status flag until
// the next successful turn. Exactly one history turn is appended per
// successful exchange.
func (a *Agent) Process(ctx context.Context, req Request) Response {
	a.setStatus(StatusProcessing)
	a.logger.Info("processing message", "user_id", req.UserID, "message", firstN(req.Message, 50))

	content, handlerName, err := a.generate(ctx, req)
	if err != nil {
		a.setStatus(StatusError)
		a.logger.Error("handler failed", "handler", handlerName, "error", err)
		return Response{
			Content:   errorReply,
			Type:      "error",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			UserID:    req.UserID,
		}
	}

	turn := a.history.Append(req.UserID, req.Message, content)
	metrics.MessagesProcessed.WithLabelValues(handlerName).Inc()
	metrics.HistorySize.Set(float64(a.history.Len()))
	a.setStatus(StatusIdle)

	return Response{
		Content:   content,
		Type:      "chat",
		Timestamp: turn.Timestamp.Format(time.RFC3339),
		UserID:    req.UserID,
		Metadata:  map[string]string{"handler": handlerName},
	}
}

func (a *Agent) generate(ctx context.Context, req Request) (string, string, error) {
	lower := strings.ToLower(req.Message)
	for _, rule := range a.dispatch {
		if !rule.Matches(lower) {
			continue
		}
		content, err := rule.Handler(ctx, req)
		return content, rule.Name, err
	}
	return pick(defaultResponses), "default", nil
}

// StatusInfo returns the current agent state.
func (a *Agent) StatusInfo() StatusInfo {
	a.mu.Lock()
	status := a.status
	a.mu.Unlock()
	return StatusInfo{
		Name:              a.name,
		Version:           a.version,
		Status:            status,
		ConversationCount: a.history.Len(),
		MaxHistory:        a.history.Max(),
		Uptime:            time.Since(a.startTime).Round(time.Second).String(),
	}
}

// History returns recorded turns, filtered by user and bounded by limit.
func (a *Agent) History(userID string, limit int) []history.Turn {
	return a.history.List(userID, limit)
}

// ClearHistory removes one user's turns, or everything when userID is
// empty.
func (a *Agent) ClearHistory(userID string) {
	a.history.Clear(userID)
	metrics.HistorySize.Set(float64(a.history.Len()))
	a.logger.Info("history cleared", "user_id", userID)
}

// Name returns the configured agent name.
func (a *Agent) Name() string { return a.name }

// Version returns the configured agent version.
func (a *Agent) Version() string { return a.version }

// HelpText returns the capability summary shown by help surfaces.
func (a *Agent) HelpText() string { return helpText }

func (a *Agent) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

func (a *Agent) resolvePlace(req Request) string {
	if place, ok := location.Parse(req.Message); ok {
		return place
	}
	if req.City != "" {
		return req.City
	}
	return a.defaultLocation
}

func (a *Agent) handleWeatherJoke(ctx context.Context, req Request) (string, error) {
	return weather.Format(a.fetchWeather(ctx, req), true), nil
}

func (a *Agent) handleWeather(ctx context.Context, req Request) (string, error) {
	return weather.Format(a.fetchWeather(ctx, req), false), nil
}

// fetchWeather resolves where to look: a place named in the message
// wins, then caller-supplied coordinates, then the city field or the
// configured default.
func (a *Agent) fetchWeather(ctx context.Context, req Request) weather.Snapshot {
	if _, ok := location.Parse(req.Message); !ok && req.HasCoords {
		return a.weather.FetchAt(ctx, req.City, req.Lat, req.Lon)
	}
	return a.weather.Fetch(ctx, a.resolvePlace(req))
}

func (a *Agent) handleJoke(_ context.Context, _ Request) (string, error) {
	return pick(generalJokes), nil
}

func (a *Agent) handleGreeting(_ context.Context, _ Request) (string, error) {
	return pick(greetings), nil
}

func (a *Agent) handleHelp(_ context.Context, _ Request) (string, error) {
	return helpText, nil
}

func (a *Agent) handleNews(ctx context.Context, req Request) (string, error) {
	articles := a.news.Headlines(ctx, req.City, defaultHeadlineLimit)
	return news.Format(articles), nil
}

func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
