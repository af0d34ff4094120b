package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/logging"
	"github.com/pmchrislee/ai-agent/internal/news"
	"github.com/pmchrislee/ai-agent/internal/weather"
)

// testAgent wires the agent to providers whose live sources cannot be
// reached, so every fetch lands on static fallback data.
func testAgent(t *testing.T) *Agent {
	t.Helper()
	logger := logging.WithComponent("agent-test")
	weatherSvc := weather.NewService(config.WeatherConfig{
		BaseURL:     "http://127.0.0.1:1/weather",
		FallbackURL: "http://127.0.0.1:1/meteo",
		Timeout:     "100ms",
	}, logger)
	newsSvc := news.NewService(config.NewsConfig{
		Feeds:   []string{"http://127.0.0.1:1/feed"},
		Timeout: "100ms",
	}, logger)
	return New(config.AgentConfig{
		Name:       "Test Agent",
		Version:    "0.0.1",
		MaxHistory: 100,
	}, history.NewBuffer(100), weatherSvc, newsSvc, logger)
}

func TestRuleOrderWeatherJokeWins(t *testing.T) {
	a := testAgent(t)
	for _, msg := range []string{
		"tell me a weather joke",
		"joke about the weather please",
		"weather and a joke",
	} {
		content, name, err := a.generate(context.Background(), Request{Message: msg, UserID: "u"})
		require.NoError(t, err, msg)
		assert.Equal(t, "weather_joke", name, "msg=%q", msg)
		assert.NotEmpty(t, content)
	}
}

func TestRuleMatching(t *testing.T) {
	a := testAgent(t)
	cases := map[string]string{
		"what's the forecast":     "weather",
		"tell me something funny": "joke",
		"hello there":             "greeting",
		"what can you do":         "help",
		"any headlines today":     "news",
	}
	for msg, want := range cases {
		_, name, err := a.generate(context.Background(), Request{Message: msg, UserID: "u"})
		require.NoError(t, err, msg)
		assert.Equal(t, want, name, "msg=%q", msg)
	}
}

func TestUnmatchedMessageGetsDefault(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{Message: "quantum flux capacitor", UserID: "u"})

	assert.Equal(t, "chat", resp.Type)
	assert.Contains(t, defaultResponses, resp.Content)
}

func TestWeatherJokeForBrooklynWithDeadNetwork(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{
		Message: "Tell me a weather joke for Brooklyn",
		UserID:  "alice",
	})

	assert.Equal(t, "chat", resp.Type)
	assert.Contains(t, resp.Content, "Brooklyn")
	assert.NotEmpty(t, resp.Content)

	turns := a.History("alice", 0)
	require.Len(t, turns, 1)
	assert.Equal(t, "Tell me a weather joke for Brooklyn", turns[0].Message)
	assert.Equal(t, resp.Content, turns[0].Response)
}

func TestWeatherFallbackResponse(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{Message: "what's the weather in Queens?", UserID: "u"})

	assert.Equal(t, "chat", resp.Type)
	assert.Contains(t, resp.Content, "Queens, NY")
	assert.Contains(t, resp.Content, "72°F")
}

func TestNewsFallbackResponse(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{Message: "show me the news", UserID: "u"})

	assert.Equal(t, "chat", resp.Type)
	assert.Contains(t, resp.Content, "News service temporarily unavailable")
}

func TestProcessAppendsExactlyOneTurn(t *testing.T) {
	a := testAgent(t)
	a.Process(context.Background(), Request{Message: "hello", UserID: "bob"})

	assert.Len(t, a.History("bob", 0), 1)
	assert.Len(t, a.History("", 0), 1)
}

func TestStatusTransitions(t *testing.T) {
	a := testAgent(t)
	assert.Equal(t, StatusIdle, a.StatusInfo().Status)

	a.Process(context.Background(), Request{Message: "hi", UserID: "u"})
	info := a.StatusInfo()
	assert.Equal(t, StatusIdle, info.Status)
	assert.Equal(t, 1, info.ConversationCount)
	assert.Equal(t, 100, info.MaxHistory)
	assert.Equal(t, "Test Agent", info.Name)
}

func TestHandlerErrorSetsErrorStatus(t *testing.T) {
	a := testAgent(t)
	// Install a failing rule ahead of the table.
	a.dispatch = append([]Rule{{
		Name:     "boom",
		Keywords: []string{"boom"},
		Handler: func(context.Context, Request) (string, error) {
			return "", assert.AnError
		},
	}}, a.dispatch...)

	resp := a.Process(context.Background(), Request{Message: "boom", UserID: "u"})
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, errorReply, resp.Content)
	assert.Equal(t, StatusError, a.StatusInfo().Status)
	// No turn is recorded for a failed exchange.
	assert.Empty(t, a.History("u", 0))

	// The next successful turn resets the flag.
	a.Process(context.Background(), Request{Message: "hello", UserID: "u"})
	assert.Equal(t, StatusIdle, a.StatusInfo().Status)
}

func TestClearHistoryPerUser(t *testing.T) {
	a := testAgent(t)
	a.Process(context.Background(), Request{Message: "hello", UserID: "alice"})
	a.Process(context.Background(), Request{Message: "hello", UserID: "bob"})

	a.ClearHistory("alice")
	assert.Empty(t, a.History("alice", 0))
	assert.Len(t, a.History("bob", 0), 1)
}

func TestCoordinatesUsedWhenMessageNamesNoPlace(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{
		Message:   "forecast please",
		UserID:    "alice",
		City:      "Brooklyn",
		Lat:       40.6782,
		Lon:       -73.9442,
		HasCoords: true,
	})

	assert.Equal(t, "chat", resp.Type)
	assert.Contains(t, resp.Content, "Brooklyn, NY")
}

func TestMessagePlaceBeatsCoordinates(t *testing.T) {
	a := testAgent(t)
	resp := a.Process(context.Background(), Request{
		Message:   "weather in Manhattan",
		UserID:    "alice",
		City:      "Brooklyn",
		Lat:       40.6782,
		Lon:       -73.9442,
		HasCoords: true,
	})

	assert.Contains(t, resp.Content, "Manhattan, NY")
}

func TestCityFallsBackWhenMessageNamesNoPlace(t *testing.T) {
	a := testAgent(t)
	place := a.resolvePlace(Request{Message: "forecast please", City: "Bronx"})
	assert.Equal(t, "Bronx", place)

	place = a.resolvePlace(Request{Message: "weather in Manhattan", City: "Bronx"})
	assert.Equal(t, "manhattan", place)

	place = a.resolvePlace(Request{Message: "forecast please"})
	assert.Equal(t, "Queens,NY,US", place)
}
