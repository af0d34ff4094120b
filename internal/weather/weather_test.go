package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/logging"
)

func testService(apiKey, baseURL, fallbackURL string) *Service {
	return NewService(config.WeatherConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		FallbackURL: fallbackURL,
		Timeout:     "2s",
	}, logging.WithComponent("weather-test"))
}

func TestFetchPrimarySource(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		w.Write([]byte(`{
			"name": "Kings County",
			"main": {"temp": 65.4, "feels_like": 63.2, "humidity": 80},
			"weather": [{"main": "Rain", "description": "light rain"}],
			"wind": {"speed": 12.3}
		}`))
	}))
	defer primary.Close()

	svc := testService("test-key", primary.URL, "http://127.0.0.1:0")
	snap := svc.Fetch(context.Background(), "brooklyn")

	assert.Equal(t, 65, snap.TemperatureF)
	assert.Equal(t, 19, snap.TemperatureC)
	assert.Equal(t, "Rain", snap.Condition)
	assert.Equal(t, "Light rain", snap.Description)
	assert.Equal(t, 80, snap.Humidity)
	assert.Equal(t, 12, snap.WindMPH)
	// The requested place wins over whatever name the provider returns.
	assert.Equal(t, "Brooklyn, NY", snap.Location)
}

func TestFetchSecondaryWhenPrimaryFails(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("latitude"))
		w.Write([]byte(`{
			"current": {
				"temperature_2m": 50.0,
				"apparent_temperature": 47.6,
				"relative_humidity_2m": 40,
				"weather_code": 61,
				"wind_speed_10m": 8.0
			}
		}`))
	}))
	defer secondary.Close()

	svc := testService("test-key", primary.URL, secondary.URL)
	snap := svc.Fetch(context.Background(), "queens")

	assert.Equal(t, 50, snap.TemperatureF)
	assert.Equal(t, "Rain", snap.Condition)
	assert.Equal(t, "Queens, NY", snap.Location)
}

func TestFetchFallbackWhenAllSourcesFail(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	svc := testService("test-key", down.URL, down.URL)
	snap := svc.Fetch(context.Background(), "Brooklyn")

	// Fallback snapshot is fully populated.
	require.NotZero(t, snap.TemperatureF)
	require.NotZero(t, snap.TemperatureC)
	require.NotZero(t, snap.FeelsLikeF)
	require.NotEmpty(t, snap.Condition)
	require.NotEmpty(t, snap.Description)
	require.NotZero(t, snap.Humidity)
	require.NotZero(t, snap.WindMPH)
	assert.Equal(t, "Brooklyn, NY", snap.Location)
}

func TestFetchNoKeySkipsPrimary(t *testing.T) {
	primaryCalled := false
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryCalled = true
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": 70, "apparent_temperature": 70, "relative_humidity_2m": 55, "weather_code": 0, "wind_speed_10m": 3}}`))
	}))
	defer secondary.Close()

	svc := testService("", primary.URL, secondary.URL)
	snap := svc.Fetch(context.Background(), "manhattan")

	assert.False(t, primaryCalled)
	assert.Equal(t, "Clear", snap.Condition)
	assert.Equal(t, "Manhattan, NY", snap.Location)
}

func TestFetchAtUsesCallerCoordinates(t *testing.T) {
	var gotLat, gotLon string
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("latitude")
		gotLon = r.URL.Query().Get("longitude")
		w.Write([]byte(`{"current": {"temperature_2m": 58, "apparent_temperature": 56, "relative_humidity_2m": 60, "weather_code": 3, "wind_speed_10m": 9}}`))
	}))
	defer secondary.Close()

	svc := testService("", "http://127.0.0.1:0", secondary.URL)
	snap := svc.FetchAt(context.Background(), "Greenpoint", 40.7245, -73.9425)

	assert.Equal(t, "40.7245", gotLat)
	assert.Equal(t, "-73.9425", gotLon)
	assert.Equal(t, 58, snap.TemperatureF)
	// A place the gazetteer doesn't know still works, coordinates came
	// from the caller.
	assert.Equal(t, "Greenpoint", snap.Location)
}

func TestFetchEmptyPlaceUsesDefault(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	svc := testService("", down.URL, down.URL)
	snap := svc.Fetch(context.Background(), "")
	assert.Equal(t, "Queens, NY", snap.Location)
}

func TestFormatPlain(t *testing.T) {
	snap := Snapshot{
		TemperatureF: 72, TemperatureC: 22, FeelsLikeF: 72,
		Condition: "Clear", Description: "Clear sky",
		Humidity: 50, WindMPH: 3, Location: "Queens, NY",
	}
	out := Format(snap, false)
	assert.Contains(t, out, "Current weather in Queens, NY: 72°F")
	assert.Contains(t, out, "clear sky")
	assert.NotContains(t, out, "feels like")
	assert.NotContains(t, out, "humidity")
}

func TestFormatCommentary(t *testing.T) {
	snap := Snapshot{
		TemperatureF: 60, FeelsLikeF: 55,
		Condition: "Rain", Description: "Heavy rain",
		Humidity: 85, WindMPH: 20, Location: "Bronx, NY",
	}
	out := Format(snap, false)
	assert.Contains(t, out, "(feels like 55°F)")
	assert.Contains(t, out, "quite humid (85% humidity)")
	assert.Contains(t, out, "Windy conditions with 20 mph winds")
}

func TestFormatUnknownConditionIcon(t *testing.T) {
	snap := Snapshot{Condition: "Sandstorm", Description: "Sand", Location: "Somewhere"}
	out := Format(snap, false)
	assert.Contains(t, out, defaultIcon)
}

func TestFormatJoke(t *testing.T) {
	snap := Snapshot{
		TemperatureF: 72, Condition: "Clear", Description: "Clear sky",
		Location: "Brooklyn, NY",
	}
	out := Format(snap, true)
	assert.Contains(t, out, "Brooklyn, NY")
	assert.Contains(t, out, "72°F")
	assert.True(t, strings.Contains(out, "?") || strings.Contains(out, "!"))
}
