// Package weather fetches a point-in-time weather snapshot for a place.
// Sources are tried in order (keyed OpenWeatherMap, then the key-less
// Open-Meteo endpoint, then a static constant); a failure anywhere is
// absorbed and the caller always receives a fully populated snapshot.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/location"
	"github.com/pmchrislee/ai-agent/internal/metrics"
)

// Snapshot is a single weather reading. Produced fresh per request,
// never cached.
type Snapshot struct {
	TemperatureF int    `json:"temperature_f"`
	TemperatureC int    `json:"temperature_c"`
	FeelsLikeF   int    `json:"feels_like_f"`
	Condition    string `json:"condition"`
	Description  string `json:"description"`
	Humidity     int    `json:"humidity"`
	WindMPH      int    `json:"wind_speed"`
	Location     string `json:"location"`
}

// Service fetches snapshots from the configured source chain.
type Service struct {
	apiKey      string
	baseURL     string
	fallbackURL string
	client      *http.Client
	logger      *slog.Logger
}

// NewService creates a weather service from config.
func NewService(cfg config.WeatherConfig, logger *slog.Logger) *Service {
	return &Service{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		fallbackURL: cfg.FallbackURL,
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
		logger: logger,
	}
}

// Fetch returns the current weather for a place, resolving coordinates
// from the gazetteer when the place is known. The snapshot's Location
// always reflects the requested place name, not whatever locality a
// provider resolved the coordinates to.
func (s *Service) Fetch(ctx context.Context, place string) Snapshot {
	if place == "" {
		place = location.DefaultPlace
	}
	lat, lon, hasCoords := location.Coordinates(place)
	return s.fetch(ctx, place, lat, lon, hasCoords)
}

// FetchAt is Fetch with caller-supplied coordinates, for requests that
// carry a device position. The gazetteer is bypassed.
func (s *Service) FetchAt(ctx context.Context, place string, lat, lon float64) Snapshot {
	if place == "" {
		place = location.DefaultPlace
	}
	return s.fetch(ctx, place, lat, lon, true)
}

func (s *Service) fetch(ctx context.Context, place string, lat, lon float64, hasCoords bool) Snapshot {
	display := location.Normalize(place)

	if s.apiKey != "" {
		snap, err := s.fetchOpenWeather(ctx, place, lat, lon, hasCoords)
		if err == nil {
			snap.Location = display
			return snap
		}
		s.logger.Warn("primary weather source failed", "place", place, "error", err)
		metrics.ProviderFallbacks.WithLabelValues("weather", "openweathermap").Inc()
	}

	if hasCoords || place == location.DefaultPlace {
		if !hasCoords {
			lat, lon = location.DefaultLat, location.DefaultLon
		}
		snap, err := s.fetchOpenMeteo(ctx, lat, lon)
		if err == nil {
			snap.Location = display
			return snap
		}
		s.logger.Warn("secondary weather source failed", "place", place, "error", err)
		metrics.ProviderFallbacks.WithLabelValues("weather", "open-meteo").Inc()
	}

	snap := fallbackSnapshot()
	snap.Location = display
	return snap
}

// openWeatherResponse mirrors the fields we read from the
// OpenWeatherMap current-weather payload.
type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (s *Service) fetchOpenWeather(ctx context.Context, place string, lat, lon float64, hasCoords bool) (Snapshot, error) {
	q := url.Values{}
	q.Set("appid", s.apiKey)
	q.Set("units", "imperial")
	if hasCoords {
		q.Set("lat", fmt.Sprintf("%.4f", lat))
		q.Set("lon", fmt.Sprintf("%.4f", lon))
	} else {
		q.Set("q", place)
	}

	var parsed openWeatherResponse
	if err := s.getJSON(ctx, s.baseURL+"?"+q.Encode(), &parsed); err != nil {
		return Snapshot{}, err
	}
	if len(parsed.Weather) == 0 {
		return Snapshot{}, fmt.Errorf("no weather block in response")
	}

	return Snapshot{
		TemperatureF: int(math.Round(parsed.Main.Temp)),
		TemperatureC: fahrenheitToCelsius(parsed.Main.Temp),
		FeelsLikeF:   int(math.Round(parsed.Main.FeelsLike)),
		Condition:    parsed.Weather[0].Main,
		Description:  titleFirst(parsed.Weather[0].Description),
		Humidity:     parsed.Main.Humidity,
		WindMPH:      int(math.Round(parsed.Wind.Speed)),
		Location:     parsed.Name,
	}, nil
}

// openMeteoResponse mirrors the Open-Meteo current-conditions payload.
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		FeelsLike   float64 `json:"apparent_temperature"`
		Humidity    int     `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (s *Service) fetchOpenMeteo(ctx context.Context, lat, lon float64) (Snapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,weather_code,wind_speed_10m")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")

	var parsed openMeteoResponse
	if err := s.getJSON(ctx, s.fallbackURL+"?"+q.Encode(), &parsed); err != nil {
		return Snapshot{}, err
	}

	condition, description := conditionFromWMOCode(parsed.Current.WeatherCode)
	return Snapshot{
		TemperatureF: int(math.Round(parsed.Current.Temperature)),
		TemperatureC: fahrenheitToCelsius(parsed.Current.Temperature),
		FeelsLikeF:   int(math.Round(parsed.Current.FeelsLike)),
		Condition:    condition,
		Description:  description,
		Humidity:     parsed.Current.Humidity,
		WindMPH:      int(math.Round(parsed.Current.WindSpeed)),
	}, nil
}

func (s *Service) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// fallbackSnapshot is the last-resort reading when every live source
// fails.
func fallbackSnapshot() Snapshot {
	return Snapshot{
		TemperatureF: 72,
		TemperatureC: 22,
		FeelsLikeF:   72,
		Condition:    "Clear",
		Description:  "Clear sky",
		Humidity:     50,
		WindMPH:      5,
		Location:     "Queens, NY",
	}
}

func fahrenheitToCelsius(f float64) int {
	return int(math.Round((f - 32) * 5 / 9))
}

// conditionFromWMOCode maps Open-Meteo WMO weather codes onto the same
// condition vocabulary OpenWeatherMap uses, so formatting stays uniform.
func conditionFromWMOCode(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear", "Clear sky"
	case code >= 1 && code <= 3:
		return "Clouds", "Partly cloudy"
	case code == 45 || code == 48:
		return "Fog", "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle", "Light drizzle"
	case code >= 61 && code <= 67, code >= 80 && code <= 82:
		return "Rain", "Rain"
	case code >= 71 && code <= 77, code == 85, code == 86:
		return "Snow", "Snow"
	case code >= 95:
		return "Thunderstorm", "Thunderstorm"
	default:
		return "Clouds", "Overcast"
	}
}
