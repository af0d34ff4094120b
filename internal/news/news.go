// Package news fetches headlines, optionally scoped to a place. Sources
// fall through in a fixed order: keyed NewsAPI search, region RSS feeds,
// national RSS feeds, then a single synthetic article. Errors never
// propagate to callers.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/metrics"
)

// Article is a single headline entry.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// Service fetches headlines from the configured source chain.
type Service struct {
	apiKey     string
	baseURL    string
	searchURL  string
	localFeeds map[string][]string
	feeds      []string
	client     *http.Client
	logger     *slog.Logger
}

// NewService creates a news service from config.
func NewService(cfg config.NewsConfig, logger *slog.Logger) *Service {
	return &Service{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		searchURL:  cfg.SearchURL,
		localFeeds: cfg.LocalFeeds,
		feeds:      cfg.Feeds,
		client:     &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
	}
}

// stateNames expands the abbreviations the parser commonly produces.
var stateNames = map[string]string{
	"ny": "New York",
	"ca": "California",
	"tx": "Texas",
	"fl": "Florida",
}

// Headlines returns up to limit articles, preferring place-scoped
// sources when a place is given. Never returns an error; when every
// source fails the result is a single synthetic article.
func (s *Service) Headlines(ctx context.Context, place string, limit int) []Article {
	if limit <= 0 {
		limit = 5
	}

	if s.apiKey != "" {
		if place != "" {
			articles, err := s.searchNewsAPI(ctx, place, limit)
			if err != nil {
				s.logger.Warn("newsapi search failed", "place", place, "error", err)
				metrics.ProviderFallbacks.WithLabelValues("news", "newsapi-search").Inc()
			} else if len(articles) > 0 {
				return articles
			}
		}
		articles, err := s.topHeadlines(ctx, limit)
		if err != nil {
			s.logger.Warn("newsapi headlines failed", "error", err)
			metrics.ProviderFallbacks.WithLabelValues("news", "newsapi").Inc()
		} else if len(articles) > 0 {
			return articles
		}
	}

	if place != "" {
		if articles := s.fetchFeeds(ctx, s.feedsForPlace(place), limit); len(articles) > 0 {
			return articles
		}
	}
	if articles := s.fetchFeeds(ctx, s.feeds, limit); len(articles) > 0 {
		return articles
	}

	metrics.ProviderFallbacks.WithLabelValues("news", "static").Inc()
	return []Article{{
		Title:       "News service temporarily unavailable",
		Description: "We're having trouble fetching the latest news. Please try again later.",
		Source:      "System",
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}}
}

// newsAPIResponse mirrors the fields we read from NewsAPI payloads.
type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *Service) searchNewsAPI(ctx context.Context, place string, limit int) ([]Article, error) {
	parts := strings.SplitN(strings.ToLower(place), ",", 2)
	terms := []string{strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		state := strings.TrimSpace(parts[1])
		if full, ok := stateNames[state]; ok {
			state = full
		}
		terms = append(terms, state)
	}

	q := url.Values{}
	q.Set("q", strings.Join(terms, " AND "))
	q.Set("apiKey", s.apiKey)
	q.Set("pageSize", fmt.Sprintf("%d", limit))
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")

	return s.fetchNewsAPI(ctx, s.searchURL+"?"+q.Encode(), limit)
}

func (s *Service) topHeadlines(ctx context.Context, limit int) ([]Article, error) {
	q := url.Values{}
	q.Set("country", "us")
	q.Set("apiKey", s.apiKey)
	q.Set("pageSize", fmt.Sprintf("%d", limit))

	return s.fetchNewsAPI(ctx, s.baseURL+"?"+q.Encode(), limit)
}

func (s *Service) fetchNewsAPI(ctx context.Context, fullURL string, limit int) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, a := range parsed.Articles {
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      sourceOrUnknown(a.Source.Name),
			PublishedAt: a.PublishedAt,
		})
		if len(articles) == limit {
			break
		}
	}
	return articles, nil
}

// feedsForPlace returns the region feed lists whose key appears in the
// place string.
func (s *Service) feedsForPlace(place string) []string {
	lower := strings.ToLower(place)
	var feeds []string
	for key, list := range s.localFeeds {
		if strings.Contains(lower, key) {
			feeds = append(feeds, list...)
		}
	}
	return feeds
}

func sourceOrUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
