package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pmchrislee/ai-agent/internal/metrics"
)

const maxDescriptionRunes = 200

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// fetchFeeds tries each feed URL in order and returns articles from the
// first feed that yields at least one.
func (s *Service) fetchFeeds(ctx context.Context, feeds []string, limit int) []Article {
	for _, feedURL := range feeds {
		articles, err := s.fetchFeed(ctx, feedURL, limit)
		if err != nil {
			s.logger.Warn("rss feed failed", "url", feedURL, "error", err)
			metrics.ProviderFallbacks.WithLabelValues("news", "rss").Inc()
			continue
		}
		if len(articles) > 0 {
			s.logger.Debug("fetched articles from feed", "url", feedURL, "count", len(articles))
			return articles
		}
	}
	return nil
}

func (s *Service) fetchFeed(ctx context.Context, feedURL string, limit int) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	decoder := xml.NewDecoder(resp.Body)
	decoder.Strict = false
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := feed.Channel.Title
	if source == "" {
		source = "News"
	}

	articles := make([]Article, 0, limit)
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       item.Title,
			Description: truncate(stripHTML(item.Description), maxDescriptionRunes),
			URL:         item.Link,
			Source:      source,
			PublishedAt: item.PubDate,
		})
		if len(articles) == limit {
			break
		}
	}
	return articles, nil
}

// stripHTML drops markup from feed descriptions, which frequently embed
// anchor tags and image wrappers.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
