package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/pkg/httputil"
	"github.com/wonny/scorecard/pkg/logger"
)

const (
	sourceName = "NewsAPI"

	// MaxItems is the number of articles taken from one search
	MaxItems = 3
)

// Client searches NewsAPI's everything endpoint
// ⭐ SSOT: NewsAPI 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new NewsAPI client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Name identifies the feed in logs
func (c *Client) Name() string {
	return sourceName
}

// FetchHeadlines returns up to MaxItems of the latest articles for symbol
func (c *Client) FetchHeadlines(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	params := url.Values{
		"q":      {symbol + " India Stock"},
		"sortBy": {"publishedAt"},
	}
	fullURL := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{"X-Api-Key": c.apiKey})
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || payload.Status == "error" {
		return nil, fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, payload.Message)
	}

	items := make([]contracts.NewsItem, 0, MaxItems)
	for _, article := range payload.Articles {
		if len(items) == MaxItems {
			break
		}
		title := strings.TrimSpace(article.Title)
		if title == "" || title == "[Removed]" {
			continue
		}
		items = append(items, contracts.NewsItem{
			Source:      sourceName,
			Title:       title,
			Link:        article.URL,
			PublishedAt: parseTime(article.PublishedAt),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(items),
	}).Debug("Fetched headlines")

	return items, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
