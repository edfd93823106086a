package marketaux

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
	sourceName = "MarketAux"

	// MaxItems is the number of articles taken from one query
	MaxItems = 3
)

// Client queries the MarketAux news API
// ⭐ SSOT: MarketAux 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiToken   string
}

// NewClient creates a new MarketAux client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiToken string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
	}
}

type newsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}

// Name identifies the feed in logs
func (c *Client) Name() string {
	return sourceName
}

// FetchHeadlines returns up to MaxItems articles tagged with the NSE symbol
func (c *Client) FetchHeadlines(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	params := url.Values{
		"symbols":         {strings.ToUpper(symbol) + ".NS"},
		"filter_entities": {"true"},
		"language":        {"en"},
		"api_token":       {c.apiToken},
	}
	fullURL := fmt.Sprintf("%s/v1/news/all?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		// the transport error embeds the URL, and with it the token
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", ctxErr)
		}
		return nil, fmt.Errorf("HTTP request failed for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]contracts.NewsItem, 0, MaxItems)
	for _, article := range payload.Data {
		if len(items) == MaxItems {
			break
		}
		title := strings.TrimSpace(article.Title)
		if title == "" {
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

// parseTime reads RFC 3339 timestamps (fractional seconds allowed); zero when unparsable
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
