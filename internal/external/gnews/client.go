package gnews

import (
	"context"
	"encoding/xml"
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
	sourceName = "Google News"

	// MaxItems is the number of headlines taken from one search
	MaxItems = 5
)

// Client searches the Google News RSS feed
// ⭐ SSOT: Google News RSS 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Google News client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// Name identifies the feed in logs
func (c *Client) Name() string {
	return sourceName
}

// FetchHeadlines returns up to MaxItems headlines for symbol, newest first as served
func (c *Client) FetchHeadlines(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	params := url.Values{
		"q":    {symbol + " stock NSE India"},
		"hl":   {"en-IN"},
		"gl":   {"IN"},
		"ceid": {"IN:en"},
	}
	fullURL := fmt.Sprintf("%s/rss/search?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var feed rss
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}

	items := make([]contracts.NewsItem, 0, MaxItems)
	for _, it := range feed.Channel.Items {
		if len(items) == MaxItems {
			break
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		items = append(items, contracts.NewsItem{
			Source:      sourceName,
			Title:       title,
			Link:        strings.TrimSpace(it.Link),
			PublishedAt: parsePubDate(it.PubDate),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(items),
	}).Debug("Fetched headlines")

	return items, nil
}

// parsePubDate accepts the RFC 1123 variants feeds use; zero when unparsable
func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
