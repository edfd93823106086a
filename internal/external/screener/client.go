package screener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/pkg/httputil"
	"github.com/wonny/scorecard/pkg/logger"
)

// Client scrapes company fundamentals from screener.in
// ⭐ SSOT: Screener 페이지 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new screener client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchFundamentals fetches and parses the consolidated company page
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error) {
	body, err := c.fetchHTML(ctx, fmt.Sprintf("/company/%s/consolidated/", url.PathEscape(strings.ToUpper(symbol))))
	if err != nil {
		return nil, err
	}

	rec, unknown, err := ParseFundamentals(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse screener page: %w", err)
	}
	if len(unknown) > 0 {
		c.logger.WithField("labels", unknown).Warn("Screener produced unmapped labels")
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"cmp":        rec.CurrentPrice.Float(),
		"market_cap": rec.MarketCap.Float(),
	}).Debug("Fetched fundamentals")

	return rec, nil
}

// fetchHTML fetches one page relative to the base URL
func (c *Client) fetchHTML(ctx context.Context, path string) (string, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+path)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
