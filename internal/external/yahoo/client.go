package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/indicators"
	"github.com/wonny/scorecard/pkg/httputil"
	"github.com/wonny/scorecard/pkg/logger"
)

// NSE listings carry this suffix on Yahoo
const exchangeSuffix = ".NS"

// Client fetches daily candles from the Yahoo Finance chart API
// ⭐ SSOT: Yahoo 차트 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	calculator *indicators.Calculator
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo chart client
func NewClient(httpClient *httputil.Client, calc *indicators.Calculator, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		calculator: calc,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// chartResponse mirrors the subset of /v8/finance/chart we read
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Chart is one year of daily bars plus the live quote
type Chart struct {
	Symbol    string
	LivePrice float64
	Bars      []indicators.Bar
}

// FetchChart downloads one year of daily bars, oldest first
func (c *Client) FetchChart(ctx context.Context, symbol string) (*Chart, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.baseURL,
		url.PathEscape(strings.ToUpper(symbol)+exchangeSuffix),
		url.Values{"range": {"1y"}, "interval": {"1d"}}.Encode(),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	return parseChart(symbol, payload)
}

// parseChart flattens the column arrays into bars, skipping incomplete rows
func parseChart(symbol string, payload chartResponse) (*Chart, error) {
	if e := payload.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart error %s: %s", e.Code, e.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	res := payload.Chart.Result[0]
	chart := &Chart{Symbol: symbol, LivePrice: res.Meta.RegularMarketPrice}
	if len(res.Indicators.Quote) == 0 {
		return chart, nil
	}

	q := res.Indicators.Quote[0]
	for i, ts := range res.Timestamp {
		open, high, low, closePx, volume := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i), at(q.Volume, i)
		if open == nil || high == nil || low == nil || closePx == nil {
			continue
		}

		bar := indicators.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  *open,
			High:  *high,
			Low:   *low,
			Close: *closePx,
		}
		if volume != nil {
			bar.Volume = *volume
		}
		chart.Bars = append(chart.Bars, bar)
	}

	return chart, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// FetchTechnicals fetches the chart and derives the technical record.
// The live price is attached when Yahoo reports one.
func (c *Client) FetchTechnicals(ctx context.Context, symbol string) (*contracts.TechnicalRecord, error) {
	chart, err := c.FetchChart(ctx, symbol)
	if err != nil {
		return nil, err
	}

	rec, err := c.calculator.Calculate(ctx, symbol, chart.Bars)
	if err != nil {
		return nil, err
	}

	if chart.LivePrice > 0 {
		rec.LivePrice = contracts.M(chart.LivePrice)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"bars":       len(chart.Bars),
		"live_price": chart.LivePrice,
	}).Debug("Fetched technicals")

	return rec, nil
}
