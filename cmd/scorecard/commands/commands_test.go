package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/news"
	"github.com/wonny/scorecard/pkg/config"
	"github.com/wonny/scorecard/pkg/logger"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func resetEvaluateFlags() {
	evalInput, evalSymbol, evalFundamentals, evalTechnicals, evalNews = "", "", "", "", ""
}

func TestLoadEvaluateRequest_LabelFiles(t *testing.T) {
	t.Cleanup(resetEvaluateFlags)

	evalFundamentals = writeFile(t, "f.json", `{"Current Price": "₹ 1,200", "Stock P/E": 14, "Bogus": 1}`)
	evalTechnicals = writeFile(t, "t.json", `{"Close": 1190, "50DMA": 1100, "200DMA": 1000, "Volume_Trend": "Increasing"}`)
	evalNews = writeFile(t, "n.json", `[{"source": "x", "title": "Profit jumps", "sentiment": "Positive"}]`)
	evalSymbol = "acme"

	req, err := loadEvaluateRequest()
	require.NoError(t, err)

	in, unknown := req.Input()
	assert.Equal(t, "acme", in.Symbol)
	assert.Equal(t, []string{"Bogus"}, unknown)
	assert.Equal(t, 1200.0, in.Fundamentals.CurrentPrice.Float())
	assert.Equal(t, "Increasing", in.Technicals.VolumeTrend)
	require.Len(t, in.News, 1)
	assert.Equal(t, contracts.SentimentPositive, in.News[0].Sentiment)
}

func TestLoadEvaluateRequest_InputFile(t *testing.T) {
	t.Cleanup(resetEvaluateFlags)

	evalInput = writeFile(t, "req.json", `{"symbol": "TCS", "fundamentals": {"current_price": 3500}}`)

	req, err := loadEvaluateRequest()
	require.NoError(t, err)
	assert.Equal(t, "TCS", req.Symbol)
	assert.Equal(t, 3500.0, req.Fundamentals.CurrentPrice.Float())
}

func TestLoadEvaluateRequest_Errors(t *testing.T) {
	t.Cleanup(resetEvaluateFlags)

	_, err := loadEvaluateRequest()
	assert.ErrorContains(t, err, "no input")

	evalInput = filepath.Join(t.TempDir(), "missing.json")
	_, err = loadEvaluateRequest()
	assert.ErrorContains(t, err, "read ")

	evalInput = writeFile(t, "bad.json", `{`)
	_, err = loadEvaluateRequest()
	assert.ErrorContains(t, err, "decode ")
}

func TestPrintReport(t *testing.T) {
	var details contracts.Details
	details.Set("ROCE", contracts.NewResult("22.0", 1, contracts.StatusGood))

	r := &contracts.ScoreReport{
		Symbol:          "ACME",
		CMP:             100,
		TotalScore:      26,
		MaxScore:        35.5,
		Details:         details,
		LongTermVerdict: contracts.VerdictBuy,
		SwingVerdict:    contracts.VerdictAvoid,
		HealthLabel:     "🟢 High Quality",
	}

	var buf bytes.Buffer
	printReport(&buf, r)

	out := buf.String()
	assert.Contains(t, out, "ACME  CMP ₹100.00")
	assert.Contains(t, out, "26.0 / 35.5")
	assert.Contains(t, out, "ROCE")
	assert.Contains(t, out, "🟢 High Quality")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/scores", maskPassword("postgres://app:secret@db:5432/scores"))
	assert.Equal(t, "postgres://db/scores", maskPassword("postgres://db/scores"))
	assert.Equal(t, "", maskPassword(""))
}

func TestNewSources_NewsFeeds(t *testing.T) {
	feedNames := func(cfg *config.Config) []string {
		agg, ok := newSources(cfg, logger.Nop(), 4).News.(*news.Aggregator)
		require.True(t, ok)
		return agg.FeedNames()
	}

	cfg := &config.Config{Sources: config.SourcesConfig{RequestsPerSecond: 1}}
	assert.Equal(t, []string{"Google News"}, feedNames(cfg))

	cfg.Sources.MarketAuxAPIToken = "token"
	cfg.Sources.NewsAPIKey = "key"
	assert.Equal(t, []string{"MarketAux", "NewsAPI", "Google News"}, feedNames(cfg))
}
