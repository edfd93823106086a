package analyzer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/reports"
	"github.com/wonny/scorecard/internal/scoring"
	"github.com/wonny/scorecard/pkg/logger"
)

type fundamentalsFunc func(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error)

func (f fundamentalsFunc) FetchFundamentals(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error) {
	return f(ctx, symbol)
}

type technicalsFunc func(ctx context.Context, symbol string) (*contracts.TechnicalRecord, error)

func (f technicalsFunc) FetchTechnicals(ctx context.Context, symbol string) (*contracts.TechnicalRecord, error) {
	return f(ctx, symbol)
}

type newsFunc func(ctx context.Context, symbol string) ([]contracts.NewsItem, error)

func (f newsFunc) FetchNews(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	return f(ctx, symbol)
}

type failingRepo struct {
	*reports.MemoryRepository
}

func (failingRepo) Save(context.Context, *contracts.ScoreReport) error {
	return errors.New("disk full")
}

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	engine, err := scoring.NewEngine(nil, logger.Nop())
	require.NoError(t, err)
	return engine
}

func newAnalyzer(t *testing.T, sources Sources, repo contracts.ReportRepository) *Analyzer {
	t.Helper()
	a := New(newEngine(t), sources, repo, logger.Nop())
	a.now = func() time.Time { return fixedNow }
	return a
}

func okSources() Sources {
	return Sources{
		Fundamentals: fundamentalsFunc(func(context.Context, string) (*contracts.FundamentalRecord, error) {
			return &contracts.FundamentalRecord{CurrentPrice: contracts.M(100), ROCE: contracts.M(22)}, nil
		}),
		Technicals: technicalsFunc(func(context.Context, string) (*contracts.TechnicalRecord, error) {
			return &contracts.TechnicalRecord{
				Close: contracts.M(101), LivePrice: contracts.M(102), DMA50: contracts.M(95), DMA200: contracts.M(90),
			}, nil
		}),
		News: newsFunc(func(context.Context, string) ([]contracts.NewsItem, error) {
			return []contracts.NewsItem{
				{Source: "test", Title: "a", Sentiment: contracts.SentimentPositive},
				{Source: "test", Title: "b", Sentiment: contracts.SentimentPositive},
			}, nil
		}),
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	repo := reports.NewMemoryRepository()
	a := newAnalyzer(t, okSources(), repo)

	report, err := a.Analyze(context.Background(), " acme ")
	require.NoError(t, err)

	assert.Equal(t, "ACME", report.Symbol)
	assert.Equal(t, 102.0, report.CMP)
	assert.Equal(t, fixedNow, report.EvaluatedAt)
	assert.Greater(t, report.TechnicalScore, 0.0)
	assert.Equal(t, 5.5, report.NewsScore)

	saved, err := repo.Latest(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, report.TotalScore, saved.TotalScore)
}

func TestAnalyzer_SourceFailureDegrades(t *testing.T) {
	sources := okSources()
	sources.Technicals = technicalsFunc(func(context.Context, string) (*contracts.TechnicalRecord, error) {
		return nil, errors.New("upstream 503")
	})
	sources.News = newsFunc(func(context.Context, string) ([]contracts.NewsItem, error) {
		return nil, errors.New("rss down")
	})

	report, err := newAnalyzer(t, sources, nil).Analyze(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.CMP)
	assert.Equal(t, 0.0, report.TechnicalScore)
	_, ok := report.Details.Get("RSI")
	assert.False(t, ok)
	assert.Equal(t, 4.0, report.NewsScore)
	assert.Equal(t, "Bearish 🔴. No technical data.", report.TechnicalSummary)
}

func TestAnalyzer_NoSources(t *testing.T) {
	report, err := newAnalyzer(t, Sources{}, nil).Analyze(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.FundamentalScore)
	assert.Equal(t, 4.0, report.TotalScore)
	assert.Equal(t, contracts.VerdictAvoid, report.LongTermVerdict)
}

func TestAnalyzer_IncompleteTechnicals(t *testing.T) {
	sources := okSources()
	sources.Technicals = technicalsFunc(func(context.Context, string) (*contracts.TechnicalRecord, error) {
		return &contracts.TechnicalRecord{Close: contracts.M(101), RSI: contracts.M(40)}, nil
	})

	_, err := newAnalyzer(t, sources, nil).Analyze(context.Background(), "ACME")
	require.ErrorIs(t, err, scoring.ErrIncompleteTechnicals)
}

func TestAnalyzer_EmptySymbol(t *testing.T) {
	_, err := newAnalyzer(t, okSources(), nil).Analyze(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptySymbol)
}

func TestAnalyzer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnalyzer(t, okSources(), nil).Analyze(ctx, "ACME")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_SaveFailureKeepsReport(t *testing.T) {
	a := newAnalyzer(t, okSources(), failingRepo{reports.NewMemoryRepository()})

	report, err := a.Analyze(context.Background(), "ACME")
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestAnalyzer_Evaluate(t *testing.T) {
	repo := reports.NewMemoryRepository()
	a := newAnalyzer(t, Sources{}, repo)

	report, err := a.Evaluate(context.Background(), scoring.Input{
		Symbol:       "acme",
		Fundamentals: &contracts.FundamentalRecord{CurrentPrice: contracts.M(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME", report.Symbol)
	assert.Equal(t, 50.0, report.CMP)

	_, err = repo.Latest(context.Background(), "ACME")
	require.NoError(t, err)
}

func TestAnalyzer_AnalyzeAll(t *testing.T) {
	var calls atomic.Int32
	sources := okSources()
	sources.Fundamentals = fundamentalsFunc(func(_ context.Context, symbol string) (*contracts.FundamentalRecord, error) {
		calls.Add(1)
		return &contracts.FundamentalRecord{CurrentPrice: contracts.M(float64(len(symbol)))}, nil
	})
	sources.Technicals = nil

	results := newAnalyzer(t, sources, nil).AnalyzeAll(context.Background(), []string{"a", "bb", "", "dddd", "eeeee", "ffffff"})
	require.Len(t, results, 6)
	assert.Equal(t, int32(5), calls.Load())

	assert.Equal(t, "A", results[0].Symbol)
	assert.Equal(t, 1.0, results[0].Report.CMP)
	assert.Equal(t, 2.0, results[1].Report.CMP)
	assert.ErrorIs(t, results[2].Err, ErrEmptySymbol)
	assert.Equal(t, 6.0, results[5].Report.CMP)
}
