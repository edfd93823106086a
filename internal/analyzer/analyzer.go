package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/scoring"
	"github.com/wonny/scorecard/pkg/logger"
)

// ErrEmptySymbol is returned for a blank symbol
var ErrEmptySymbol = errors.New("symbol is required")

// batchParallelism bounds concurrent symbols in AnalyzeAll
const batchParallelism = 4

// Analyzer fetches evidence, evaluates it and records the report
// ⭐ SSOT: 종목 분석 파이프라인 조율은 여기서만
type Analyzer struct {
	engine *scoring.Engine

	// Optional collaborators: nil means the stream is absent
	fundamentals contracts.FundamentalSource
	technicals   contracts.TechnicalSource
	news         contracts.NewsSource
	reports      contracts.ReportRepository

	now    func() time.Time
	logger *logger.Logger
}

// Sources groups the evidence providers
type Sources struct {
	Fundamentals contracts.FundamentalSource
	Technicals   contracts.TechnicalSource
	News         contracts.NewsSource
}

// Result is the outcome for one symbol of a batch
type Result struct {
	Symbol string
	Report *contracts.ScoreReport
	Err    error
}

// New creates a new analyzer. reports may be nil to disable persistence.
func New(engine *scoring.Engine, sources Sources, reports contracts.ReportRepository, log *logger.Logger) *Analyzer {
	return &Analyzer{
		engine:       engine,
		fundamentals: sources.Fundamentals,
		technicals:   sources.Technicals,
		news:         sources.News,
		reports:      reports,
		now:          time.Now,
		logger:       log,
	}
}

// Engine exposes the evaluation engine
func (a *Analyzer) Engine() *scoring.Engine {
	return a.engine
}

// Analyze fetches the three streams in parallel and evaluates them.
// A failing source degrades to an absent (or empty) stream.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*contracts.ScoreReport, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	startTime := time.Now()
	in := scoring.Input{Symbol: symbol}

	var g errgroup.Group

	if a.fundamentals != nil {
		g.Go(func() error {
			rec, err := a.fundamentals.FetchFundamentals(ctx, symbol)
			if err != nil {
				a.warnSource(symbol, "fundamentals", err)
				return nil
			}
			in.Fundamentals = rec
			return nil
		})
	}

	if a.technicals != nil {
		g.Go(func() error {
			rec, err := a.technicals.FetchTechnicals(ctx, symbol)
			if err != nil {
				a.warnSource(symbol, "technicals", err)
				return nil
			}
			in.Technicals = rec
			return nil
		})
	}

	if a.news != nil {
		g.Go(func() error {
			items, err := a.news.FetchNews(ctx, symbol)
			if err != nil {
				a.warnSource(symbol, "news", err)
				return nil
			}
			in.News = items
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	report, err := a.Evaluate(ctx, in)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"duration": time.Since(startTime),
		"news":     len(in.News),
	}).Info("Analysis completed")

	return report, nil
}

// Evaluate scores caller-supplied records, stamps and persists the report.
// A persistence failure is logged; the report is still returned.
func (a *Analyzer) Evaluate(ctx context.Context, in scoring.Input) (*contracts.ScoreReport, error) {
	in.Symbol = NormalizeSymbol(in.Symbol)

	report, err := a.engine.Evaluate(in)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", in.Symbol, err)
	}
	report.EvaluatedAt = a.now().UTC()

	if a.reports != nil && in.Symbol != "" {
		if err := a.reports.Save(ctx, report); err != nil {
			a.logger.WithError(err).WithField("symbol", in.Symbol).Error("Failed to save report")
		}
	}

	return report, nil
}

// AnalyzeAll analyzes symbols with bounded parallelism, preserving order
func (a *Analyzer) AnalyzeAll(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))

	var g errgroup.Group
	g.SetLimit(batchParallelism)

	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			report, err := a.Analyze(ctx, symbol)
			results[i] = Result{Symbol: NormalizeSymbol(symbol), Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Analyzer) warnSource(symbol, stream string, err error) {
	a.logger.WithError(err).WithFields(map[string]interface{}{
		"symbol": symbol,
		"stream": stream,
	}).Warn("Source failed, treating stream as absent")
}

// NormalizeSymbol trims and upper-cases an exchange symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
