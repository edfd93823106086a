package commands

import (
	"context"
	"fmt"

	"github.com/wonny/scorecard/internal/analyzer"
	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/external/gnews"
	"github.com/wonny/scorecard/internal/external/marketaux"
	"github.com/wonny/scorecard/internal/external/newsapi"
	"github.com/wonny/scorecard/internal/external/screener"
	"github.com/wonny/scorecard/internal/external/yahoo"
	"github.com/wonny/scorecard/internal/indicators"
	"github.com/wonny/scorecard/internal/news"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/internal/reports"
	"github.com/wonny/scorecard/internal/scoring"
	"github.com/wonny/scorecard/pkg/config"
	"github.com/wonny/scorecard/pkg/database"
	"github.com/wonny/scorecard/pkg/httputil"
	"github.com/wonny/scorecard/pkg/logger"
)

// newEngine builds the evaluation engine from the configured policy
func newEngine(cfg *config.Config, log *logger.Logger) (*scoring.Engine, error) {
	p, err := policy.LoadOrDefault(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	for _, w := range policy.Warn(p) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	engine, err := scoring.NewEngine(p, log)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"policy_id":   p.Meta.PolicyID,
		"policy_hash": engine.PolicyHash(),
		"max_score":   engine.MaxScore(),
	}).Debug("Scoring engine ready")

	return engine, nil
}

// newSources wires the live data providers. MarketAux and NewsAPI join the
// news feeds only when their keys are set; Google News is always queried last.
func newSources(cfg *config.Config, log *logger.Logger, newsMaxItems int) analyzer.Sources {
	httpClient := httputil.New(cfg, log)

	var feeds []news.Feed
	if cfg.Sources.MarketAuxAPIToken != "" {
		feeds = append(feeds, marketaux.NewClient(httpClient, log, cfg.Sources.MarketAuxBaseURL, cfg.Sources.MarketAuxAPIToken))
	}
	if cfg.Sources.NewsAPIKey != "" {
		feeds = append(feeds, newsapi.NewClient(httpClient, log, cfg.Sources.NewsAPIBaseURL, cfg.Sources.NewsAPIKey))
	}
	feeds = append(feeds, gnews.NewClient(httpClient, log, cfg.Sources.GoogleNewsBaseURL))

	return analyzer.Sources{
		Fundamentals: screener.NewClient(httpClient, log, cfg.Sources.ScreenerBaseURL),
		Technicals:   yahoo.NewClient(httpClient, indicators.NewCalculator(log), log, cfg.Sources.YahooBaseURL),
		News:         news.NewAggregator(log, newsMaxItems, feeds...),
	}
}

// newAnalyzer wires engine and sources; repo may be nil
func newAnalyzer(cfg *config.Config, log *logger.Logger, repo contracts.ReportRepository) (*analyzer.Analyzer, error) {
	engine, err := newEngine(cfg, log)
	if err != nil {
		return nil, err
	}
	return analyzer.New(engine, newSources(cfg, log, engine.Policy().News.MaxItems), repo, log), nil
}

// openReports returns the Postgres repository when DATABASE_URL is set.
// Without a database it returns fallback, which may be nil.
func openReports(ctx context.Context, cfg *config.Config, log *logger.Logger, fallback contracts.ReportRepository) (contracts.ReportRepository, func(), error) {
	if !cfg.Database.Enabled() {
		log.Info("DATABASE_URL not set, reports are not persisted to Postgres")
		return fallback, func() {}, nil
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := reports.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Info("Connected to database")
	return repo, db.Close, nil
}
