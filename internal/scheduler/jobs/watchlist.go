package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/scorecard/internal/analyzer"
	"github.com/wonny/scorecard/pkg/logger"
)

// WatchlistJob re-analyzes the configured watchlist
// Schedule: SCHEDULE_CRON (default weekdays 4:30 PM, after NSE close)
type WatchlistJob struct {
	analyzer *analyzer.Analyzer
	symbols  []string
	schedule string
	logger   *logger.Logger
}

// NewWatchlistJob creates a new watchlist job
func NewWatchlistJob(a *analyzer.Analyzer, symbols []string, schedule string, log *logger.Logger) *WatchlistJob {
	return &WatchlistJob{
		analyzer: a,
		symbols:  symbols,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchlistJob) Name() string {
	return "watchlist_evaluation"
}

// Schedule returns the cron schedule (with seconds)
func (j *WatchlistJob) Schedule() string {
	return j.schedule
}

// Run analyzes every symbol. It fails only when no symbol could be analyzed,
// so one bad ticker does not trigger a retry of the whole list.
func (j *WatchlistJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Info("Watchlist is empty, skipping")
		return nil
	}

	j.logger.WithField("symbols", len(j.symbols)).Info("Starting watchlist evaluation")

	var (
		errs []error
		buys int
	)
	for _, res := range j.analyzer.AnalyzeAll(ctx, j.symbols) {
		if res.Err != nil {
			j.logger.WithError(res.Err).WithField("symbol", res.Symbol).Warn("Watchlist symbol failed")
			errs = append(errs, fmt.Errorf("%s: %w", res.Symbol, res.Err))
			continue
		}
		if res.Report.IsBuy() {
			buys++
		}

		j.logger.WithFields(map[string]interface{}{
			"symbol":    res.Symbol,
			"total":     res.Report.TotalScore,
			"long_term": res.Report.LongTermVerdict,
			"swing":     res.Report.SwingVerdict,
			"risk":      res.Report.RiskTriggered,
		}).Info("Watchlist symbol evaluated")
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.symbols),
		"failed": len(errs),
		"buy":    buys,
	}).Info("Watchlist evaluation completed")

	if len(errs) == len(j.symbols) {
		return fmt.Errorf("watchlist evaluation failed: %w", errors.Join(errs...))
	}
	return nil
}
