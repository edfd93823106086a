package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/pkg/logger"
)

// DefaultMaxItems caps the merged headline list when no cap is given
const DefaultMaxItems = 10

var (
	positiveWords = []string{"gain", "jump", "surge", "rise", "profit", "high", "buy", "upgrade"}
	negativeWords = []string{"loss", "fall", "drop", "decline", "crash", "sell", "downgrade", "weak"}
)

// Feed is one headline provider
type Feed interface {
	Name() string
	FetchHeadlines(ctx context.Context, symbol string) ([]contracts.NewsItem, error)
}

// Aggregator merges feeds into one classified headline list
// ⭐ SSOT: 뉴스 감성 분류는 여기서만
type Aggregator struct {
	feeds    []Feed
	maxItems int
	logger   *logger.Logger
}

// NewAggregator creates an aggregator over feeds, queried in order.
// maxItems < 1 means DefaultMaxItems.
func NewAggregator(log *logger.Logger, maxItems int, feeds ...Feed) *Aggregator {
	if maxItems < 1 {
		maxItems = DefaultMaxItems
	}
	return &Aggregator{
		feeds:    feeds,
		maxItems: maxItems,
		logger:   log,
	}
}

// FeedNames lists the feeds in query order
func (a *Aggregator) FeedNames() []string {
	names := make([]string, len(a.feeds))
	for i, feed := range a.feeds {
		names[i] = feed.Name()
	}
	return names
}

// FetchNews queries every feed, drops repeated titles, classifies and caps the list.
// A failing feed is skipped; an error is returned only when every feed failed.
func (a *Aggregator) FetchNews(ctx context.Context, symbol string) ([]contracts.NewsItem, error) {
	var (
		merged []contracts.NewsItem
		errs   []error
	)
	seen := make(map[string]struct{})

	for _, feed := range a.feeds {
		items, err := feed.FetchHeadlines(ctx, symbol)
		if err != nil {
			a.logger.WithError(err).WithField("feed", feed.Name()).Warn("News feed failed")
			errs = append(errs, fmt.Errorf("%s: %w", feed.Name(), err))
			continue
		}

		for _, item := range items {
			if _, dup := seen[item.Title]; dup {
				continue
			}
			seen[item.Title] = struct{}{}
			merged = append(merged, item)
		}
	}

	if len(a.feeds) > 0 && len(errs) == len(a.feeds) {
		return nil, errors.Join(errs...)
	}

	if len(merged) > a.maxItems {
		merged = merged[:a.maxItems]
	}
	for i := range merged {
		merged[i].Sentiment = Classify(merged[i].Title)
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(merged),
	}).Debug("Aggregated news")

	return merged, nil
}

// Classify labels a headline by keyword. Positive words win over negative ones.
func Classify(title string) contracts.Sentiment {
	text := strings.ToLower(title)
	switch {
	case containsAny(text, positiveWords):
		return contracts.SentimentPositive
	case containsAny(text, negativeWords):
		return contracts.SentimentNegative
	default:
		return contracts.SentimentNeutral
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
