package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

func headlines(sentiments ...contracts.Sentiment) []contracts.NewsItem {
	items := make([]contracts.NewsItem, len(sentiments))
	for i, s := range sentiments {
		items[i] = contracts.NewsItem{Source: "test", Title: "headline", Sentiment: s}
	}
	return items
}

func TestNewsScorer_Score(t *testing.T) {
	s := NewNewsScorer(policy.Default(), logger.Nop())

	pos, neg, neu := contracts.SentimentPositive, contracts.SentimentNegative, contracts.SentimentNeutral

	tests := []struct {
		name  string
		items []contracts.NewsItem
		total float64
		code  contracts.StatusCode
	}{
		{"no news is neutral", nil, 4, contracts.StatusNeutral},
		{"net plus one stays neutral", headlines(pos, pos, neg), 4, contracts.StatusNeutral},
		{"net plus two", headlines(pos, pos, pos, neg, neu), 5.5, contracts.StatusPositive},
		{"net minus two", headlines(neg, neg), 2.5, contracts.StatusNegative},
		{"lowercase labels count", headlines("positive", "POSITIVE"), 5.5, contracts.StatusPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, details, sentiment := s.Score(tt.items)

			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.code, sentiment.Outcome.Code)
			assert.Equal(t, details.Sum(), total)

			// the aggregate is broadcast into the proxied categories
			for _, name := range []string{"Orders / Business", "Results Performance", "Sector vs Nifty"} {
				got, ok := details.Get(name)
				assert.True(t, ok, name)
				assert.Equal(t, tt.code, got.Code, name)
			}
		})
	}
}

func TestNewsScorer_Details(t *testing.T) {
	s := NewNewsScorer(policy.Default(), logger.Nop())

	_, details, sentiment := s.Score(headlines(contracts.SentimentPositive, contracts.SentimentNegative, contracts.SentimentNegative))

	assert.Equal(t, 1, sentiment.Positive)
	assert.Equal(t, 2, sentiment.Negative)
	assert.Equal(t, []string{
		"Orders / Business", "Dividend / Buyback", "Results Performance", "Regulatory / Credit",
		"Sector vs Nifty", "Peer Comparison", "Promoter Pledge", "Management",
	}, details.Names())

	orders, _ := details.Get("Orders / Business")
	assert.Equal(t, "+1/-2", orders.Value)

	pledge, _ := details.Get("Promoter Pledge")
	assert.Equal(t, contracts.NewResult("Stable", 0.5, contracts.StatusSafe), pledge)

	assert.Equal(t, 5.5, s.MaxScore())
}
