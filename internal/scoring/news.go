package scoring

import (
	"fmt"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

// NewsSentiment is the aggregate tone of the headline set
type NewsSentiment struct {
	Positive int
	Negative int
	Outcome  Outcome
}

// NewsScorer turns headline sentiment into the news parameters.
// One aggregate outcome stands in for every category without its own signal.
type NewsScorer struct {
	sentiment Rule[NewsSentiment]
	logger    *logger.Logger
}

// NewNewsScorer creates a news scorer
func NewNewsScorer(p *policy.Policy, log *logger.Logger) *NewsScorer {
	th := p.News.NetThreshold
	return &NewsScorer{
		sentiment: Rule[NewsSentiment]{
			Name: "Sentiment",
			Bands: []Band{
				{GT, th, Outcome{1, contracts.StatusPositive}},
				{LT, -th, Outcome{0, contracts.StatusNegative}},
			},
			Otherwise: Outcome{0.5, contracts.StatusNeutral},
		},
		logger: log,
	}
}

// proxied parameters carry the aggregate outcome; the rest are fixed stubs
var newsStubs = map[string]struct {
	value string
	code  contracts.StatusCode
}{
	"Dividend / Buyback":  {"Check News", contracts.StatusNeutral},
	"Regulatory / Credit": {"Stable", contracts.StatusNeutral},
	"Peer Comparison":     {"Fair", contracts.StatusNeutral},
	"Promoter Pledge":     {"Stable", contracts.StatusSafe},
	"Management":          {"Stable", contracts.StatusSafe},
}

const newsStubScore = 0.5

// Score aggregates sentiment over items (empty is neutral)
func (s *NewsScorer) Score(items []contracts.NewsItem) (float64, contracts.Details, NewsSentiment) {
	ns := NewsSentiment{}
	for _, item := range items {
		switch contracts.ParseSentiment(string(item.Sentiment)) {
		case contracts.SentimentPositive:
			ns.Positive++
		case contracts.SentimentNegative:
			ns.Negative++
		}
	}
	ns.Outcome = s.sentiment.Classify(float64(ns.Positive - ns.Negative))

	proxy := func(value string) contracts.ParameterResult {
		return contracts.NewResult(value, ns.Outcome.Score, ns.Outcome.Code)
	}
	stub := func(name string) contracts.ParameterResult {
		st := newsStubs[name]
		return contracts.NewResult(st.value, newsStubScore, st.code)
	}

	details := contracts.Details{}
	details.Set("Orders / Business", proxy(fmt.Sprintf("+%d/-%d", ns.Positive, ns.Negative)))
	details.Set("Dividend / Buyback", stub("Dividend / Buyback"))
	details.Set("Results Performance", proxy("News Sentiment"))
	details.Set("Regulatory / Credit", stub("Regulatory / Credit"))
	details.Set("Sector vs Nifty", proxy("Trend"))
	details.Set("Peer Comparison", stub("Peer Comparison"))
	details.Set("Promoter Pledge", stub("Promoter Pledge"))
	details.Set("Management", stub("Management"))

	total := details.Sum()

	s.logger.WithFields(map[string]interface{}{
		"items":    len(items),
		"positive": ns.Positive,
		"negative": ns.Negative,
		"score":    total,
	}).Debug("Scored news")

	return total, details, ns
}

// MaxScore is the best attainable news subtotal
func (s *NewsScorer) MaxScore() float64 {
	return 3*s.sentiment.MaxScore() + float64(len(newsStubs))*newsStubScore
}
