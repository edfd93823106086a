package scoring

import (
	"fmt"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

// Input is one evaluation request. Every record is optional.
type Input struct {
	Symbol       string
	Fundamentals *contracts.FundamentalRecord
	Technicals   *contracts.TechnicalRecord
	News         []contracts.NewsItem
}

// Engine runs reconcile → score → synthesize
// ⭐ 상태 없음: 동일 입력 → 동일 리포트, 동시 호출 안전
type Engine struct {
	policy     *policy.Policy
	policyHash string

	reconciler   *Reconciler
	fundamentals *FundamentalScorer
	technicals   *TechnicalScorer
	news         *NewsScorer
	verdicts     *VerdictSynthesizer

	logger *logger.Logger
}

// NewEngine validates the policy and builds the scorers
func NewEngine(p *policy.Policy, log *logger.Logger) (*Engine, error) {
	if p == nil {
		p = policy.Default()
	}
	if err := policy.Validate(p); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	hash, err := policy.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("hash policy: %w", err)
	}

	return &Engine{
		policy:       p,
		policyHash:   hash,
		reconciler:   NewReconciler(p.Reconcile.PriceTolerance),
		fundamentals: NewFundamentalScorer(p, log),
		technicals:   NewTechnicalScorer(p, log),
		news:         NewNewsScorer(p, log),
		verdicts:     NewVerdictSynthesizer(p),
		logger:       log,
	}, nil
}

// Policy returns the policy the engine was built with
func (e *Engine) Policy() *policy.Policy {
	return e.policy
}

// PolicyHash returns the fingerprint stamped on every report
func (e *Engine) PolicyHash() string {
	return e.policyHash
}

// MaxScore is the best attainable total under the policy
func (e *Engine) MaxScore() float64 {
	return e.fundamentals.MaxScore() + e.technicals.MaxScore() + e.news.MaxScore()
}

// Evaluate scores one security.
// The only error is ErrIncompleteTechnicals; business outcomes are statuses.
func (e *Engine) Evaluate(in Input) (*contracts.ScoreReport, error) {
	resolved := e.reconciler.Reconcile(in.Fundamentals, in.Technicals)

	tScore, tDetails, err := e.technicals.Score(resolved.Technicals)
	if err != nil {
		return nil, err
	}

	fScore, fDetails := e.fundamentals.Score(resolved.Fundamentals)
	nScore, nDetails, sentiment := e.news.Score(in.News)

	details := make(contracts.Details, 0, len(fDetails)+len(tDetails)+len(nDetails))
	details.Merge(fDetails)
	details.Merge(tDetails)
	details.Merge(nDetails)

	total := fScore + tScore + nScore
	maxScore := e.MaxScore()

	v := e.verdicts.Synthesize(VerdictInput{
		Symbol:       in.Symbol,
		TotalScore:   total,
		MaxScore:     maxScore,
		CMP:          resolved.CMP,
		Fundamentals: resolved.Fundamentals,
		Technicals:   resolved.Technicals,
		News:         sentiment,
	})

	report := &contracts.ScoreReport{
		Symbol:             in.Symbol,
		CMP:                resolved.CMP,
		FundamentalScore:   fScore,
		TechnicalScore:     tScore,
		NewsScore:          nScore,
		TotalScore:         total,
		MaxScore:           maxScore,
		Details:            details,
		SwingVerdict:       v.SwingVerdict,
		SwingAction:        v.SwingAction,
		LongTermVerdict:    v.LongTermVerdict,
		LongTermReason:     v.LongTermReason,
		FinalAction:        v.FinalAction,
		HealthLabel:        v.HealthLabel,
		RiskTriggered:      v.RiskTriggered,
		FundamentalSummary: v.FundamentalSummary,
		TechnicalSummary:   v.TechnicalSummary,
		NewsSummary:        v.NewsSummary,
		RetailConclusion:   v.RetailConclusion,
		PolicyHash:         e.policyHash,
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":    in.Symbol,
		"cmp":       resolved.CMP,
		"rescaled":  resolved.Rescaled,
		"total":     total,
		"long_term": v.LongTermVerdict,
		"swing":     v.SwingVerdict,
		"risk":      v.RiskTriggered,
	}).Info("Evaluated security")

	return report, nil
}
