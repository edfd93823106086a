package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

// ErrIncompleteTechnicals is returned when a non-empty technical record
// lacks a field the technical parameters cannot do without
var ErrIncompleteTechnicals = errors.New("incomplete technical record")

type technical = contracts.TechnicalRecord

// TechnicalScorer evaluates trend, momentum, pivot and volume parameters
// ⭐ SSOT: 기술적 점수 계산은 여기서만
type TechnicalScorer struct {
	params []Parameter[technical]
	logger *logger.Logger
}

// NewTechnicalScorer builds the parameter table from policy
func NewTechnicalScorer(p *policy.Policy, log *logger.Logger) *TechnicalScorer {
	return &TechnicalScorer{
		params: technicalParams(p.Technical),
		logger: log,
	}
}

// Score evaluates the technical parameters.
// An absent or empty record scores (0, no details).
func (s *TechnicalScorer) Score(rec *contracts.TechnicalRecord) (float64, contracts.Details, error) {
	if rec.IsEmpty() {
		return 0, contracts.Details{}, nil
	}

	if missing := MissingTechnicals(rec); len(missing) > 0 {
		return 0, nil, fmt.Errorf("%w: missing %s", ErrIncompleteTechnicals, strings.Join(missing, ", "))
	}

	total, details := run(s.params, rec)

	s.logger.WithFields(map[string]interface{}{
		"close": rec.Close.Float(),
		"rsi":   rec.RSI.Float(),
		"score": total,
	}).Debug("Scored technicals")

	return total, details, nil
}

// MaxScore is the best attainable technical subtotal
func (s *TechnicalScorer) MaxScore() float64 {
	return maxScore(s.params)
}

// MissingTechnicals lists the trend fields that are absent or malformed.
// Other indicators degrade to N/A on their own.
func MissingTechnicals(rec *contracts.TechnicalRecord) []string {
	required := []struct {
		name string
		m    contracts.Metric
	}{
		{"close", rec.Close},
		{"dma_50", rec.DMA50},
		{"dma_200", rec.DMA200},
	}

	var missing []string
	for _, f := range required {
		if !f.m.Valid() {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func technicalParams(t policy.Technical) []Parameter[technical] {
	return []Parameter[technical]{
		trend(),
		Rule[technical]{
			Name:    "RSI",
			Field:   func(r *technical) contracts.Metric { return r.RSI },
			Default: t.RSIDefault,
			Bands: []Band{
				{LTE, t.RSIOversoldMax, Outcome{1, contracts.StatusOversoldBuy}},
				{LTE, t.RSIOverboughtMin, Outcome{0.5, contracts.StatusNeutral}},
			},
			Otherwise: Outcome{0, contracts.StatusOverbought},
			Format:    fixed1,
		}.Parameter(),
		{
			Name: "MACD",
			Max:  1,
			Evaluate: func(r *technical) contracts.ParameterResult {
				if !r.MACD.Valid() || !r.MACDSignal.Valid() {
					return contracts.NotAvailable()
				}
				value := fixed2(r.MACD.Float())
				if r.MACD.Float() > r.MACDSignal.Float() {
					return contracts.NewResult(value, 1, contracts.StatusBullish)
				}
				return contracts.NewResult(value, 0, contracts.StatusBearish)
			},
		},
		{
			Name: "Pivot Support",
			Max:  1,
			Evaluate: func(r *technical) contracts.ParameterResult {
				if !r.Pivot.Valid() {
					return contracts.NotAvailable()
				}
				value := fixed1(r.Pivot.Float())
				if r.Close.Float() > r.Pivot.Float() {
					return contracts.NewResult(value, 1, contracts.StatusAbovePivot)
				}
				return contracts.NewResult(value, 0, contracts.StatusBelowPivot)
			},
		},
		volumeTrend(),
	}
}

// trend reads the moving-average ribbon
func trend() Parameter[technical] {
	return Parameter[technical]{
		Name: "Trend (DMA)",
		Max:  1,
		Evaluate: func(r *technical) contracts.ParameterResult {
			closePx, dma50, dma200 := r.Close.Float(), r.DMA50.Float(), r.DMA200.Float()
			value := fmt.Sprintf("%.0f vs %.0f", closePx, dma200)

			switch {
			case closePx > dma50 && dma50 > dma200:
				return contracts.NewResult(value, 1, contracts.StatusStrongBullish)
			case closePx < dma50 && dma50 < dma200:
				return contracts.NewResult(value, 0, contracts.StatusFallingKnife)
			case closePx > dma200:
				return contracts.NewResult(value, 0.5, contracts.StatusBullish200)
			default:
				return contracts.NewResult(value, 0, contracts.StatusBearish)
			}
		},
	}
}

// volumeTrend scores the VWAP-proxy label and shows the volume label
func volumeTrend() Parameter[technical] {
	return Parameter[technical]{
		Name: "Volume Trend",
		Max:  1,
		Evaluate: func(r *technical) contracts.ParameterResult {
			value := r.VolumeTrend
			if value == "" {
				value = "N/A"
			}

			switch {
			case strings.EqualFold(r.VWAPTrend, "Bullish"):
				return contracts.NewResult(value, 1, contracts.StatusBullish)
			case r.VWAPTrend == "":
				return contracts.NewResult(value, 0, contracts.StatusNotAvailable)
			default:
				return contracts.NewResult(value, 0, contracts.StatusBearish)
			}
		},
	}
}
