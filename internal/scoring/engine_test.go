package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(policy.Default(), logger.Nop())
	require.NoError(t, err)
	return e
}

func fundamentals(t *testing.T, values map[string]interface{}) *contracts.FundamentalRecord {
	t.Helper()
	rec, unknown := contracts.FundamentalsFromLabels(values)
	require.Empty(t, unknown)
	return rec
}

func technicals(t *testing.T, values map[string]interface{}) *contracts.TechnicalRecord {
	t.Helper()
	rec, unknown := contracts.TechnicalsFromLabels(values)
	require.Empty(t, unknown)
	return rec
}

func detail(t *testing.T, r *contracts.ScoreReport, name string) contracts.ParameterResult {
	t.Helper()
	res, ok := r.Details.Get(name)
	require.True(t, ok, "missing detail %q", name)
	return res
}

// strongFundamentals scores the full 25 fundamental points
func strongFundamentals() map[string]interface{} {
	return map[string]interface{}{
		"Market Cap": 25000.0, "Current Price": 100.0, "Low_52": 80.0,
		"Stock P/E": 14.0, "PEG Ratio": 0.5, "EPS Trend": 10.0, "EBITDA Trend": 5.0,
		"Debt / Equity": 0.3, "Dividend Yield": 1.5, "Intrinsic Value": 150.0,
		"Current Ratio": 2.0, "Promoter Holding": 60.0, "FII/DII Change": 1.0,
		"Operating Cash Flow": 500.0, "Net Profit": 300.0, "Sales": 2000.0,
		"ROCE": 25.0, "ROE": 20.0, "Revenue CAGR": 15.0, "Profit CAGR": 15.0,
		"Interest Coverage": 10.0, "Free Cash Flow": 200.0, "Pledged Shares": 0.0,
		"Contingent Liabilities": 10.0, "Net Worth": 1000.0, "Piotroski Score": 8.0,
		"CFO to PAT": 1.5, "Price to Book": 2.0, "Industry PB": 3.0, "Book Value": 50.0,
	}
}

func strongTechnicals() map[string]interface{} {
	return map[string]interface{}{
		"Close": 100.0, "50DMA": 95.0, "200DMA": 90.0, "RSI": 55.0,
		"MACD": 2.0, "MACD_SIGNAL": 1.0, "Pivot": 98.0,
		"Volume_Trend": "Increasing", "VWAP_Trend": "Bullish",
	}
}

func TestEngine_ScenarioA(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Evaluate(Input{
		Fundamentals: fundamentals(t, map[string]interface{}{
			"Market Cap": 25000.0, "Current Price": 100.0, "Low_52": 80.0, "Stock P/E": 14.0,
			"Operating Cash Flow": 500.0, "Net Profit": 300.0, "Debt / Equity": 0.3,
			"ROCE": 18.0, "CFO to PAT": 1.2,
		}),
		Technicals: technicals(t, map[string]interface{}{
			"Close": 100.0, "50DMA": 95.0, "200DMA": 90.0, "RSI": 55.0,
			"MACD": 2.0, "MACD_SIGNAL": 1.0, "Pivot": 98.0,
		}),
	})
	require.NoError(t, err)

	mc := detail(t, report, "Market Cap")
	assert.Equal(t, "Large Cap", mc.Status)
	assert.Equal(t, 1.0, mc.Score)

	pe := detail(t, report, "P/E Ratio")
	assert.Equal(t, "Very Attractive", pe.Status)
	assert.Equal(t, contracts.StatusVeryAttractive, pe.Code)
	assert.Equal(t, 1.0, pe.Score)

	tr := detail(t, report, "Trend (DMA)")
	assert.Equal(t, "Strong Bullish", tr.Status)
	assert.Equal(t, 1.0, tr.Score)

	assert.Equal(t, contracts.VerdictBuy, report.SwingVerdict)
	assert.Equal(t, "Entry: 100.0 | Tgt: 110.0 | SL: 95.0", report.SwingAction)
	assert.Equal(t, 100.0, report.CMP)
	assert.False(t, report.RiskTriggered)
}

func TestEngine_ScenarioB_NegativeOCF(t *testing.T) {
	e := newTestEngine(t)

	values := strongFundamentals()
	values["Operating Cash Flow"] = -50.0

	report, err := e.Evaluate(Input{
		Fundamentals: fundamentals(t, values),
		Technicals:   technicals(t, strongTechnicals()),
	})
	require.NoError(t, err)

	ocf := detail(t, report, "Operating Cash Flow")
	assert.Equal(t, 0.0, ocf.Score)
	assert.Equal(t, "Negative OCF (CRITICAL)", ocf.Status)
	assert.Equal(t, contracts.StatusNegativeOCF, ocf.Code)

	assert.True(t, report.RiskTriggered)
	assert.GreaterOrEqual(t, report.TotalScore, 25.0)
	assert.Equal(t, contracts.VerdictAvoid, report.LongTermVerdict)
	assert.Equal(t, "Negative Cash Flow / Divergence (Critical Rule).", report.LongTermReason)
	assert.Contains(t, report.FundamentalSummary, "Negative Operating Cash Flow")
}

func TestEngine_ScenarioC_TechnicalsOnly(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Evaluate(Input{
		Technicals: technicals(t, map[string]interface{}{
			"Close": 50.0, "50DMA": 60.0, "200DMA": 70.0, "RSI": 75.0,
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.FundamentalScore)
	assert.Equal(t, 50.0, report.CMP)

	tr := detail(t, report, "Trend (DMA)")
	assert.Equal(t, 0.0, tr.Score)
	assert.Contains(t, tr.Status, "Bearish")

	rsi := detail(t, report, "RSI")
	assert.Equal(t, 0.0, rsi.Score)
	assert.Equal(t, "Overbought", rsi.Status)

	assert.Equal(t, 0.0, report.TechnicalScore)

	// fundamentals are still fully listed
	mc := detail(t, report, "Market Cap")
	assert.Equal(t, contracts.StatusNotAvailable, mc.Code)
}

func TestEngine_RSIBoundaries(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		rsi    float64
		score  float64
		status string
	}{
		{40, 1, "Oversold (Buy)"},
		{70, 0.5, "Neutral"},
		{70.5, 0, "Overbought"},
	}

	for _, tt := range tests {
		report, err := e.Evaluate(Input{
			Technicals: technicals(t, map[string]interface{}{
				"Close": 100.0, "50DMA": 95.0, "200DMA": 90.0, "RSI": tt.rsi,
			}),
		})
		require.NoError(t, err)

		rsi := detail(t, report, "RSI")
		assert.Equal(t, tt.score, rsi.Score, "rsi %v", tt.rsi)
		assert.Equal(t, tt.status, rsi.Status, "rsi %v", tt.rsi)
	}
}

func TestEngine_ScenarioD_LivePriceRescales(t *testing.T) {
	e := newTestEngine(t)

	fund := fundamentals(t, map[string]interface{}{
		"Current Price": 100.0, "Market Cap": 25000.0, "Stock P/E": 14.0, "Dividend Yield": 2.0,
	})
	tech := technicals(t, map[string]interface{}{
		"Live Price": 110.0, "Close": 105.0, "50DMA": 100.0, "200DMA": 90.0,
	})

	report, err := e.Evaluate(Input{Fundamentals: fund, Technicals: tech})
	require.NoError(t, err)

	assert.Equal(t, 110.0, report.CMP)
	assert.Equal(t, "27500.00", detail(t, report, "Market Cap").Value)
	assert.Equal(t, "15.40 (Ind: 0.00)", detail(t, report, "P/E Ratio").Value)
	assert.Equal(t, contracts.StatusAttractive, detail(t, report, "P/E Ratio").Code)
	assert.Equal(t, "1.82%", detail(t, report, "Dividend Yield").Value)
	assert.Equal(t, "110.00", detail(t, report, "CMP vs 52W").Value)
	assert.Equal(t, "110 vs 90", detail(t, report, "Trend (DMA)").Value)

	// caller records are untouched
	assert.Equal(t, 100.0, fund.CurrentPrice.Float())
	assert.Equal(t, 25000.0, fund.MarketCap.Float())
	assert.Equal(t, 105.0, tech.Close.Float())
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	in := Input{
		Symbol: "TCS",
		Fundamentals: fundamentals(t, map[string]interface{}{
			"Current Price": 100.0, "Market Cap": 25000.0, "Stock P/E": 14.0,
		}),
		Technicals: technicals(t, map[string]interface{}{
			"Live Price": 120.0, "Close": 118.0, "50DMA": 110.0, "200DMA": 100.0,
		}),
	}

	first, err := e.Evaluate(in)
	require.NoError(t, err)
	second, err := e.Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "30000.00", detail(t, second, "Market Cap").Value)
}

func TestEngine_DegenerateInput(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Evaluate(Input{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.CMP)
	assert.Equal(t, 0.0, report.FundamentalScore)
	assert.Equal(t, 0.0, report.TechnicalScore)
	assert.Equal(t, 4.0, report.NewsScore)
	assert.Equal(t, report.NewsScore, report.TotalScore)
	assert.Len(t, report.Details, 26+8)
	assert.Equal(t, contracts.VerdictAvoid, report.LongTermVerdict)
	assert.False(t, report.RiskTriggered)
	assert.Equal(t, "Bearish 🔴. No technical data.", report.TechnicalSummary)
}

func TestEngine_IncompleteTechnicals(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Evaluate(Input{
		Technicals: technicals(t, map[string]interface{}{"RSI": 55.0}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteTechnicals))
	assert.Contains(t, err.Error(), "close")

	// close is supplied by the reconciled price
	_, err = e.Evaluate(Input{
		Fundamentals: fundamentals(t, map[string]interface{}{"Current Price": 100.0}),
		Technicals:   technicals(t, map[string]interface{}{"50DMA": 95.0, "200DMA": "abc"}),
	})
	require.ErrorIs(t, err, ErrIncompleteTechnicals)
	assert.Contains(t, err.Error(), "dma_200")
	assert.NotContains(t, err.Error(), "close")
}

func TestEngine_EmptyTechnicalsAreAbsent(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Evaluate(Input{
		Fundamentals: fundamentals(t, strongFundamentals()),
		Technicals:   &contracts.TechnicalRecord{},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.TechnicalScore)
	_, ok := report.Details.Get("Trend (DMA)")
	assert.False(t, ok)
}

func TestEngine_ScoreConsistency(t *testing.T) {
	e := newTestEngine(t)

	malformed := strongFundamentals()
	malformed["ROCE"] = "abc"
	malformed["Stock P/E"] = "--x"

	inputs := map[string]Input{
		"strong":    {Fundamentals: fundamentals(t, strongFundamentals()), Technicals: technicals(t, strongTechnicals())},
		"empty":     {},
		"sparse":    {Fundamentals: &contracts.FundamentalRecord{}},
		"malformed": {Fundamentals: fundamentals(t, malformed)},
		"news": {News: []contracts.NewsItem{
			{Title: "a", Sentiment: contracts.SentimentNegative},
			{Title: "b", Sentiment: contracts.SentimentNegative},
		}},
	}

	allowed := map[float64]bool{0: true, 0.5: true, 1: true}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			report, err := e.Evaluate(in)
			require.NoError(t, err)

			for _, entry := range report.Details {
				assert.True(t, allowed[entry.Result.Score], "%s score %v", entry.Name, entry.Result.Score)
			}

			assert.Equal(t, report.FundamentalScore+report.TechnicalScore+report.NewsScore, report.TotalScore)
			assert.InDelta(t, report.Details.Sum(), report.TotalScore, 1e-9)
			assert.LessOrEqual(t, report.TotalScore, report.MaxScore)
		})
	}
}

func TestEngine_MalformedDegradesToNA(t *testing.T) {
	e := newTestEngine(t)

	values := strongFundamentals()
	values["ROCE"] = "abc"

	report, err := e.Evaluate(Input{Fundamentals: fundamentals(t, values)})
	require.NoError(t, err)

	roce := detail(t, report, "ROCE")
	assert.Equal(t, contracts.NotAvailable(), roce)
}

func TestEngine_ROCEMonotonic(t *testing.T) {
	e := newTestEngine(t)

	for _, base := range []map[string]interface{}{strongFundamentals(), {}, {"Market Cap": 600.0}} {
		low, high := copyValues(base), copyValues(base)
		low["ROCE"] = 10.0
		high["ROCE"] = 20.0

		lowReport, err := e.Evaluate(Input{Fundamentals: fundamentals(t, low)})
		require.NoError(t, err)
		highReport, err := e.Evaluate(Input{Fundamentals: fundamentals(t, high)})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, highReport.FundamentalScore, lowReport.FundamentalScore)
	}
}

func TestEngine_RiskOverridesScore(t *testing.T) {
	e := newTestEngine(t)

	values := strongFundamentals()
	values["CFO to PAT"] = 0.4

	report, err := e.Evaluate(Input{
		Fundamentals: fundamentals(t, values),
		Technicals:   technicals(t, strongTechnicals()),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.TotalScore, 25.0)
	assert.True(t, report.RiskTriggered)
	assert.Equal(t, contracts.VerdictAvoid, report.LongTermVerdict)
}

func TestEngine_StrongBuy(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Evaluate(Input{
		Symbol:       "INFY",
		Fundamentals: fundamentals(t, strongFundamentals()),
		Technicals:   technicals(t, strongTechnicals()),
	})
	require.NoError(t, err)

	assert.Equal(t, 25.0, report.FundamentalScore)
	assert.Equal(t, 4.5, report.TechnicalScore)
	assert.Equal(t, 4.0, report.NewsScore)
	assert.Equal(t, 33.5, report.TotalScore)
	assert.Equal(t, contracts.VerdictBuy, report.LongTermVerdict)
	assert.Equal(t, "🟢 High Quality", report.HealthLabel)
	assert.Equal(t, "INFY", report.Symbol)
	assert.Equal(t, e.PolicyHash(), report.PolicyHash)
}

func TestEngine_MaxScore(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 35.5, e.MaxScore())
}

func TestNewEngine_RejectsInvalidPolicy(t *testing.T) {
	p := policy.Default()
	p.Verdict.HoldScore = 40

	_, err := NewEngine(p, logger.Nop())
	require.Error(t, err)

	var ve policy.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func copyValues(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
