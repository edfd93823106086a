package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
)

func TestVerdictSynthesizer_LongTerm(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	tests := []struct {
		name    string
		total   float64
		verdict contracts.Verdict
		reason  string
		health  string
	}{
		{"buy at threshold", 25, contracts.VerdictBuy, "Strong Fundamentals & Technicals.", "🟢 High Quality"},
		{"hold", 20, contracts.VerdictHold, "Average metrics (20.0/35.5). Valid for watch.", "🟡 Medium Risk"},
		{"hold at threshold", 15, contracts.VerdictHold, "Average metrics (15.0/35.5). Valid for watch.", "🟡 Medium Risk"},
		{"avoid", 14.5, contracts.VerdictAvoid, "Weak scores across board.", "🔴 High Risk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := v.Synthesize(VerdictInput{TotalScore: tt.total, MaxScore: 35.5, CMP: 100})

			assert.Equal(t, tt.verdict, out.LongTermVerdict)
			assert.Equal(t, tt.reason, out.LongTermReason)
			assert.Equal(t, tt.health, out.HealthLabel)
			assert.False(t, out.RiskTriggered)
		})
	}
}

func TestVerdictSynthesizer_IsRisky(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	tests := []struct {
		name string
		f    *contracts.FundamentalRecord
		want bool
	}{
		{"nil", nil, false},
		{"absent fields", &contracts.FundamentalRecord{}, false},
		{"zero values read as one", &contracts.FundamentalRecord{OperatingCashFlow: contracts.M(0), CFOToPAT: contracts.M(0)}, false},
		{"negative ocf", &contracts.FundamentalRecord{OperatingCashFlow: contracts.M(-10)}, true},
		{"low conversion", &contracts.FundamentalRecord{CFOToPAT: contracts.M(0.49)}, true},
		{"conversion at limit", &contracts.FundamentalRecord{CFOToPAT: contracts.M(0.5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsRisky(tt.f))
		})
	}
}

func TestVerdictSynthesizer_RiskPrecedence(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	out := v.Synthesize(VerdictInput{
		Symbol:       "ACME",
		TotalScore:   33,
		MaxScore:     35.5,
		CMP:          100,
		Fundamentals: &contracts.FundamentalRecord{OperatingCashFlow: contracts.M(-1)},
	})

	assert.True(t, out.RiskTriggered)
	assert.Equal(t, contracts.VerdictAvoid, out.LongTermVerdict)
	assert.Equal(t, "🔴 High Risk (Avoid)", out.HealthLabel)
	assert.Contains(t, out.RetailConclusion, "ACME shows critical financial weakness")
	assert.Equal(t, "Bearish 🔴. No major strengths. Weaknesses: Negative Operating Cash Flow.", out.FundamentalSummary)
}

func TestVerdictSynthesizer_Swing(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	buy := v.Synthesize(VerdictInput{
		CMP: 200,
		Technicals: &contracts.TechnicalRecord{
			Close: contracts.M(200), DMA50: contracts.M(190), RSI: contracts.M(35),
			MACD: contracts.M(-1), MACDSignal: contracts.M(0),
		},
	})
	assert.Equal(t, contracts.VerdictBuy, buy.SwingVerdict)
	assert.Equal(t, "Entry: 200.0 | Tgt: 220.0 | SL: 190.0", buy.SwingAction)
	assert.Equal(t, "WATCH for support at 190; initiate Long-Term accumulation ONLY if price stabilizes.", buy.FinalAction)
	assert.Equal(t, "Bullish 🟢. Price above 50DMA (Uptrend), Bearish MACD Divergence.", buy.TechnicalSummary)

	avoid := v.Synthesize(VerdictInput{
		CMP: 50,
		Technicals: &contracts.TechnicalRecord{
			Close: contracts.M(50), DMA50: contracts.M(60), RSI: contracts.M(75),
			MACD: contracts.M(2), MACDSignal: contracts.M(1),
		},
	})
	assert.Equal(t, contracts.VerdictAvoid, avoid.SwingVerdict)
	assert.Equal(t, "Wait for reversal.", avoid.SwingAction)
	assert.Equal(t, "Bearish 🔴. Price below 50DMA (Weakness), Overbought (RSI > 70), Bullish MACD Crossover.", avoid.TechnicalSummary)
}

func TestVerdictSynthesizer_AbsentTechnicalsUseCMP(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	out := v.Synthesize(VerdictInput{CMP: 300})
	assert.Equal(t, "WATCH for support at 285; initiate Long-Term accumulation ONLY if price stabilizes.", out.FinalAction)
	assert.Equal(t, "Bearish 🔴. No technical data.", out.TechnicalSummary)
}

func TestVerdictSynthesizer_NoPrice(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	out := v.Synthesize(VerdictInput{})
	assert.Equal(t, "WAIT: no price available; re-evaluate once a quote is known.", out.FinalAction)
	assert.NotContains(t, out.FinalAction, "support at 0")
}

func TestVerdictSynthesizer_FundamentalSummary(t *testing.T) {
	v := NewVerdictSynthesizer(policy.Default())

	out := v.Synthesize(VerdictInput{
		TotalScore: 30,
		MaxScore:   35.5,
		Fundamentals: &contracts.FundamentalRecord{
			StockPE:       contracts.M(14),
			ROCE:          contracts.M(25),
			DebtToEquity:  contracts.M(0.3),
			RevenueCAGR:   contracts.M(20),
			PledgedShares: contracts.M(2),
		},
	})

	assert.Equal(t, "Bullish 🟢. Strengths: Attractive Valuation, High Capital Efficiency (ROCE > 20%), Low Debt, "+
		"Robust Revenue Growth. Weaknesses: Promoter Pledging Present.", out.FundamentalSummary)

	// absent fields produce neither strengths nor weaknesses
	empty := v.Synthesize(VerdictInput{TotalScore: 30, MaxScore: 35.5, Fundamentals: &contracts.FundamentalRecord{}})
	assert.Equal(t, "Bullish 🟢. No major strengths.", empty.FundamentalSummary)
}

func TestNewsSummary(t *testing.T) {
	assert.Equal(t, "Market sentiment is currently neutral. Check latest exchange filings for specific triggers.",
		newsSummary(NewsSentiment{Outcome: Outcome{0.5, contracts.StatusNeutral}}))
	assert.Contains(t, newsSummary(NewsSentiment{Positive: 3, Outcome: Outcome{1, contracts.StatusPositive}}), "positive (+3/-0")
	assert.Contains(t, newsSummary(NewsSentiment{Negative: 4, Outcome: Outcome{0, contracts.StatusNegative}}), "negative (+0/-4")
}
