package scoring

import (
	"fmt"
	"strings"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
)

// Verdicts are the synthesized recommendation fields of a report
type Verdicts struct {
	SwingVerdict       contracts.Verdict
	SwingAction        string
	LongTermVerdict    contracts.Verdict
	LongTermReason     string
	FinalAction        string
	HealthLabel        string
	RiskTriggered      bool
	FundamentalSummary string
	TechnicalSummary   string
	NewsSummary        string
	RetailConclusion   string
}

// VerdictInput is everything the synthesizer reads
type VerdictInput struct {
	Symbol       string
	TotalScore   float64
	MaxScore     float64
	CMP          float64
	Fundamentals *contracts.FundamentalRecord // reconciled, may be nil
	Technicals   *contracts.TechnicalRecord   // reconciled, may be nil
	News         NewsSentiment
}

// VerdictSynthesizer derives the risk check, swing and long-term verdicts
type VerdictSynthesizer struct {
	policy policy.Verdict
	rsi    policy.Technical
}

// NewVerdictSynthesizer creates a synthesizer
func NewVerdictSynthesizer(p *policy.Policy) *VerdictSynthesizer {
	return &VerdictSynthesizer{
		policy: p.Verdict,
		rsi:    p.Technical,
	}
}

// IsRisky applies the critical cash-flow rule.
// Absent or zero OCF and CFO/PAT read as 1, which is never risky.
func (v *VerdictSynthesizer) IsRisky(f *contracts.FundamentalRecord) bool {
	if f == nil {
		return false
	}
	ocf := nonZeroOr(f.OperatingCashFlow, 1)
	cfoPat := nonZeroOr(f.CFOToPAT, 1)
	return ocf < 0 || cfoPat < v.policy.RiskCFOToPATMin
}

// Synthesize builds the verdict set
func (v *VerdictSynthesizer) Synthesize(in VerdictInput) Verdicts {
	f := in.Fundamentals
	if f == nil {
		f = &contracts.FundamentalRecord{}
	}
	tech := readTechnicals(in.Technicals, in.CMP, v.rsi.RSIDefault)

	out := Verdicts{RiskTriggered: v.IsRisky(f)}

	// === Swing ===
	sw := v.policy.Swing
	signals := 0
	if tech.close > tech.dma50 {
		signals++
	}
	if tech.macd > tech.signal {
		signals++
	}
	if tech.rsi < sw.RSIBelow {
		signals++
	}

	if signals >= sw.SignalsRequired {
		out.SwingVerdict = contracts.VerdictBuy
		out.SwingAction = fmt.Sprintf("Entry: %.1f | Tgt: %.1f | SL: %.1f",
			tech.close, tech.close*sw.TargetMultiplier, tech.close*sw.StopLossMultiplier)
	} else {
		out.SwingVerdict = contracts.VerdictAvoid
		out.SwingAction = "Wait for reversal."
	}

	// === Long term (strict priority) ===
	fundText := v.fundamentalText(f)
	switch {
	case out.RiskTriggered:
		out.LongTermVerdict = contracts.VerdictAvoid
		out.LongTermReason = "Negative Cash Flow / Divergence (Critical Rule)."
		out.HealthLabel = "🔴 High Risk (Avoid)"
		out.RetailConclusion = fmt.Sprintf("%s shows critical financial weakness with negative cash flows. "+
			"Despite any other positives, this is a distinct 'Red Flag'. Capital preservation is priority; look elsewhere.",
			subject(in.Symbol))
		out.FundamentalSummary = "Bearish 🔴. " + fundText
	case in.TotalScore >= v.policy.BuyScore:
		out.LongTermVerdict = contracts.VerdictBuy
		out.LongTermReason = "Strong Fundamentals & Technicals."
		out.HealthLabel = "🟢 High Quality"
		out.RetailConclusion = "A stellar compounding candidate. The company exhibits high efficiency, low leverage, " +
			"and price momentum. Ideal for long-term allocation, and swing traders can ride the trend."
		out.FundamentalSummary = "Bullish 🟢. " + fundText
	case in.TotalScore >= v.policy.HoldScore:
		out.LongTermVerdict = contracts.VerdictHold
		out.LongTermReason = fmt.Sprintf("Average metrics (%.1f/%g). Valid for watch.", in.TotalScore, in.MaxScore)
		out.HealthLabel = "🟡 Medium Risk"
		out.RetailConclusion = "The company is fundamentally sound but lacks a convincing edge right now. " +
			"It falls into the 'Wait and Watch' category. Accumulate only if you have high conviction in the sector."
		out.FundamentalSummary = "Neutral 🟡. " + fundText
	default:
		out.LongTermVerdict = contracts.VerdictAvoid
		out.LongTermReason = "Weak scores across board."
		out.HealthLabel = "🔴 High Risk"
		out.RetailConclusion = "Avoid this stock. The combination of weak fundamentals and bearish technicals " +
			"makes it a wealth destroyer. Do not attempt to bottom fish."
		out.FundamentalSummary = "Bearish 🔴. " + fundText
	}

	if tech.close > 0 {
		out.FinalAction = fmt.Sprintf("WATCH for support at %.0f; initiate Long-Term accumulation ONLY if price stabilizes.",
			tech.close*v.policy.WatchMultiplier)
	} else {
		out.FinalAction = "WAIT: no price available; re-evaluate once a quote is known."
	}

	techText := v.technicalText(tech, in.Technicals != nil)
	if out.SwingVerdict == contracts.VerdictBuy {
		out.TechnicalSummary = "Bullish 🟢. " + techText
	} else {
		out.TechnicalSummary = "Bearish 🔴. " + techText
	}

	out.NewsSummary = newsSummary(in.News)

	return out
}

// fundamentalText lists strengths and weaknesses from the fields that are present
func (v *VerdictSynthesizer) fundamentalText(f *contracts.FundamentalRecord) string {
	s := v.policy.Summary
	var pros, cons []string

	if pe := f.StockPE; pe.Valid() {
		if pe.Float() > 0 && pe.Float() < s.AttractivePEMax {
			pros = append(pros, "Attractive Valuation")
		}
		if pe.Float() > s.ExpensivePEMin {
			cons = append(cons, "Expensive Valuation")
		}
	}
	if roce := f.ROCE; roce.Valid() {
		if roce.Float() > s.HighROCEMin {
			pros = append(pros, fmt.Sprintf("High Capital Efficiency (ROCE > %g%%)", s.HighROCEMin))
		}
		if roce.Float() < s.LowROCEMax {
			cons = append(cons, "Low Efficiency")
		}
	}
	if debt := f.DebtToEquity; debt.Valid() {
		if debt.Float() < s.LowDebtMax {
			pros = append(pros, "Low Debt")
		}
		if debt.Float() > s.HighDebtMin {
			cons = append(cons, "High Leverage")
		}
	}
	if growth := f.RevenueCAGR; growth.Valid() && growth.Float() > s.RobustGrowthMin {
		pros = append(pros, "Robust Revenue Growth")
	}
	if pledge := f.PledgedShares; pledge.Valid() && pledge.Float() > 0 {
		cons = append(cons, "Promoter Pledging Present")
	}
	if ocf := f.OperatingCashFlow; ocf.Valid() && ocf.Float() < 0 {
		cons = append(cons, "Negative Operating Cash Flow")
	}

	text := "No major strengths."
	if len(pros) > 0 {
		text = "Strengths: " + strings.Join(pros, ", ") + "."
	}
	if len(cons) > 0 {
		text += " Weaknesses: " + strings.Join(cons, ", ") + "."
	}
	return text
}

func (v *VerdictSynthesizer) technicalText(t techView, present bool) string {
	if !present {
		return "No technical data."
	}

	s := v.policy.Summary
	var signals []string

	if t.close > t.dma50 {
		signals = append(signals, "Price above 50DMA (Uptrend)")
	} else {
		signals = append(signals, "Price below 50DMA (Weakness)")
	}

	if t.rsi < s.RSIOversoldBelow {
		signals = append(signals, fmt.Sprintf("Oversold (RSI < %g)", s.RSIOversoldBelow))
	} else if t.rsi > s.RSIOverboughtAbove {
		signals = append(signals, fmt.Sprintf("Overbought (RSI > %g)", s.RSIOverboughtAbove))
	}

	if t.macd > t.signal {
		signals = append(signals, "Bullish MACD Crossover")
	} else {
		signals = append(signals, "Bearish MACD Divergence")
	}

	return strings.Join(signals, ", ") + "."
}

func newsSummary(ns NewsSentiment) string {
	switch ns.Outcome.Code {
	case contracts.StatusPositive:
		return fmt.Sprintf("Market sentiment is positive (+%d/-%d headlines). Confirm with exchange filings before acting.",
			ns.Positive, ns.Negative)
	case contracts.StatusNegative:
		return fmt.Sprintf("Market sentiment is negative (+%d/-%d headlines). Check latest exchange filings for specific triggers.",
			ns.Positive, ns.Negative)
	default:
		return "Market sentiment is currently neutral. Check latest exchange filings for specific triggers."
	}
}

// techView is the technical snapshot with verdict defaults applied
type techView struct {
	close, dma50, rsi, macd, signal float64
}

// readTechnicals falls back to cmp for the close when technicals are absent
func readTechnicals(t *contracts.TechnicalRecord, cmp, rsiDefault float64) techView {
	if t == nil {
		return techView{close: cmp, rsi: rsiDefault}
	}
	return techView{
		close:  t.Close.Or(cmp),
		dma50:  t.DMA50.Float(),
		rsi:    t.RSI.Or(rsiDefault),
		macd:   t.MACD.Float(),
		signal: t.MACDSignal.Float(),
	}
}

func nonZeroOr(m contracts.Metric, def float64) float64 {
	if v := m.Float(); v != 0 {
		return v
	}
	return def
}

func subject(symbol string) string {
	if symbol == "" {
		return "The company"
	}
	return symbol
}
