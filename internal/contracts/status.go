package contracts

// StatusCode is the tagged outcome of one evaluated parameter.
// Decision logic and tests compare codes; reports show Display().
type StatusCode string

const (
	StatusPositive     StatusCode = "positive"
	StatusNegative     StatusCode = "negative"
	StatusNeutral      StatusCode = "neutral"
	StatusNotAvailable StatusCode = "not_available"

	// Market Cap
	StatusLargeCap StatusCode = "large_cap"
	StatusMidCap   StatusCode = "mid_cap"
	StatusSmallCap StatusCode = "small_cap"
	StatusMicroCap StatusCode = "micro_cap"

	// P/E
	StatusExtremelyOversold StatusCode = "extremely_oversold"
	StatusVeryAttractive    StatusCode = "very_attractive"
	StatusAttractive        StatusCode = "attractive"
	StatusExpensive         StatusCode = "expensive"
	StatusOverbought        StatusCode = "overbought"

	// Valuation
	StatusUndervalued StatusCode = "undervalued"
	StatusOvervalued  StatusCode = "overvalued"

	// Institutional flow
	StatusFlowIncreasing StatusCode = "flow_increasing"
	StatusFlowDecreasing StatusCode = "flow_decreasing"

	// Operating cash flow
	StatusNegativeOCF StatusCode = "negative_ocf"
	StatusCashCow     StatusCode = "cash_cow"
	StatusStandardEff StatusCode = "standard_efficiency"
	StatusLowMargin   StatusCode = "low_margin"

	// Quality bands
	StatusGood     StatusCode = "good"
	StatusAverage  StatusCode = "average"
	StatusAvoidLow StatusCode = "avoid_low"
	StatusStrong   StatusCode = "strong"
	StatusWeak     StatusCode = "weak"
	StatusStable   StatusCode = "stable"
	StatusSafe     StatusCode = "safe"
	StatusHighRisk StatusCode = "high_risk"

	// Book value
	StatusBookUndervalued StatusCode = "book_undervalued"
	StatusBookOvervalued  StatusCode = "book_overvalued"
	StatusBookNA          StatusCode = "book_not_available"

	// Technicals
	StatusStrongBullish StatusCode = "strong_bullish"
	StatusFallingKnife  StatusCode = "falling_knife"
	StatusBullish200    StatusCode = "bullish_200dma"
	StatusBullish       StatusCode = "bullish"
	StatusBearish       StatusCode = "bearish"
	StatusOversoldBuy   StatusCode = "oversold_buy"
	StatusAbovePivot    StatusCode = "above_pivot"
	StatusBelowPivot    StatusCode = "below_pivot"
)

var statusDisplay = map[StatusCode]string{
	StatusPositive:     "Positive",
	StatusNegative:     "Negative",
	StatusNeutral:      "Neutral",
	StatusNotAvailable: "N/A",

	StatusLargeCap: "Large Cap",
	StatusMidCap:   "Mid Cap",
	StatusSmallCap: "Small Cap",
	StatusMicroCap: "Micro Cap (Risky)",

	StatusExtremelyOversold: "Extremely Oversold",
	StatusVeryAttractive:    "Very Attractive",
	StatusAttractive:        "Attractive",
	StatusExpensive:         "Expensive",
	StatusOverbought:        "Overbought",

	StatusUndervalued: "Undervalued",
	StatusOvervalued:  "Overvalued",

	StatusFlowIncreasing: "Positive (Increasing)",
	StatusFlowDecreasing: "Negative (Decreasing)",

	StatusNegativeOCF: "Negative OCF (CRITICAL)",
	StatusCashCow:     "Cash Cow (High Eff)",
	StatusStandardEff: "Standard Eff",
	StatusLowMargin:   "High Risk (Low Margin)",

	StatusGood:     "Good",
	StatusAverage:  "Average",
	StatusAvoidLow: "Avoid (Low)",
	StatusStrong:   "Good (Strong)",
	StatusWeak:     "Avoid (Weak)",
	StatusStable:   "Stable",
	StatusSafe:     "Safe",
	StatusHighRisk: "High Risk (>50% NW)",

	StatusBookUndervalued: "Undervalued (vs Ind)",
	StatusBookOvervalued:  "Overvalued (vs Ind)",
	StatusBookNA:          "Valuation N/A",

	StatusStrongBullish: "Strong Bullish",
	StatusFallingKnife:  "Falling Knife (Bearish)",
	StatusBullish200:    "Bullish (>200DMA)",
	StatusBullish:       "Bullish",
	StatusBearish:       "Bearish",
	StatusOversoldBuy:   "Oversold (Buy)",
	StatusAbovePivot:    "Above Pivot",
	StatusBelowPivot:    "Below Pivot",
}

// Display returns the report label of the code
func (c StatusCode) Display() string {
	if s, ok := statusDisplay[c]; ok {
		return s
	}
	return string(c)
}

// Verdict is a categorical trading recommendation
type Verdict string

const (
	VerdictBuy   Verdict = "BUY"
	VerdictHold  Verdict = "HOLD"
	VerdictAvoid Verdict = "AVOID"
)

// Display returns the verdict with its report marker
func (v Verdict) Display() string {
	switch v {
	case VerdictBuy:
		return "✅ BUY"
	case VerdictHold:
		return "⚠️ HOLD"
	case VerdictAvoid:
		return "❌ AVOID"
	default:
		return string(v)
	}
}
