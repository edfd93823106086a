package scoring

import (
	"fmt"
	"strings"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/internal/policy"
	"github.com/wonny/scorecard/pkg/logger"
)

type fundamental = contracts.FundamentalRecord

// FundamentalScorer evaluates the fundamental parameter battery
// ⭐ SSOT: 펀더멘털 점수 계산은 여기서만
type FundamentalScorer struct {
	params []Parameter[fundamental]
	logger *logger.Logger
}

// NewFundamentalScorer builds the parameter table from policy
func NewFundamentalScorer(p *policy.Policy, log *logger.Logger) *FundamentalScorer {
	return &FundamentalScorer{
		params: fundamentalParams(p.Fundamental),
		logger: log,
	}
}

// Score evaluates every parameter; the result set is always complete.
// A nil record (no fundamentals at all) yields every parameter as N/A with score 0,
// while a present record substitutes defaults for its missing fields.
func (s *FundamentalScorer) Score(rec *contracts.FundamentalRecord) (float64, contracts.Details) {
	if rec == nil {
		details := make(contracts.Details, 0, len(s.params))
		for _, p := range s.params {
			details.Set(p.Name, contracts.NotAvailable())
		}
		return 0, details
	}

	total, details := run(s.params, rec)

	s.logger.WithFields(map[string]interface{}{
		"parameters": len(details),
		"score":      total,
	}).Debug("Scored fundamentals")

	return total, details
}

// MaxScore is the best attainable fundamental subtotal
func (s *FundamentalScorer) MaxScore() float64 {
	return maxScore(s.params)
}

func fundamentalParams(f policy.Fundamental) []Parameter[fundamental] {
	mc := f.MarketCap

	return []Parameter[fundamental]{
		Rule[fundamental]{
			Name:  "Market Cap",
			Field: func(r *fundamental) contracts.Metric { return r.MarketCap },
			Bands: []Band{
				{GT, mc.LargeMin, Outcome{1, contracts.StatusLargeCap}},
				{GT, mc.MidMin, Outcome{1, contracts.StatusMidCap}},
				{GT, mc.SmallMin, Outcome{0.5, contracts.StatusSmallCap}},
			},
			Otherwise: Outcome{0, contracts.StatusMicroCap},
		}.Parameter(),
		cmpVs52W(f.Low52Multiplier),
		peRatio(f.PE),
		threshold("PEG Ratio", func(r *fundamental) contracts.Metric { return r.PEGRatio }, LT, f.PEGMax, f.PEGDefault, fixed2).Parameter(),
		threshold("EPS Trend", func(r *fundamental) contracts.Metric { return r.EPSTrend }, GT, f.EPSTrendMin, 0, pct1).Parameter(),
		threshold("EBITDA Trend", func(r *fundamental) contracts.Metric { return r.EBITDATrend }, GT, f.EBITDATrendMin, 0, fixed2).Parameter(),
		threshold("Debt / Equity", func(r *fundamental) contracts.Metric { return r.DebtToEquity }, LT, f.DebtToEquityMax, 0, fixed2).Parameter(),
		threshold("Dividend Yield", func(r *fundamental) contracts.Metric { return r.DividendYield }, GT, f.DividendYieldMin, 0, pct2).Parameter(),
		intrinsicValue(),
		threshold("Current Ratio", func(r *fundamental) contracts.Metric { return r.CurrentRatio }, GT, f.CurrentRatioMin, 0, fixed2).Parameter(),
		threshold("Promoter Holding", func(r *fundamental) contracts.Metric { return r.PromoterHolding }, GT, f.PromoterHoldingMin, 0, pct2).Parameter(),
		Rule[fundamental]{
			Name:  "FII/DII Trend",
			Field: func(r *fundamental) contracts.Metric { return r.FIIDIIChange },
			Bands: []Band{
				{GT, 0, Outcome{1, contracts.StatusFlowIncreasing}},
				{LT, 0, Outcome{0, contracts.StatusFlowDecreasing}},
			},
			Otherwise: Outcome{0.5, contracts.StatusNeutral},
			Format:    pct2,
		}.Parameter(),
		operatingCashFlow(f.OCF),
		threshold("ROCE", func(r *fundamental) contracts.Metric { return r.ROCE }, GT, f.ROCEMin, 0, pct1).Parameter(),
		Rule[fundamental]{
			Name:  "ROE",
			Field: func(r *fundamental) contracts.Metric { return r.ROE },
			Bands: []Band{
				{GT, f.ROE.GoodAbove, Outcome{1, contracts.StatusGood}},
				{LT, f.ROE.AvoidBelow, Outcome{0, contracts.StatusAvoidLow}},
			},
			Otherwise: Outcome{0.5, contracts.StatusAverage},
			Format:    pct1,
		}.Parameter(),
		threshold("Revenue CAGR", func(r *fundamental) contracts.Metric { return r.RevenueCAGR }, GT, f.RevenueCAGRMin, 0, pct1).Parameter(),
		threshold("Profit CAGR", func(r *fundamental) contracts.Metric { return r.ProfitCAGR }, GT, f.ProfitCAGRMin, 0, pct1).Parameter(),
		threshold("Interest Coverage", func(r *fundamental) contracts.Metric { return r.InterestCoverage }, GT, f.InterestCoverageMin, 0, fixed1).Parameter(),
		threshold("Free Cash Flow", func(r *fundamental) contracts.Metric { return r.FreeCashFlow }, GT, f.FreeCashFlowMin, 0, fixed2).Parameter(),
		constant[fundamental]("Equity Dilution", "No", 1, contracts.StatusStable),
		threshold("Pledged Shares", func(r *fundamental) contracts.Metric { return r.PledgedShares }, LT, f.PledgedSharesMax, 0, pct2).Parameter(),
		contingentLiabilities(f.ContingentMaxRatio),
		Rule[fundamental]{
			Name:  "Piotroski Score",
			Field: func(r *fundamental) contracts.Metric { return r.PiotroskiScore },
			Bands: []Band{
				{GT, f.Piotroski.StrongAbove, Outcome{1, contracts.StatusStrong}},
				{GTE, f.Piotroski.AverageMin, Outcome{0.5, contracts.StatusAverage}},
			},
			Otherwise: Outcome{0, contracts.StatusWeak},
			Format:    integer,
		}.Parameter(),
		constant[fundamental]("Working Cap Cycle", "Stable", 0.5, contracts.StatusNeutral),
		threshold("CFO / PAT", func(r *fundamental) contracts.Metric { return r.CFOToPAT }, GT, f.CFOToPATMin, f.CFOToPATDefault, fixed2).Parameter(),
		bookValue(),
	}
}

// === Composite parameters ===

func cmpVs52W(multiplier float64) Parameter[fundamental] {
	return Parameter[fundamental]{
		Name: "CMP vs 52W",
		Max:  1,
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.CurrentPrice.Malformed() || r.Low52.Malformed() {
				return contracts.NotAvailable()
			}

			cmp, low := r.CurrentPrice.Float(), r.Low52.Float()
			if low > 0 && cmp > low*multiplier {
				return contracts.NewResult(fixed2(cmp), 1, contracts.StatusPositive)
			}
			return contracts.NewResult(fixed2(cmp), 0.5, contracts.StatusNeutral)
		},
	}
}

func peRatio(pe policy.PE) Parameter[fundamental] {
	bands := Rule[fundamental]{
		Bands: []Band{
			{LT, pe.ExtremelyOversoldBelow, Outcome{1, contracts.StatusExtremelyOversold}},
			{LT, pe.VeryAttractiveBelow, Outcome{1, contracts.StatusVeryAttractive}},
			{LT, pe.AttractiveBelow, Outcome{0.5, contracts.StatusAttractive}},
			{LT, pe.ExpensiveBelow, Outcome{0.5, contracts.StatusExpensive}},
		},
		Otherwise: Outcome{0, contracts.StatusOverbought},
	}

	return Parameter[fundamental]{
		Name: "P/E Ratio",
		Max:  bands.MaxScore(),
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.StockPE.Malformed() {
				return contracts.NotAvailable()
			}

			v, ind := r.StockPE.Float(), r.IndustryPE.Float()
			value := fmt.Sprintf("%.2f (Ind: %.2f)", v, ind)

			// 적자 기업 (P/E <= 0)
			if v <= 0 {
				return contracts.NewResult(value, 0, contracts.StatusNotAvailable)
			}

			out := bands.Classify(v)
			res := contracts.NewResult(value, out.Score, out.Code)
			if ind > 0 {
				if v < ind {
					res = res.Annotate("Vs Ind: Attractive")
				} else {
					res = res.Annotate("Vs Ind: Cautious")
				}
			}
			return res
		},
	}
}

func intrinsicValue() Parameter[fundamental] {
	return Parameter[fundamental]{
		Name: "Intrinsic Value",
		Max:  1,
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.IntrinsicValue.Malformed() || r.CurrentPrice.Malformed() {
				return contracts.NotAvailable()
			}

			iv := r.IntrinsicValue.Float()
			if r.CurrentPrice.Float() < iv {
				return contracts.NewResult(fixed1(iv), 1, contracts.StatusUndervalued)
			}
			return contracts.NewResult(fixed1(iv), 0, contracts.StatusOvervalued)
		},
	}
}

// operatingCashFlow: negative OCF is a critical zero; otherwise earnings
// quality and margin tier are reported, and only the margin tier scores.
func operatingCashFlow(p policy.OCF) Parameter[fundamental] {
	margin := Rule[fundamental]{
		Bands: []Band{
			{GT, p.CashCowMarginPct, Outcome{1, contracts.StatusCashCow}},
			{GT, p.StandardMarginPct, Outcome{0.5, contracts.StatusStandardEff}},
		},
		Otherwise: Outcome{0, contracts.StatusLowMargin},
	}

	return Parameter[fundamental]{
		Name: "Operating Cash Flow",
		Max:  1,
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.OperatingCashFlow.Malformed() {
				return contracts.NotAvailable()
			}

			ocf := r.OperatingCashFlow.Float()
			value := fixed2(ocf)
			if ocf < 0 {
				return contracts.NewResult(value, 0, contracts.StatusNegativeOCF)
			}

			var notes []string
			if ocf < r.NetProfit.Float() {
				notes = append(notes, "Low Earnings Quality (OCF < Net Profit)")
			} else {
				notes = append(notes, "High Earnings Quality")
			}

			ocfMargin := 0.0
			if sales := r.Sales.Float(); sales > 0 {
				ocfMargin = ocf / sales * 100
			}
			tier := margin.Classify(ocfMargin)
			notes = append(notes, tier.Code.Display())

			if r.FreeCashFlow.Float() < 0 && ocf > 0 {
				notes = append(notes, "Capital Intensive")
			}

			score := 0.5
			if tier.Score >= 1 {
				score = 1
			}

			return contracts.ParameterResult{
				Value:  value,
				Score:  score,
				Code:   tier.Code,
				Status: strings.Join(notes, " | "),
			}
		},
	}
}

// contingentLiabilities scores at half weight; zero or absent net worth reads as safe
func contingentLiabilities(maxRatio float64) Parameter[fundamental] {
	return Parameter[fundamental]{
		Name: "Contingent Liab",
		Max:  0.5,
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.ContingentLiabilities.Malformed() || r.NetWorth.Malformed() {
				return contracts.NotAvailable()
			}

			ratio := 0.0
			if nw := r.NetWorth.Float(); nw > 0 {
				ratio = r.ContingentLiabilities.Float() / nw
			}

			value := pct1(ratio * 100)
			if ratio > maxRatio {
				return contracts.NewResult(value, 0, contracts.StatusHighRisk)
			}
			return contracts.NewResult(value, 0.5, contracts.StatusSafe)
		},
	}
}

// bookValue compares P/B with the industry; missing either side is N/A (+0.5)
func bookValue() Parameter[fundamental] {
	return Parameter[fundamental]{
		Name: "Book Value Analysis",
		Max:  1,
		Evaluate: func(r *fundamental) contracts.ParameterResult {
			if r.PriceToBook.Malformed() || r.IndustryPB.Malformed() || r.BookValue.Malformed() {
				return contracts.NotAvailable()
			}

			pb, indPB, bv := r.PriceToBook.Float(), r.IndustryPB.Float(), r.BookValue.Float()

			var score float64
			var code contracts.StatusCode
			switch {
			case pb > 0 && indPB > 0 && pb < indPB:
				score, code = 1, contracts.StatusBookUndervalued
			case pb > 0 && indPB > 0:
				score, code = 0, contracts.StatusBookOvervalued
			default:
				score, code = 0.5, contracts.StatusBookNA
			}

			notes := []string{code.Display()}
			if bv > 0 {
				notes = append(notes, fmt.Sprintf("BV: %.2f", bv))
			} else {
				notes = append(notes, "Negative BV (Bad)")
			}

			return contracts.ParameterResult{
				Value:  fmt.Sprintf("P/B: %.2f", pb),
				Score:  min(score, 1),
				Code:   code,
				Status: strings.Join(notes, " | "),
			}
		},
	}
}
