package contracts

import "strings"

// Provider label → record field.
// Data providers and saved payloads use these display labels as keys.
var fundamentalLabels = map[string]func(*FundamentalRecord) *Metric{
	"Current Price":          func(r *FundamentalRecord) *Metric { return &r.CurrentPrice },
	"Market Cap":             func(r *FundamentalRecord) *Metric { return &r.MarketCap },
	"High_52":                func(r *FundamentalRecord) *Metric { return &r.High52 },
	"Low_52":                 func(r *FundamentalRecord) *Metric { return &r.Low52 },
	"Stock P/E":              func(r *FundamentalRecord) *Metric { return &r.StockPE },
	"Industry PE":            func(r *FundamentalRecord) *Metric { return &r.IndustryPE },
	"PEG Ratio":              func(r *FundamentalRecord) *Metric { return &r.PEGRatio },
	"EPS Trend":              func(r *FundamentalRecord) *Metric { return &r.EPSTrend },
	"EBITDA Trend":           func(r *FundamentalRecord) *Metric { return &r.EBITDATrend },
	"Debt / Equity":          func(r *FundamentalRecord) *Metric { return &r.DebtToEquity },
	"Dividend Yield":         func(r *FundamentalRecord) *Metric { return &r.DividendYield },
	"Intrinsic Value":        func(r *FundamentalRecord) *Metric { return &r.IntrinsicValue },
	"Current Ratio":          func(r *FundamentalRecord) *Metric { return &r.CurrentRatio },
	"Promoter Holding":       func(r *FundamentalRecord) *Metric { return &r.PromoterHolding },
	"FII/DII Change":         func(r *FundamentalRecord) *Metric { return &r.FIIDIIChange },
	"Pledged Shares":         func(r *FundamentalRecord) *Metric { return &r.PledgedShares },
	"Operating Cash Flow":    func(r *FundamentalRecord) *Metric { return &r.OperatingCashFlow },
	"Net Profit":             func(r *FundamentalRecord) *Metric { return &r.NetProfit },
	"Sales":                  func(r *FundamentalRecord) *Metric { return &r.Sales },
	"Free Cash Flow":         func(r *FundamentalRecord) *Metric { return &r.FreeCashFlow },
	"CFO to PAT":             func(r *FundamentalRecord) *Metric { return &r.CFOToPAT },
	"ROCE":                   func(r *FundamentalRecord) *Metric { return &r.ROCE },
	"ROE":                    func(r *FundamentalRecord) *Metric { return &r.ROE },
	"Revenue CAGR":           func(r *FundamentalRecord) *Metric { return &r.RevenueCAGR },
	"Profit CAGR":            func(r *FundamentalRecord) *Metric { return &r.ProfitCAGR },
	"Interest Coverage":      func(r *FundamentalRecord) *Metric { return &r.InterestCoverage },
	"Contingent Liabilities": func(r *FundamentalRecord) *Metric { return &r.ContingentLiabilities },
	"Net Worth":              func(r *FundamentalRecord) *Metric { return &r.NetWorth },
	"Piotroski Score":        func(r *FundamentalRecord) *Metric { return &r.PiotroskiScore },
	"Book Value":             func(r *FundamentalRecord) *Metric { return &r.BookValue },
	"Price to Book":          func(r *FundamentalRecord) *Metric { return &r.PriceToBook },
	"Industry PB":            func(r *FundamentalRecord) *Metric { return &r.IndustryPB },
}

var technicalLabels = map[string]func(*TechnicalRecord) *Metric{
	"Close":       func(r *TechnicalRecord) *Metric { return &r.Close },
	"Live Price":  func(r *TechnicalRecord) *Metric { return &r.LivePrice },
	"50DMA":       func(r *TechnicalRecord) *Metric { return &r.DMA50 },
	"200DMA":      func(r *TechnicalRecord) *Metric { return &r.DMA200 },
	"RSI":         func(r *TechnicalRecord) *Metric { return &r.RSI },
	"MACD":        func(r *TechnicalRecord) *Metric { return &r.MACD },
	"MACD_SIGNAL": func(r *TechnicalRecord) *Metric { return &r.MACDSignal },
	"Day High":    func(r *TechnicalRecord) *Metric { return &r.DayHigh },
	"Day Low":     func(r *TechnicalRecord) *Metric { return &r.DayLow },
	"Pivot":       func(r *TechnicalRecord) *Metric { return &r.Pivot },
	"R1":          func(r *TechnicalRecord) *Metric { return &r.R1 },
	"S1":          func(r *TechnicalRecord) *Metric { return &r.S1 },
}

// FundamentalsFromLabels builds a record from a label-keyed mapping.
// Unknown labels are returned so callers can log them.
func FundamentalsFromLabels(values map[string]interface{}) (*FundamentalRecord, []string) {
	rec := &FundamentalRecord{}
	var unknown []string
	for label, raw := range values {
		field, ok := fundamentalLabels[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		*field(rec) = ParseMetric(raw)
	}
	return rec, unknown
}

// TechnicalsFromLabels builds a record from a label-keyed mapping
func TechnicalsFromLabels(values map[string]interface{}) (*TechnicalRecord, []string) {
	rec := &TechnicalRecord{}
	var unknown []string
	for label, raw := range values {
		switch label {
		case "Volume_Trend":
			rec.VolumeTrend = labelString(raw)
			continue
		case "VWAP_Trend":
			rec.VWAPTrend = labelString(raw)
			continue
		}

		field, ok := technicalLabels[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		*field(rec) = ParseMetric(raw)
	}
	return rec, unknown
}

func labelString(raw interface{}) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}
