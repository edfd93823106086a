package contracts

import (
	"strings"
	"time"
)

// FundamentalRecord is the valuation snapshot of one security.
// Monetary amounts are in crores, ratios and growth figures in percent
// unless the field says otherwise.
type FundamentalRecord struct {
	CurrentPrice Metric `json:"current_price"`
	MarketCap    Metric `json:"market_cap"`
	High52       Metric `json:"high_52"`
	Low52        Metric `json:"low_52"`

	StockPE    Metric `json:"stock_pe"`
	IndustryPE Metric `json:"industry_pe"`
	PEGRatio   Metric `json:"peg_ratio"`

	EPSTrend    Metric `json:"eps_trend"`
	EBITDATrend Metric `json:"ebitda_trend"`

	DebtToEquity   Metric `json:"debt_to_equity"`
	DividendYield  Metric `json:"dividend_yield"`
	IntrinsicValue Metric `json:"intrinsic_value"`
	CurrentRatio   Metric `json:"current_ratio"`

	PromoterHolding Metric `json:"promoter_holding"`
	FIIDIIChange    Metric `json:"fii_dii_change"`
	PledgedShares   Metric `json:"pledged_shares"`

	OperatingCashFlow Metric `json:"operating_cash_flow"`
	NetProfit         Metric `json:"net_profit"`
	Sales             Metric `json:"sales"`
	FreeCashFlow      Metric `json:"free_cash_flow"`
	CFOToPAT          Metric `json:"cfo_to_pat"`

	ROCE             Metric `json:"roce"`
	ROE              Metric `json:"roe"`
	RevenueCAGR      Metric `json:"revenue_cagr"`
	ProfitCAGR       Metric `json:"profit_cagr"`
	InterestCoverage Metric `json:"interest_coverage"`

	ContingentLiabilities Metric `json:"contingent_liabilities"`
	NetWorth              Metric `json:"net_worth"`
	PiotroskiScore        Metric `json:"piotroski_score"`

	BookValue   Metric `json:"book_value"`
	PriceToBook Metric `json:"price_to_book"`
	IndustryPB  Metric `json:"industry_pb"`
}

// TechnicalRecord is the price/indicator snapshot of one security
type TechnicalRecord struct {
	Close      Metric `json:"close"`
	LivePrice  Metric `json:"live_price"`
	DMA50      Metric `json:"dma_50"`
	DMA200     Metric `json:"dma_200"`
	RSI        Metric `json:"rsi"`
	MACD       Metric `json:"macd"`
	MACDSignal Metric `json:"macd_signal"`
	DayHigh    Metric `json:"day_high"`
	DayLow     Metric `json:"day_low"`
	Pivot      Metric `json:"pivot"`
	R1         Metric `json:"r1"`
	S1         Metric `json:"s1"`

	VolumeTrend string `json:"volume_trend,omitempty"` // Increasing, Decreasing
	VWAPTrend   string `json:"vwap_trend,omitempty"`   // Bullish, Bearish
}

// IsEmpty reports whether no field of the record was supplied
func (t *TechnicalRecord) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, m := range t.metrics() {
		if !m.Absent() {
			return false
		}
	}
	return strings.TrimSpace(t.VolumeTrend) == "" && strings.TrimSpace(t.VWAPTrend) == ""
}

func (t *TechnicalRecord) metrics() []Metric {
	return []Metric{
		t.Close, t.LivePrice, t.DMA50, t.DMA200, t.RSI, t.MACD, t.MACDSignal,
		t.DayHigh, t.DayLow, t.Pivot, t.R1, t.S1,
	}
}

// Sentiment is the tone of a news headline
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// ParseSentiment normalizes a label; unknown labels count as neutral
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// NewsItem is one headline about the security
type NewsItem struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Sentiment   Sentiment `json:"sentiment"`
	Link        string    `json:"link,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}
