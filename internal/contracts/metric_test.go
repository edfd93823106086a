package contracts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name      string
		raw       interface{}
		valid     bool
		malformed bool
		want      float64
	}{
		{"nil is absent", nil, false, false, 0},
		{"float", 12.5, true, false, 12.5},
		{"int", 7, true, false, 7},
		{"numeric string", "1,234.5", true, false, 1234.5},
		{"percent", "18.2%", true, false, 18.2},
		{"rupee crores", "₹ 25,000 Cr.", true, false, 25000},
		{"empty string", "", false, false, 0},
		{"dash", "-", false, false, 0},
		{"text", "abc", false, true, 0},
		{"NaN", math.NaN(), false, true, 0},
		{"bool", true, false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMetric(tt.raw)
			assert.Equal(t, tt.valid, m.Valid())
			assert.Equal(t, tt.malformed, m.Malformed())
			assert.Equal(t, tt.want, m.Float())
		})
	}
}

func TestMetric_Or(t *testing.T) {
	assert.Equal(t, 50.0, Metric{}.Or(50))
	assert.Equal(t, 50.0, MalformedMetric().Or(50))
	assert.Equal(t, 0.0, M(0).Or(50))
	assert.Equal(t, 72.0, M(72).Or(50))
}

func TestMetric_Scale(t *testing.T) {
	assert.InDelta(t, 27500.0, M(25000).Scale(1.1).Float(), 1e-9)
	assert.True(t, Metric{}.Scale(2).Absent())
	assert.True(t, MalformedMetric().Scale(2).Malformed())
}

func TestMetric_JSON(t *testing.T) {
	var rec FundamentalRecord
	err := json.Unmarshal([]byte(`{
		"current_price": 100,
		"market_cap": "25,000",
		"stock_pe": "not a number",
		"roce": null
	}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, 100.0, rec.CurrentPrice.Float())
	assert.Equal(t, 25000.0, rec.MarketCap.Float())
	assert.True(t, rec.StockPE.Malformed())
	assert.True(t, rec.ROCE.Absent())
	assert.True(t, rec.ROE.Absent())

	out, err := json.Marshal(TechnicalRecord{Close: M(101.5)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"close":101.5`)
	assert.Contains(t, string(out), `"rsi":null`)
}

func TestTechnicalRecord_IsEmpty(t *testing.T) {
	var nilRec *TechnicalRecord
	assert.True(t, nilRec.IsEmpty())
	assert.True(t, (&TechnicalRecord{}).IsEmpty())
	assert.False(t, (&TechnicalRecord{RSI: M(55)}).IsEmpty())
	assert.False(t, (&TechnicalRecord{VWAPTrend: "Bullish"}).IsEmpty())
	assert.False(t, (&TechnicalRecord{Pivot: MalformedMetric()}).IsEmpty())
}

func TestParseSentiment(t *testing.T) {
	assert.Equal(t, SentimentPositive, ParseSentiment(" positive "))
	assert.Equal(t, SentimentNegative, ParseSentiment("NEGATIVE"))
	assert.Equal(t, SentimentNeutral, ParseSentiment("mixed"))
}
