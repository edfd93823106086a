package indicators

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/scorecard/internal/contracts"
	"github.com/wonny/scorecard/pkg/logger"
)

const (
	shortDMA     = 50
	longDMA      = 200
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	volumeWindow = 20

	// MinBars is the history needed for the 200-day average
	MinBars = longDMA
)

// ErrInsufficientHistory is returned when fewer than MinBars bars are supplied
var ErrInsufficientHistory = errors.New("insufficient price history")

// Bar is one daily OHLCV candle
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Calculator derives a TechnicalRecord from daily bars
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new indicator calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{
		logger: log,
	}
}

// Calculate computes indicators over bars ordered oldest first
func (c *Calculator) Calculate(ctx context.Context, symbol string, bars []Bar) (*contracts.TechnicalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bars) < MinBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientHistory, symbol, len(bars), MinBars)
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	typical := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
		typical[i] = (b.High + b.Low + b.Close) / 3
	}

	last := bars[len(bars)-1]
	macd, signal, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)

	// Classic floor pivots from the latest session
	pivot := (last.High + last.Low + last.Close) / 3

	rec := &contracts.TechnicalRecord{
		Close:       contracts.M(last.Close),
		DMA50:       contracts.M(lastOf(talib.Sma(closes, shortDMA))),
		DMA200:      contracts.M(lastOf(talib.Sma(closes, longDMA))),
		RSI:         contracts.M(lastOf(talib.Rsi(closes, rsiPeriod))),
		MACD:        contracts.M(lastOf(macd)),
		MACDSignal:  contracts.M(lastOf(signal)),
		DayHigh:     contracts.M(last.High),
		DayLow:      contracts.M(last.Low),
		Pivot:       contracts.M(pivot),
		R1:          contracts.M(2*pivot - last.Low),
		S1:          contracts.M(2*pivot - last.High),
		VolumeTrend: volumeTrend(volumes),
		VWAPTrend:   vwapTrend(typical),
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
		"close":  last.Close,
		"rsi":    rec.RSI.Float(),
		"dma50":  rec.DMA50.Float(),
		"dma200": rec.DMA200.Float(),
	}).Debug("Calculated indicators")

	return rec, nil
}

// volumeTrend compares the last volume with its 20-bar mean
func volumeTrend(volumes []float64) string {
	window := tail(volumes, volumeWindow)
	if volumes[len(volumes)-1] > stat.Mean(window, nil) {
		return "Increasing"
	}
	return "Decreasing"
}

// vwapTrend uses typical price against its 20-bar mean as a daily VWAP proxy
func vwapTrend(typical []float64) string {
	window := tail(typical, volumeWindow)
	if typical[len(typical)-1] > stat.Mean(window, nil) {
		return "Bullish"
	}
	return "Bearish"
}

func tail(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}

// lastOf returns the final element, NaN when the series is empty
func lastOf(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
