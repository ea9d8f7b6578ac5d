package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"TradingAdvisor/internal/model"
)

// SMA computes the rolling simple moving average. The first period-1 points
// are invalid.
func SMA(values []float64, period int) Series {
	out := invalidSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	// talib.Sma indexes the input unconditionally, so the length guard above
	// must stay in front of it.
	raw := talib.Sma(values, period)
	for i := period - 1; i < len(values); i++ {
		out[i] = model.Some(raw[i])
	}
	return out
}

// CalculateSMA returns the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	v, ok := SMA(prices, period).Last()
	if !ok {
		return 0, ErrInsufficientData
	}
	return v, nil
}
