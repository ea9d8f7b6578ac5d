// Package calculator implements the indicator library: moving averages,
// RSI, ATR, ADX trend strength, pivot support/resistance and market context.
// Every function is pure and works on bar index position, not calendar time.
package calculator

import (
	"errors"

	"TradingAdvisor/internal/model"
)

// ErrInsufficientData is returned when a series is shorter than the lookback.
var ErrInsufficientData = errors.New("not enough data for calculation")

// Series is an indicator aligned one-to-one with the input bars.
type Series []model.Reading

// Last returns the value for the most recent bar.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	r := s[len(s)-1]
	return r.Value, r.Valid
}

// Reading returns the most recent point as a model.Reading.
func (s Series) Reading() model.Reading {
	if len(s) == 0 {
		return model.Reading{}
	}
	return s[len(s)-1]
}

func invalidSeries(n int) Series {
	return make(Series, n)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractField(bars []model.OHLCV, f func(model.OHLCV) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = f(b)
	}
	return out
}
