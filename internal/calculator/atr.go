package calculator

import (
	"errors"
	"math"

	"TradingAdvisor/internal/model"
)

// TrueRange returns the true range of every bar. The first bar has no
// previous close, so its true range is high-low.
func TrueRange(bars []model.OHLCV) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		hl := b.High - b.Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		prev := bars[i-1].Close
		tr[i] = math.Max(hl, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
	}
	return tr
}

// ATR computes the rolling simple mean of the true range.
func ATR(bars []model.OHLCV, period int) Series {
	out := invalidSeries(len(bars))
	if period <= 0 || len(bars) < period {
		return out
	}
	tr := TrueRange(bars)
	sum := 0.0
	for i := range tr {
		sum += tr[i]
		if i >= period {
			sum -= tr[i-period]
		}
		if i >= period-1 {
			out[i] = model.Some(math.Max(sum/float64(period), 0))
		}
	}
	return out
}

// CalculateATR returns the ATR for the most recent bar.
func CalculateATR(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	v, ok := ATR(bars, period).Last()
	if !ok {
		return 0, ErrInsufficientData
	}
	return v, nil
}
