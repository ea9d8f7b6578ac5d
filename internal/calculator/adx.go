package calculator

import (
	"math"

	"github.com/markcheno/go-talib"

	"TradingAdvisor/internal/model"
)

// DefaultTrendStrength is the neutral strength used when ADX is unavailable.
const DefaultTrendStrength = 25.0

// TrendStrength returns ADX(period) for the latest bar, bounded to [0, 100].
// Series shorter than 2*period+1 bars fall back to DefaultTrendStrength.
func TrendStrength(bars []model.OHLCV, period int) float64 {
	if period <= 0 || len(bars) < 2*period+1 {
		return DefaultTrendStrength
	}
	highs := extractField(bars, func(b model.OHLCV) float64 { return b.High })
	lows := extractField(bars, func(b model.OHLCV) float64 { return b.Low })
	closes := extractCloses(bars)

	adx := talib.Adx(highs, lows, closes, period)
	if len(adx) == 0 {
		return DefaultTrendStrength
	}
	v := adx[len(adx)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultTrendStrength
	}
	return math.Min(math.Max(v, 0), 100)
}
