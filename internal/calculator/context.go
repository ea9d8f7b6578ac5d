package calculator

import (
	"math"

	"TradingAdvisor/internal/model"
)

const (
	tradingDaysPerYear = 252
	volumeAvgPeriod    = 20
)

// MarketContext computes annualised volatility of close-to-close returns and
// the last bar's volume relative to its 20-bar average.
func MarketContext(bars []model.OHLCV) model.MarketContext {
	var ctx model.MarketContext

	if len(bars) >= 3 {
		returns := make([]float64, 0, len(bars)-1)
		for i := 1; i < len(bars); i++ {
			if bars[i-1].Close == 0 {
				continue
			}
			returns = append(returns, bars[i].Close/bars[i-1].Close-1)
		}
		if sd, ok := sampleStdDev(returns); ok {
			ctx.Volatility = model.Some(sd * math.Sqrt(tradingDaysPerYear) * 100)
		}
	}

	volumes := extractField(bars, func(b model.OHLCV) float64 { return b.Volume })
	if avg, ok := SMA(volumes, volumeAvgPeriod).Last(); ok && avg > 0 {
		ratio := volumes[len(volumes)-1] / avg
		ctx.VolumeRatio = model.Some(ratio)
		switch {
		case ratio > 1.5:
			ctx.VolumeStatus = "High"
		case ratio > 0.5:
			ctx.VolumeStatus = "Normal"
		default:
			ctx.VolumeStatus = "Low"
		}
	}
	return ctx
}

func sampleStdDev(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1)), true
}
