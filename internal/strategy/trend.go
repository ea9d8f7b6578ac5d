package strategy

import (
	"math"

	"TradingAdvisor/internal/calculator"
	"TradingAdvisor/internal/model"
)

// ComputeIndicators returns the indicator snapshot for the last bar.
func ComputeIndicators(bars []model.OHLCV, p Params) model.IndicatorSet {
	p = p.WithDefaults()
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return model.IndicatorSet{
		SMAFast:       calculator.SMA(closes, p.FastPeriod).Reading(),
		SMASlow:       calculator.SMA(closes, p.SlowPeriod).Reading(),
		RSI:           calculator.RSI(closes, p.RSIPeriod).Reading(),
		ATR:           calculator.ATR(bars, p.ATRPeriod).Reading(),
		TrendStrength: calculator.TrendStrength(bars, p.ADXPeriod),
	}
}

// ClassifyTrend labels the series from the close/fast/slow SMA stack.
func ClassifyTrend(bars []model.OHLCV, p Params) model.TrendResult {
	p = p.WithDefaults()
	return classifyTrend(bars, ComputeIndicators(bars, p), p)
}

func classifyTrend(bars []model.OHLCV, ind model.IndicatorSet, p Params) model.TrendResult {
	if len(bars) < p.SlowPeriod || !ind.SMAFast.Valid || !ind.SMASlow.Valid {
		return model.TrendResult{State: model.InsufficientData, Strength: 0}
	}

	price := bars[len(bars)-1].Close
	fast, slow := ind.SMAFast.Value, ind.SMASlow.Value
	ts := ind.TrendStrength

	switch {
	case price > fast && fast > slow:
		return model.TrendResult{State: model.Uptrend, Strength: math.Min(ts, 100)}
	case price < fast && fast < slow:
		return model.TrendResult{State: model.Downtrend, Strength: math.Min(ts, 100)}
	}

	// A strong ADX shrinks the sideways score toward zero.
	strength := calculator.DefaultTrendStrength
	if ts > calculator.DefaultTrendStrength {
		strength = math.Max(calculator.DefaultTrendStrength-ts, 0)
	}
	return model.TrendResult{State: model.Sideways, Strength: strength}
}
