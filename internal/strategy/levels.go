package strategy

import (
	"TradingAdvisor/internal/calculator"
	"TradingAdvisor/internal/model"
)

const (
	waitMessage         = "No clear trend - wait for breakout"
	insufficientMessage = "Not enough history for a trade plan"
)

// GenerateLevels builds entry, stop and targets for the trend. Uptrend gives
// a LONG plan whose near target is pulled down to the nearest resistance
// above the close; Downtrend mirrors it against support. Anything else WAITs.
func GenerateLevels(bars []model.OHLCV, trend model.Trend, support, resistance []float64, p Params) model.TradePlan {
	p = p.WithDefaults()
	if len(bars) == 0 || trend == model.InsufficientData {
		return model.TradePlan{Direction: model.Wait, Message: insufficientMessage}
	}
	if trend != model.Uptrend && trend != model.Downtrend {
		return model.TradePlan{Direction: model.Wait, Message: waitMessage}
	}

	price := bars[len(bars)-1].Close
	atr := atrOrFallback(bars, price, p)

	if trend == model.Uptrend {
		plan := model.TradePlan{
			Direction:      model.Long,
			Entry:          price,
			StopLoss:       price - p.StopATRMultiple*atr,
			TakeProfitNear: price + p.NearTargetATRMultiple*atr,
			TakeProfitFar:  price + p.FarTargetATRMultiple*atr,
		}
		if r, ok := calculator.NearestAbove(resistance, price); ok && r < plan.TakeProfitNear {
			plan.TakeProfitNear = r
		}
		if risk := plan.Entry - plan.StopLoss; risk > 0 {
			plan.RiskReward = model.Some((plan.TakeProfitNear - plan.Entry) / risk)
		}
		plan.Message = "Trend-following long"
		return plan
	}

	plan := model.TradePlan{
		Direction:      model.Short,
		Entry:          price,
		StopLoss:       price + p.StopATRMultiple*atr,
		TakeProfitNear: price - p.NearTargetATRMultiple*atr,
		TakeProfitFar:  price - p.FarTargetATRMultiple*atr,
	}
	if s, ok := calculator.NearestBelow(support, price); ok && s > plan.TakeProfitNear {
		plan.TakeProfitNear = s
	}
	if risk := plan.StopLoss - plan.Entry; risk > 0 {
		plan.RiskReward = model.Some((plan.Entry - plan.TakeProfitNear) / risk)
	}
	plan.Message = "Trend-following short"
	return plan
}

// atrOrFallback returns ATR for the last bar, or ATRFallbackFraction of the
// price when ATR is undefined.
func atrOrFallback(bars []model.OHLCV, price float64, p Params) float64 {
	if v, ok := calculator.ATR(bars, p.ATRPeriod).Last(); ok {
		return v
	}
	return price * ATRFallbackFraction
}
