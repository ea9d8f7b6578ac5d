package strategy

import (
	"TradingAdvisor/internal/calculator"
	"TradingAdvisor/internal/model"
)

// Snapshot summarises the latest bar of a series for the market overview.
// Indicators without enough history are left undefined.
func Snapshot(series *model.PriceSeries, p Params) model.MarketSnapshot {
	p = p.WithDefaults()
	var snap model.MarketSnapshot
	if series == nil {
		return snap
	}
	snap.Symbol = series.Symbol
	last, ok := series.Last()
	if !ok {
		return snap
	}

	snap.Date = last.Time
	snap.Price = last.Close
	if last.Open > 0 {
		snap.ChangePercent = model.Some((last.Close - last.Open) / last.Open * 100)
	}
	snap.SMAFast = latest(calculator.CalculateSMA(series.Closes(), p.FastPeriod))
	snap.RSI = latest(calculator.CalculateRSI(series.Bars, p.RSIPeriod))
	snap.ATR = latest(calculator.CalculateATR(series.Bars, p.ATRPeriod))
	return snap
}

func latest(v float64, err error) model.Reading {
	if err != nil {
		return model.Reading{}
	}
	return model.Some(v)
}
