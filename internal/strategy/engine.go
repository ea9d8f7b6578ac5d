// Package strategy assembles indicators, patterns and levels into a trading
// plan. It performs no I/O and keeps no state between calls.
package strategy

import (
	"TradingAdvisor/internal/calculator"
	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/pattern"
)

// Evaluate computes the full trading plan for a series. It always returns a
// plan; sections without enough data are left undefined.
func Evaluate(series *model.PriceSeries, p Params) *model.TradingPlan {
	p = p.WithDefaults()

	plan := &model.TradingPlan{TriggerType: model.TriggerManual}
	if series != nil {
		plan.Symbol = series.Symbol
	}

	last, ok := series.Last()
	if !ok {
		plan.Trend = model.TrendResult{State: model.InsufficientData}
		plan.KeyLevels = []model.Level{}
		plan.Levels = model.TradePlan{Direction: model.Wait, Message: insufficientMessage}
		plan.Risk = SizePosition(0, plan.Levels, p)
		plan.Actions = Actions(plan.Trend.State, nil, plan.Levels)
		return plan
	}
	bars := series.Bars

	plan.Date = last.Time
	plan.CurrentPrice = last.Close
	plan.Volume = last.Volume
	plan.Bars = len(bars)

	// Step a: indicators and trend
	plan.Indicators = ComputeIndicators(bars, p)
	plan.Trend = classifyTrend(bars, plan.Indicators, p)

	// Step b: patterns over the trailing bars
	plan.Patterns = pattern.Recent(pattern.Classify(bars), bars, p.RecentPatternBars)

	// Step c: pivots and levels
	support, resistance := calculator.SupportResistance(bars, p.PivotRadius)
	plan.KeyLevels = calculator.TagLevels(support, resistance)
	plan.Levels = GenerateLevels(bars, plan.Trend.State, support, resistance, p)

	// Step d: sizing, context and advice
	plan.Risk = SizePosition(last.Close, plan.Levels, p)
	plan.Context = calculator.MarketContext(bars)
	plan.Actions = Actions(plan.Trend.State, plan.Patterns, plan.Levels)

	return plan
}
