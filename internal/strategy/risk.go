package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"TradingAdvisor/internal/model"
)

const (
	noPositionMessage  = "No position recommended"
	unavailableMessage = "Risk calculation unavailable"
)

// SizePosition sizes a position so that hitting the stop loses at most
// AccountSize*RiskFraction.
func SizePosition(price float64, plan model.TradePlan, p Params) model.RiskAssessment {
	p = p.WithDefaults()
	if !plan.HasLevels() {
		return model.RiskAssessment{Message: noPositionMessage}
	}

	rpu := math.Abs(price - plan.StopLoss)
	if !positiveFinite(rpu) || !positiveFinite(p.AccountSize) || !positiveFinite(p.RiskFraction) {
		return model.RiskAssessment{Message: unavailableMessage}
	}

	perUnit := decimal.NewFromFloat(rpu)
	budget := decimal.NewFromFloat(p.AccountSize).Mul(decimal.NewFromFloat(p.RiskFraction))
	units := budget.Div(perUnit).Floor()

	return model.RiskAssessment{
		Available:    true,
		AccountSize:  p.AccountSize,
		RiskFraction: p.RiskFraction,
		RiskPerUnit:  rpu,
		MaxUnits:     units.IntPart(),
		TotalRisk:    units.Mul(perUnit).InexactFloat64(),
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
