package strategy

import (
	"fmt"
	"strings"

	"TradingAdvisor/internal/model"
)

// maxPatternsInSummary caps the pattern names echoed in the action list.
const maxPatternsInSummary = 2

var trendActions = map[model.Trend]string{
	model.Uptrend:          "Look for long opportunities on pullbacks",
	model.Downtrend:        "Consider short positions on rallies",
	model.Sideways:         "Wait for clear directional breakout",
	model.InsufficientData: "Collect more price history before acting",
}

// Actions turns the evaluation into short advisory lines.
func Actions(trend model.Trend, patterns []model.PatternSignal, plan model.TradePlan) []string {
	actions := make([]string, 0, 3)
	if msg, ok := trendActions[trend]; ok {
		actions = append(actions, msg)
	}

	if len(patterns) > 0 {
		n := len(patterns)
		if n > maxPatternsInSummary {
			n = maxPatternsInSummary
		}
		names := make([]string, n)
		for i := 0; i < n; i++ {
			names[i] = patterns[i].String()
		}
		actions = append(actions, "Recent patterns: "+strings.Join(names, ", "))
	}

	if plan.HasLevels() {
		actions = append(actions, fmt.Sprintf("Entry: $%.2f / Stop: $%.2f / Target: $%.2f",
			plan.Entry, plan.StopLoss, plan.TakeProfitNear))
	}
	return actions
}
