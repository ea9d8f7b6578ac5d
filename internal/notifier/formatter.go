package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/pattern"
	"TradingAdvisor/internal/recorder"
)

const na = "n/a"

var trendIcons = map[model.Trend]string{
	model.Uptrend:          "📈",
	model.Downtrend:        "📉",
	model.Sideways:         "↔️",
	model.InsufficientData: "❔",
}

var directionIcons = map[model.Direction]string{
	model.Long:  "🟢",
	model.Short: "🔴",
	model.Wait:  "⏳",
}

// FormatTradingPlan renders a full trading plan as a Telegram HTML message.
func FormatTradingPlan(plan *model.TradingPlan) string {
	var b strings.Builder

	date := na
	if !plan.Date.IsZero() {
		date = plan.Date.Format("2006-01-02")
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s Trading Plan</b> | %s\n\n", html.EscapeString(plan.Symbol), date))

	if plan.Bars == 0 {
		b.WriteString("No price data available.\n")
		writeActions(&b, plan.Actions)
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Price: %s | Volume: %s\n", money(plan.CurrentPrice), count(plan.Volume)))
	b.WriteString(fmt.Sprintf("Trend: %s %s (strength %.1f)\n\n",
		trendIcons[plan.Trend.State], plan.Trend.State, plan.Trend.Strength))

	ind := plan.Indicators
	b.WriteString("📐 <b>Indicators</b>\n")
	b.WriteString(fmt.Sprintf("SMA fast: %s | SMA slow: %s\n", reading(ind.SMAFast, 2), reading(ind.SMASlow, 2)))
	b.WriteString(fmt.Sprintf("RSI: %s | ATR: %s | ADX: %.1f\n\n", reading(ind.RSI, 1), reading(ind.ATR, 2), ind.TrendStrength))

	b.WriteString("🕯️ <b>Recent Patterns</b>\n")
	if len(plan.Patterns) == 0 {
		b.WriteString("No patterns detected\n")
	}
	for _, p := range plan.Patterns {
		b.WriteString(fmt.Sprintf("• %s on %s\n", p, p.Time.Format("01-02")))
	}
	b.WriteString("\n")

	b.WriteString("🧱 <b>Key Levels</b>\n")
	b.WriteString(fmt.Sprintf("Resistance: %s\n", levels(model.PricesOf(plan.KeyLevels, model.Resistance))))
	b.WriteString(fmt.Sprintf("Support: %s\n\n", levels(model.PricesOf(plan.KeyLevels, model.Support))))

	lv := plan.Levels
	b.WriteString(fmt.Sprintf("🎯 <b>Trade Plan:</b> %s %s\n", directionIcons[lv.Direction], lv.Direction))
	if lv.HasLevels() {
		b.WriteString(fmt.Sprintf("Entry: %s\n", money(lv.Entry)))
		b.WriteString(fmt.Sprintf("Stop loss: %s\n", money(lv.StopLoss)))
		b.WriteString(fmt.Sprintf("Target 1: %s\n", money(lv.TakeProfitNear)))
		b.WriteString(fmt.Sprintf("Target 2: %s\n", money(lv.TakeProfitFar)))
		b.WriteString(fmt.Sprintf("Risk/Reward: %s\n", reading(lv.RiskReward, 2)))
	}
	if lv.Message != "" {
		b.WriteString(html.EscapeString(lv.Message) + "\n")
	}
	b.WriteString("\n")

	r := plan.Risk
	b.WriteString("⚖️ <b>Position Sizing</b>\n")
	if r.Available {
		b.WriteString(fmt.Sprintf("Account: %s | Risk: %s\n", money(r.AccountSize), percent(r.RiskFraction)))
		b.WriteString(fmt.Sprintf("Risk per share: %s\n", money(r.RiskPerUnit)))
		b.WriteString(fmt.Sprintf("Max position: %d shares\n", r.MaxUnits))
		b.WriteString(fmt.Sprintf("Total risk: %s\n", money(r.TotalRisk)))
	} else {
		b.WriteString(html.EscapeString(r.Message) + "\n")
	}
	b.WriteString("\n")

	c := plan.Context
	b.WriteString("🌐 <b>Market Context</b>\n")
	vol := na
	if c.Volatility.Valid {
		vol = fmt.Sprintf("%.1f%%", c.Volatility.Value)
	}
	volume := na
	if c.VolumeRatio.Valid {
		volume = fmt.Sprintf("%s (%.2fx avg)", c.VolumeStatus, c.VolumeRatio.Value)
	}
	b.WriteString(fmt.Sprintf("Volatility: %s | Volume: %s\n", vol, volume))

	writeActions(&b, plan.Actions)
	return b.String()
}

func writeActions(b *strings.Builder, actions []string) {
	if len(actions) == 0 {
		return
	}
	b.WriteString("\n✅ <b>Actions</b>\n")
	for _, a := range actions {
		b.WriteString("• " + html.EscapeString(a) + "\n")
	}
}

// FormatScanResults renders a scan summary, one line per symbol.
func FormatScanResults(results []model.ScanResult, failed int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>Pattern Scan</b> | %d symbols\n\n", len(results)))
	if len(results) == 0 {
		b.WriteString("No symbols matched the screener.\n")
	}
	for _, r := range results {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s | %s %.0f",
			trendIcons[r.Trend.State], html.EscapeString(r.Symbol), money(r.Price), r.Trend.State, r.Trend.Strength))
		if r.Levels.Direction != "" {
			b.WriteString(fmt.Sprintf(" | %s", r.Levels.Direction))
		}
		b.WriteString("\n")
		if len(r.Patterns) > 0 {
			names := make([]string, len(r.Patterns))
			for i, p := range r.Patterns {
				names[i] = p.String()
			}
			b.WriteString("   🕯️ " + strings.Join(names, ", ") + "\n")
		}
	}
	if failed > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d symbols could not be fetched\n", failed))
	}
	return b.String()
}

// FormatOverview renders the market overview, one quote line per symbol.
func FormatOverview(snaps []model.MarketSnapshot, failed int) string {
	var b strings.Builder
	var date string
	for _, s := range snaps {
		if d := s.Date.Format("2006-01-02"); !s.Date.IsZero() && d > date {
			date = d
		}
	}
	if date == "" {
		date = na
	}
	b.WriteString(fmt.Sprintf("🌍 <b>Market Overview</b> | %s\n\n", date))
	if len(snaps) == 0 {
		b.WriteString("No quotes available.\n")
	}
	for _, s := range snaps {
		icon := "⚪"
		if s.ChangePercent.Valid && s.ChangePercent.Value > 0 {
			icon = "🟢"
		} else if s.ChangePercent.Valid && s.ChangePercent.Value < 0 {
			icon = "🔴"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s (%s)\n", icon, html.EscapeString(s.Symbol), money(s.Price), signedPercent(s.ChangePercent)))
		b.WriteString(fmt.Sprintf("   RSI %s | SMA %s | ATR %s\n", reading(s.RSI, 1), reading(s.SMAFast, 2), reading(s.ATR, 2)))
	}
	if failed > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d symbols could not be fetched\n", failed))
	}
	return b.String()
}

// FormatRecentSignals renders stored plans, newest first.
func FormatRecentSignals(records []recorder.SignalRecord) string {
	var b strings.Builder
	b.WriteString("🗂️ <b>Recent Signals</b>\n\n")
	if len(records) == 0 {
		b.WriteString("No signals recorded yet.\n")
		return b.String()
	}
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s %s | %s %s\n",
			r.BarDate, html.EscapeString(r.Symbol), directionIcons[r.Direction], r.Direction,
			money(r.Price), r.Trend))
		if r.Direction == model.Long || r.Direction == model.Short {
			b.WriteString(fmt.Sprintf("   entry %s stop %s target %s R/R %s\n",
				money(r.Entry), money(r.StopLoss), money(r.TakeProfitNear), reading(r.RiskReward, 2)))
		}
	}
	return b.String()
}

// FormatAccount renders the account settings used for position sizing.
func FormatAccount(state model.AccountState) string {
	var b strings.Builder
	b.WriteString("💼 <b>Account Settings</b>\n\n")
	b.WriteString(fmt.Sprintf("Account size: %s\n", money(state.AccountSize)))
	b.WriteString(fmt.Sprintf("Risk per trade: %s\n", percent(state.RiskFraction)))
	b.WriteString(fmt.Sprintf("Risk budget: %s\n", money(state.RiskBudget())))
	if !state.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatPatternInfo renders the reference card of a candlestick pattern.
func FormatPatternInfo(info pattern.Info) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕯️ <b>%s</b>\n\n", info.Name))
	b.WriteString(fmt.Sprintf("Candles: %d\n", info.Candles))
	b.WriteString(fmt.Sprintf("Signal: %s\n", info.Signal))
	b.WriteString(fmt.Sprintf("Reliability: %s\n", info.Reliability))
	b.WriteString(fmt.Sprintf("Formation: %s\n", info.Formation))
	return b.String()
}

func reading(r model.Reading, places int32) string {
	if !r.Valid || !finite(r.Value) {
		return na
	}
	return decimal.NewFromFloat(r.Value).StringFixed(places)
}

func signedPercent(r model.Reading) string {
	v := reading(r, 2)
	if v == na {
		return v
	}
	if r.Value > 0 {
		v = "+" + v
	}
	return v + "%"
}

func levels(prices []float64) string {
	if len(prices) == 0 {
		return "none"
	}
	parts := make([]string, len(prices))
	for i, p := range prices {
		if !finite(p) {
			parts[i] = na
			continue
		}
		parts[i] = decimal.NewFromFloat(p).StringFixed(2)
	}
	return strings.Join(parts, ", ")
}

func percent(fraction float64) string {
	if !finite(fraction) {
		return na
	}
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(1) + "%"
}

// money renders v as dollars with thousands separators, e.g. "$12,345.67".
func money(v float64) string {
	if !finite(v) {
		return na
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	return sign + "$" + group(s[:len(s)-3]) + s[len(s)-3:]
}

func count(v float64) string {
	if !finite(v) {
		return na
	}
	return group(decimal.NewFromFloat(v).Round(0).StringFixed(0))
}

// finite guards decimal.NewFromFloat, which panics on NaN and Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
