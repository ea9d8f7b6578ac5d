package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TradingAdvisor/internal/account"
	"TradingAdvisor/internal/metrics"
	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/notifier"
	"TradingAdvisor/internal/pattern"
	"TradingAdvisor/internal/recorder"
	"TradingAdvisor/internal/scanner"
	"TradingAdvisor/internal/strategy"
)

const (
	sendRetries    = 3
	defaultSignals = 10
	maxSignals     = 50
)

// Notifier delivers formatted messages. *notifier.TelegramNotifier implements it.
type Notifier interface {
	Send(ctx context.Context, text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Deps are the collaborators of the scheduler.
type Deps struct {
	Source    scanner.Source
	Scanner   *scanner.Scanner
	Account   *account.Manager
	Notifier  Notifier
	Recorder  recorder.Recorder
	Params    strategy.Params
	Watchlist []string
	Overview  []string
}

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron *cron.Cron
	Deps
	Ctx context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps) *Scheduler {
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Deps: deps,
		Ctx:  ctx,
	}
}

// RegisterAll registers the daily plan run and the watchlist scan.
func (s *Scheduler) RegisterAll(dailyCron, scanCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// evaluate collects, evaluates and records the plan for one symbol.
func (s *Scheduler) evaluate(ctx context.Context, symbol string, trigger model.TriggerType) (*model.TradingPlan, error) {
	series, err := s.Source.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	plan := strategy.Evaluate(series, s.params())
	plan.TriggerType = trigger
	metrics.PlansTotal.WithLabelValues(string(plan.Trend.State)).Inc()

	if err := s.Recorder.RecordPlan(plan); err != nil {
		log.Error().Err(err).Str("symbol", plan.Symbol).Msg("record plan")
	}
	return plan, nil
}

func (s *Scheduler) params() strategy.Params {
	if s.Account == nil {
		return s.Params
	}
	return s.Account.Apply(s.Params)
}

func (s *Scheduler) dailyTask() {
	log.Info().Str("task", "daily").Int("symbols", len(s.Watchlist)).Msg("running daily plan")

	var actionable, waiting, failed []string
	for _, sym := range s.Watchlist {
		plan, err := s.evaluate(s.Ctx, sym, model.TriggerDaily)
		if err != nil {
			if s.Ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("task", "daily").Str("symbol", sym).Msg("evaluate")
			failed = append(failed, sym)
			continue
		}
		if !plan.Levels.HasLevels() {
			waiting = append(waiting, plan.Symbol)
			continue
		}
		actionable = append(actionable, plan.Symbol)
		s.trySend(notifier.FormatTradingPlan(plan))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓️ <b>Daily Run</b> | %d symbols\n\n", len(s.Watchlist)))
	b.WriteString(fmt.Sprintf("Actionable: %s\n", listOrNone(actionable)))
	b.WriteString(fmt.Sprintf("Waiting: %s\n", listOrNone(waiting)))
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("❌ Failed: %s\n", strings.Join(failed, ", ")))
	}
	s.trySend(b.String())
}

func listOrNone(symbols []string) string {
	if len(symbols) == 0 {
		return "none"
	}
	return strings.Join(symbols, ", ")
}

// runScan scans the watchlist, records the run and returns the formatted report.
func (s *Scheduler) runScan(ctx context.Context) (string, error) {
	report, err := s.Scanner.Scan(ctx, s.Watchlist, s.params())
	if err != nil {
		return "", err
	}
	id, err := s.Recorder.RecordScan(&recorder.ScanRun{
		StartedAt: report.StartedAt,
		Duration:  report.Duration,
		Results:   report.Results,
		Failed:    report.Failed,
	})
	if err != nil {
		log.Error().Err(err).Msg("record scan")
	} else {
		log.Info().Str("scan_id", id).Msg("scan recorded")
	}
	return notifier.FormatScanResults(report.Results, report.Failed), nil
}

func (s *Scheduler) scanTask() {
	log.Info().Str("task", "scan").Msg("running watchlist scan")
	msg, err := s.runScan(s.Ctx)
	if err != nil {
		log.Error().Err(err).Str("task", "scan").Msg("scan failed")
		return
	}
	s.trySend(msg)
}

// overview quotes the overview symbols in order, skipping those that fail.
func (s *Scheduler) overview(ctx context.Context) string {
	var (
		snaps  []model.MarketSnapshot
		failed int
	)
	for _, sym := range s.Overview {
		series, err := s.Source.Collect(ctx, sym)
		if err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("overview: skipping symbol")
			failed++
			continue
		}
		snaps = append(snaps, strategy.Snapshot(series, s.Params))
	}
	return notifier.FormatOverview(snaps, failed)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	// Group chats address commands as /cmd@botname.
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/plan":
		if len(args) == 0 {
			return "Usage: /plan SYMBOL"
		}
		plan, err := s.evaluate(ctx, args[0], model.TriggerManual)
		if err != nil {
			return fmt.Sprintf("❌ Could not load data for %s: %s",
				html.EscapeString(strings.ToUpper(args[0])), html.EscapeString(err.Error()))
		}
		return notifier.FormatTradingPlan(plan)
	case "/scan":
		msg, err := s.runScan(ctx)
		if err != nil {
			return "❌ Scan failed: " + html.EscapeString(err.Error())
		}
		return msg
	case "/overview":
		return s.overview(ctx)
	case "/signals":
		limit := defaultSignals
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return "Usage: /signals [count]"
			}
			limit = min(n, maxSignals)
		}
		records, err := s.Recorder.RecentSignals(limit)
		if err != nil {
			log.Error().Err(err).Msg("load recent signals")
			return "❌ Could not load signal history"
		}
		return notifier.FormatRecentSignals(records)
	case "/account":
		return s.handleAccount(args)
	case "/risk":
		return s.handleRisk(args)
	case "/pattern":
		return handlePattern(args)
	default:
		return helpText
	}
}

func (s *Scheduler) handleAccount(args []string) string {
	if s.Account == nil {
		return "Account settings are not available"
	}
	if len(args) == 0 {
		return notifier.FormatAccount(s.Account.GetState())
	}
	size, err := parseAmount(args[0])
	if err != nil {
		return "Usage: /account [size], e.g. /account 25000"
	}
	before, err := s.Account.SetAccountSize(size)
	if err != nil {
		return "❌ " + err.Error()
	}
	after := s.Account.GetState()
	s.recordAccountEvent("SET_SIZE", before, after)
	return "✅ Account size updated\n\n" + notifier.FormatAccount(after)
}

func (s *Scheduler) handleRisk(args []string) string {
	if s.Account == nil {
		return "Account settings are not available"
	}
	if len(args) == 0 {
		return notifier.FormatAccount(s.Account.GetState())
	}
	fraction, err := parseFraction(args[0])
	if err != nil {
		return "Usage: /risk [fraction], e.g. /risk 0.01 or /risk 1%"
	}
	before, err := s.Account.SetRiskFraction(fraction)
	if err != nil {
		if errors.Is(err, account.ErrInvalidFraction) {
			return fmt.Sprintf("❌ Risk per trade must be above 0 and at most %.0f%%", account.MaxRiskFraction*100)
		}
		return "❌ " + err.Error()
	}
	after := s.Account.GetState()
	s.recordAccountEvent("SET_RISK", before, after)
	return "✅ Risk per trade updated\n\n" + notifier.FormatAccount(after)
}

func handlePattern(args []string) string {
	name, ok := pattern.Lookup(strings.Join(args, " "))
	if !ok {
		names := make([]string, len(pattern.Names))
		for i, n := range pattern.Names {
			names[i] = string(n)
		}
		return "Usage: /pattern NAME\nKnown patterns: " + strings.Join(names, ", ")
	}
	info, _ := pattern.Describe(name)
	return notifier.FormatPatternInfo(info)
}

// parseAmount accepts "25000", "25,000" or "$25,000".
func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}

// parseFraction accepts "0.01" or "1%".
func parseFraction(s string) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		return v / 100, err
	}
	return strconv.ParseFloat(s, 64)
}

func (s *Scheduler) recordAccountEvent(eventType string, before, after model.AccountState) {
	if err := s.Recorder.RecordAccountEvent(&recorder.AccountEvent{
		EventType:      eventType,
		SizeBefore:     before.AccountSize,
		SizeAfter:      after.AccountSize,
		FractionBefore: before.RiskFraction,
		FractionAfter:  after.RiskFraction,
		Note:           "chat command",
	}); err != nil {
		log.Error().Err(err).Msg("record account event")
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

const helpText = `<b>TradingAdvisor commands</b>
/plan SYMBOL - trading plan for a symbol
/scan - scan the watchlist for patterns
/overview - index and large-cap quotes
/signals [n] - recent recorded plans
/account [size] - show or set the account size
/risk [fraction] - show or set the risk per trade
/pattern NAME - explain a candlestick pattern`
