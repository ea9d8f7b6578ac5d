package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"TradingAdvisor/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets dashboards read while the advisor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trading_signals (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			bar_date         TEXT,
			symbol           TEXT NOT NULL,
			trigger_type     TEXT,
			price            REAL,
			sma_fast         REAL,
			sma_slow         REAL,
			rsi              REAL,
			atr              REAL,
			trend            TEXT,
			trend_strength   REAL,
			direction        TEXT,
			entry            REAL,
			stop_loss        REAL,
			take_profit_near REAL,
			take_profit_far  REAL,
			risk_reward      REAL,
			max_units        INTEGER,
			total_risk       REAL,
			patterns         TEXT,
			key_levels       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON trading_signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON trading_signals(symbol)`,

		`CREATE TABLE IF NOT EXISTS scan_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			price       REAL,
			volume      REAL,
			trend       TEXT,
			strength    REAL,
			direction   TEXT,
			patterns    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_id ON scan_results(scan_id)`,

		`CREATE TABLE IF NOT EXISTS account_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			event_type      TEXT,
			size_before     REAL,
			size_after      REAL,
			fraction_before REAL,
			fraction_after  REAL,
			note            TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v model.Reading) any {
	if !v.Valid {
		return nil
	}
	return v.Value
}

// orNull stores v only when the plan defines it.
func orNull(defined bool, v any) any {
	if !defined {
		return nil
	}
	return v
}

func joinLevels(levels []model.Level) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		kind := "S"
		if l.Kind == model.Resistance {
			kind = "R"
		}
		parts[i] = fmt.Sprintf("%s %.2f", kind, l.Price)
	}
	return strings.Join(parts, ", ")
}

func joinPatterns(ps []model.PatternSignal) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

func (r *SQLiteRecorder) RecordPlan(plan *model.TradingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := plan.Indicators
	lv := plan.Levels
	priced := lv.HasLevels()
	sized := plan.Risk.Available
	var barDate string
	if !plan.Date.IsZero() {
		barDate = plan.Date.Format("2006-01-02")
	}

	_, err := r.db.Exec(`INSERT INTO trading_signals
		(timestamp, bar_date, symbol, trigger_type, price,
		 sma_fast, sma_slow, rsi, atr, trend, trend_strength,
		 direction, entry, stop_loss, take_profit_near, take_profit_far, risk_reward,
		 max_units, total_risk, patterns)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), barDate, plan.Symbol, string(plan.TriggerType), plan.CurrentPrice,
		nullable(ind.SMAFast), nullable(ind.SMASlow), nullable(ind.RSI), nullable(ind.ATR),
		string(plan.Trend.State), plan.Trend.Strength,
		string(lv.Direction), orNull(priced, lv.Entry), orNull(priced, lv.StopLoss),
		orNull(priced, lv.TakeProfitNear), orNull(priced, lv.TakeProfitFar), nullable(lv.RiskReward),
		orNull(sized, plan.Risk.MaxUnits), orNull(sized, plan.Risk.TotalRisk),
		joinPatterns(plan.Patterns), joinLevels(plan.KeyLevels),
	)
	return err
}

// RecordScan stores every result of the run in one transaction under a
// shared scan id.
func (r *SQLiteRecorder) RecordScan(run *ScanRun) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	ts := run.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin scan tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO scan_results
		(scan_id, timestamp, symbol, price, volume, trend, strength, direction, patterns)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("prepare scan insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range run.Results {
		if _, err := stmt.Exec(run.ID, ts.Unix(), res.Symbol, res.Price, res.Volume,
			string(res.Trend.State), res.Trend.Strength, string(res.Levels.Direction),
			joinPatterns(res.Patterns)); err != nil {
			tx.Rollback()
			return "", fmt.Errorf("insert scan result %s: %w", res.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit scan: %w", err)
	}
	return run.ID, nil
}

func (r *SQLiteRecorder) RecordAccountEvent(evt *AccountEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO account_history
		(timestamp, event_type, size_before, size_after, fraction_before, fraction_after, note)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.EventType,
		evt.SizeBefore, evt.SizeAfter,
		evt.FractionBefore, evt.FractionAfter,
		evt.Note,
	)
	return err
}

// RecentSignals returns up to limit stored plans, newest first.
func (r *SQLiteRecorder) RecentSignals(limit int) ([]SignalRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, bar_date, symbol, trigger_type, price,
		trend, trend_strength, direction, entry, stop_loss, take_profit_near, take_profit_far,
		risk_reward, rsi, max_units, patterns
		FROM trading_signals ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var (
			rec       SignalRecord
			ts        int64
			trigger   string
			trend     string
			direction string
			barDate   sql.NullString
			patterns  sql.NullString
			rr, rsi   sql.NullFloat64
			entry     sql.NullFloat64
			stop      sql.NullFloat64
			near, far sql.NullFloat64
			units     sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &ts, &barDate, &rec.Symbol, &trigger, &rec.Price,
			&trend, &rec.Strength, &direction, &entry, &stop,
			&near, &far, &rr, &rsi, &units, &patterns); err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		rec.RecordedAt = time.Unix(ts, 0)
		rec.BarDate = barDate.String
		rec.TriggerType = model.TriggerType(trigger)
		rec.Trend = model.Trend(trend)
		rec.Direction = model.Direction(direction)
		rec.RiskReward = model.Reading{Value: rr.Float64, Valid: rr.Valid}
		rec.RSI = model.Reading{Value: rsi.Float64, Valid: rsi.Valid}
		rec.Patterns = patterns.String
		rec.Entry, rec.StopLoss = entry.Float64, stop.Float64
		rec.TakeProfitNear, rec.TakeProfitFar = near.Float64, far.Float64
		rec.MaxUnits = units.Int64
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
