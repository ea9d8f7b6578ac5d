package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"TradingAdvisor/internal/account"
	"TradingAdvisor/internal/collector"
	"TradingAdvisor/internal/config"
	"TradingAdvisor/internal/metrics"
	"TradingAdvisor/internal/notifier"
	"TradingAdvisor/internal/recorder"
	"TradingAdvisor/internal/scanner"
	"TradingAdvisor/internal/scheduler"
	"TradingAdvisor/internal/util"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = util.NewConsoleLogger(cfg.App.LogLevel)
	} else {
		log.Logger = util.NewLogger(cfg.App.LogLevel)
	}
	log.Info().Str("app", cfg.App.Name).Str("config", cfgPath).Msg("starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "vstrader":
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100, Drift: 0.002}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Strs("watchlist", cfg.DataSource.Watchlist).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryDays, cfg.Scanner.CacheTTL)
	sc := scanner.New(col, scanner.Criteria{
		MinPrice:  cfg.Scanner.MinPrice,
		MaxPrice:  cfg.Scanner.MaxPrice,
		MinVolume: cfg.Scanner.MinVolume,
	}, cfg.Scanner.MaxConcurrent)

	// Init account manager
	am, err := account.NewManager(cfg.Account.StateFile, cfg.Analysis)
	if err != nil {
		log.Fatal().Err(err).Msg("init account manager")
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics listening")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Source:    col,
		Scanner:   sc,
		Account:   am,
		Notifier:  tn,
		Recorder:  rec,
		Params:    cfg.Analysis,
		Watchlist: cfg.DataSource.Watchlist,
		Overview:  cfg.DataSource.Overview,
	})
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.ScanCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Info().Msg("running, press Ctrl+C to stop")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}
