// Package main wires together the tenderwatch service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tenderwatch/tenderwatch/internal/api"
	"github.com/tenderwatch/tenderwatch/internal/classify"
	"github.com/tenderwatch/tenderwatch/internal/clock/system"
	"github.com/tenderwatch/tenderwatch/internal/config"
	"github.com/tenderwatch/tenderwatch/internal/hash/sha256"
	"github.com/tenderwatch/tenderwatch/internal/logging"
	"github.com/tenderwatch/tenderwatch/internal/metrics"
	"github.com/tenderwatch/tenderwatch/internal/notify/telegram"
	"github.com/tenderwatch/tenderwatch/internal/rank"
	"github.com/tenderwatch/tenderwatch/internal/render"
	"github.com/tenderwatch/tenderwatch/internal/route"
	"github.com/tenderwatch/tenderwatch/internal/scan"
	filestore "github.com/tenderwatch/tenderwatch/internal/store/file"
	redisstore "github.com/tenderwatch/tenderwatch/internal/store/redis"
	"github.com/tenderwatch/tenderwatch/internal/tender"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newSeenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("seen store init failed", zap.Error(err))
	}
	defer closeStore()

	renderer, err := render.NewChromedpRenderer(render.Config{
		UserAgent:   cfg.Headless.UserAgent,
		NavTimeout:  cfg.NavTimeout(),
		SettleDelay: cfg.SettleDelay(),
	}, logger.Named("render"))
	if err != nil {
		logger.Fatal("renderer init failed", zap.Error(err))
	}
	defer renderer.Close() //nolint:errcheck

	notifier := telegram.New(telegram.Config{Token: cfg.Telegram.Token}, logger.Named("telegram"))
	if !notifier.Enabled() {
		logger.Warn("no telegram token configured, notifications disabled")
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("metrics init failed", zap.Error(err))
	}

	subscribers := make([]tender.Subscriber, 0, len(cfg.Subscribers))
	for _, sub := range cfg.Subscribers {
		subscribers = append(subscribers, tender.Subscriber{
			ID:            sub.ID,
			Subscriptions: sub.Subscriptions,
		})
	}

	orch := scan.New(
		renderer,
		store,
		sha256.New(),
		system.New(),
		classify.New(classify.DefaultRules()),
		route.New(subscribers),
		rank.New(rank.DefaultBonusRules()),
		notifier,
		m,
		scan.Config{
			WindowDays: cfg.Scan.WindowDays,
			PageSize:   cfg.Scan.PageSize,
			MaxPages:   cfg.Scan.MaxPages,
		},
		logger.Named("scan"),
	)
	runner := scan.NewRunner(orch, notifier, scan.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     cfg.Backoff(),
		OperatorID:  cfg.Telegram.OperatorChatID,
	}, logger.Named("retry"))

	apiServer := api.NewServer(registry, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	if cfg.Telegram.OperatorChatID != "" {
		if err := notifier.Notify(ctx, cfg.Telegram.OperatorChatID, "🏁 tenderwatch démarré"); err != nil {
			logger.Warn("startup notify failed", zap.Error(err))
		}
	}

	// One scan attempt at a time: a still-running cycle makes the next
	// tick a no-op instead of piling up attempts.
	var cycleMu sync.Mutex
	runCycle := func() {
		if !cycleMu.TryLock() {
			logger.Warn("previous cycle still running, skipping tick")
			return
		}
		defer cycleMu.Unlock()

		if cfg.Telegram.OperatorChatID != "" {
			if err := notifier.Notify(ctx, cfg.Telegram.OperatorChatID, "🔍 Scan lancé..."); err != nil {
				logger.Warn("scan-start notify failed", zap.Error(err))
			}
		}
		outcome := runner.Run(ctx)
		apiServer.RecordCycle(time.Now().UTC(), outcome.Err)
		if outcome.Err != nil {
			logger.Error("cycle failed",
				zap.Int("attempts", outcome.Attempts),
				zap.Error(outcome.Err),
			)
			return
		}
		logger.Info("cycle complete",
			zap.Int("attempts", outcome.Attempts),
			zap.Int("new_offers", outcome.Report.NewOffers),
			zap.Int("alerts", outcome.Report.Alerts),
		)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %dm", cfg.Scan.IntervalMinutes), runCycle); err != nil {
		logger.Fatal("schedule cycle failed", zap.Error(err))
	}
	scheduler.Start()
	logger.Info("scheduler started", zap.Int("interval_minutes", cfg.Scan.IntervalMinutes))

	// Populate immediately instead of waiting for the first tick.
	go runCycle()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// newSeenStore builds the configured store backend and a close func.
func newSeenStore(ctx context.Context, cfg config.Config) (tender.SeenStore, func(), error) {
	switch cfg.Store.Provider {
	case "file":
		s, err := filestore.New(filestore.Config{
			Path:     cfg.Store.File.Path,
			Capacity: cfg.Store.Capacity,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("file store: %w", err)
		}
		return s, func() {}, nil
	case "redis":
		s, err := redisstore.New(ctx, redisstore.Config{
			URL:      cfg.Store.Redis.URL,
			Key:      cfg.Store.Redis.Key,
			Capacity: cfg.Store.Capacity,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		return s, func() { s.Close() }, nil //nolint:errcheck
	default:
		return nil, nil, fmt.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}
}
