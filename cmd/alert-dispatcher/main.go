// Command alert-dispatcher runs the kisanmitra weather-advisory worker:
// a cron-scheduled dispatch of localized farming alerts to subscribed
// recipients, plus an ops HTTP surface for health, metrics, and manual
// runs.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"kisanmitra/internal/config"
	"kisanmitra/internal/db"
	"kisanmitra/internal/dispatch"
	"kisanmitra/internal/forecast"
	"kisanmitra/internal/i18n"
	"kisanmitra/internal/notify"
	"kisanmitra/internal/observability"
	"kisanmitra/internal/ops"
)

func main() {
	dotenvPath := flag.String("dotenv", "", "optional path to a dotenv file for local development")
	flag.Parse()

	cfg, err := config.Load(*dotenvPath)
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required: the dispatcher reads recipients from the database")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Error("database pool creation failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	composer, err := i18n.NewComposer(i18n.DefaultCatalog(), logger)
	if err != nil {
		// A catalog gap must stop the rollout, not degrade alerts at 6 AM.
		logger.Error("message catalog validation failed", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		Snapshots:    forecast.NewService(forecast.NewClient(cfg.Provider, logger)),
		Channel:      notify.NewTwilioChannel(cfg.Channel, logger),
		Composer:     composer,
		Store:        db.NewAlertStore(pool),
		Metrics:      metrics,
		Logger:       logger,
		Concurrency:  cfg.Dispatch.Concurrency,
		SendInterval: cfg.Dispatch.SendInterval,
	})
	runner := dispatch.NewRunner(db.NewRecipientStore(pool), dispatcher)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Dispatch.Schedule, func() {
		if _, err := runner.Run(ctx); err != nil {
			logger.Error("scheduled dispatch run failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid dispatch schedule", "schedule", cfg.Dispatch.Schedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: ops.NewServer(cfg.Server, runner, prometheus.DefaultGatherer, logger).Handler(),
	}
	go func() {
		logger.Info("ops server listening",
			"port", cfg.Server.Port,
			"schedule", cfg.Dispatch.Schedule,
			"environment", cfg.Environment,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Stop scheduling new runs, then let any in-flight run's sends finish
	// before tearing the HTTP surface down.
	cronCtx := scheduler.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("cron jobs still running at shutdown deadline")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown failed", "error", err)
	}
	logger.Info("dispatcher stopped")
}

// newLogger builds the process-wide slog logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
