/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lesson engine server: configuration, store,
  dispatcher, ledger, router, graceful shutdown.

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional; defaults apply when absent)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config; ":memory:" supported)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the reminder scheduler
  2. Stop accepting new connections, drain active requests (30s timeout)
  3. Close the database
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/strum/lesson-engine/api"
	"github.com/strum/lesson-engine/config"
	"github.com/strum/lesson-engine/intro"
	"github.com/strum/lesson-engine/ledger"
	"github.com/strum/lesson-engine/notify"
	"github.com/strum/lesson-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	dispatcher, err := notify.FromConfig(cfg.Dispatcher, log)
	if err != nil {
		log.Fatal("failed to configure dispatcher", zap.Error(err))
	}

	ctx := context.Background()
	led, err := ledger.Open(ctx, store,
		ledger.WithDispatcher(dispatcher),
		ledger.WithLogger(log),
		ledger.WithDefaultHours(decimal.NewFromFloat(cfg.DefaultHours)),
	)
	if err != nil {
		log.Fatal("failed to open ledger", zap.Error(err))
	}

	handler := api.NewHandler(led, intro.New(cfg.IntroText), log)
	router := api.NewRouter(handler)

	var scheduler *api.ReminderScheduler
	if cfg.Reminders.Enabled {
		scheduler = api.NewReminderScheduler(led, dispatcher, log)
		scheduler.CheckInterval = cfg.Reminders.CheckInterval.Std()
		scheduler.Start()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
