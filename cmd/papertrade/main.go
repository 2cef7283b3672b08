package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pandastrade/papertrade/internal/auth"
	"github.com/pandastrade/papertrade/internal/config"
	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/engine"
	"github.com/pandastrade/papertrade/internal/feed"
	"github.com/pandastrade/papertrade/internal/handler"
	"github.com/pandastrade/papertrade/internal/service"
	"github.com/pandastrade/papertrade/internal/storage"
	"github.com/pandastrade/papertrade/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Persistence and the account store (the ledger).
	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		logger.Error("failed to set up storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	accounts, err := store.NewAccountStore(fileStorage)
	if err != nil {
		logger.Error("failed to load account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Quote stores.
	snapshots := store.NewSnapshotStore()
	history := store.NewHistoryStore(cfg.HistoryLimit)

	// Feed universe: defaults plus everything the account references.
	universe := domain.NewSymbolUniverse(feed.DefaultSymbols()...)
	for _, h := range accounts.Holdings() {
		universe.Register(h.Symbol)
	}
	for _, symbol := range accounts.Watchlist() {
		universe.Register(symbol)
	}

	// Feed source and simulator.
	var source feed.Source
	if cfg.FeedMode == config.FeedLive {
		source = feed.NewStooqSource(cfg.QuoteURL, cfg.QuoteTimeout)
	}
	sim := feed.NewSimulator(time.Now().UnixNano())

	feedMgr := engine.NewFeedManager(cfg.TickInterval, source, sim, snapshots, history, universe, logger)

	// Observers: debug-level change log for account mutations and feed
	// ticks. Subscriptions live for the process lifetime.
	accounts.Subscribe(func() {
		logger.Debug("account changed", slog.String("balance", accounts.Balance().String()))
	})
	feedMgr.Subscribe(func() {
		logger.Debug("quotes refreshed")
	})

	// Access gate.
	pinProvider, err := auth.NewPINProvider(cfg.PIN)
	if err != nil {
		logger.Error("failed to set up auth provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Services.
	accountSvc := service.NewAccountService(accounts, snapshots, universe)
	quoteSvc := service.NewQuoteService(snapshots, history)
	authSvc := service.NewAuthService(pinProvider)

	// Router.
	router := handler.NewRouter(accountSvc, quoteSvc, authSvc, logger)

	// Start the feed ticker with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feedMgr.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("feed_mode", cfg.FeedMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the feed).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
