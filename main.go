package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/frenchtechupdates/talent-match/internal/api"
	"github.com/frenchtechupdates/talent-match/internal/config"
	"github.com/frenchtechupdates/talent-match/internal/draft"
	"github.com/frenchtechupdates/talent-match/internal/enrich"
	"github.com/frenchtechupdates/talent-match/internal/extract"
	"github.com/frenchtechupdates/talent-match/internal/llm"
	"github.com/frenchtechupdates/talent-match/internal/match"
	"github.com/frenchtechupdates/talent-match/internal/roster"
)

func main() {
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := llm.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		logger.Error("failed to create model client", "error", err)
		os.Exit(1)
	}

	funding := enrich.NewFundingTable(cfg.FundingCSVURL, cfg.FundingXLSXPath, cfg.FundingRefresh,
		&http.Client{Timeout: 30 * time.Second}, logger)

	scheduler := cron.New()
	scheduler.AddFunc("@hourly", func() { funding.Refresh(context.Background()) })
	scheduler.Start()
	defer scheduler.Stop()

	store := roster.NewClient(cfg.RosterBaseURL, cfg.RosterBaseID, cfg.RosterTable, cfg.RosterAPIKey,
		&http.Client{Timeout: 30 * time.Second})

	server := api.NewServer(
		cfg.AdminPassword,
		store,
		extract.New(model),
		match.New(model, logger),
		enrich.New(model, funding),
		draft.New(model, cfg.DraftSignoff),
		funding,
		logger,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
