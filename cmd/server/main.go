// Package main is the entry point for the storebooks report API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storebooks/internal/config"
	"storebooks/internal/domain/auth"
	"storebooks/internal/domain/reports"
	v1 "storebooks/internal/infrastructure/http/v1"
	"storebooks/internal/infrastructure/storage/postgres"
	"storebooks/internal/infrastructure/storage/postgres/report_repo"
	"storebooks/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting storebooks server", "version", version, "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Reports ---
	summaryRepo := report_repo.NewSummaryRepo(txm)
	branchRepo := report_repo.NewBranchRepo(txm)

	reportService := reports.NewService(summaryRepo.Sources(), branchRepo, reports.ServiceConfig{
		Money:    cfg.Report.Money,
		Location: cfg.Report.Location,
		Timeout:  cfg.Report.Timeout,
	})
	log.Infow("report service initialized",
		"scale", cfg.Report.Money.Scale,
		"rounding", cfg.Report.Money.Mode,
		"timezone", cfg.Report.Location.String(),
		"timeout", cfg.Report.Timeout,
	)

	// --- JWT Service ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		Reports:      reportService,
		DB:           txm,
		Version:      version,
		Debug:        cfg.App.Development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Report.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
