package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GusDawn123/aura-budget/internal/cache"
	"github.com/GusDawn123/aura-budget/internal/config"
	"github.com/GusDawn123/aura-budget/internal/core"
	apphttp "github.com/GusDawn123/aura-budget/internal/http"
	applog "github.com/GusDawn123/aura-budget/internal/log"
	"github.com/GusDawn123/aura-budget/internal/services"
	"github.com/GusDawn123/aura-budget/internal/store"
	"github.com/GusDawn123/aura-budget/internal/store/memory"
	"github.com/GusDawn123/aura-budget/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		templates    store.TemplateStore
		payments     store.PaymentStore
		bills        store.BillStore
		transactions store.TransactionStore
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		templates, payments, bills, transactions = repo, repo, repo, repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		st := memory.New()
		templates, payments, bills, transactions = st, st, st, st
		logger.Info("Initialized memory backend")
	}

	var summaryCache cache.Cache[core.MonthSummary]
	switch cfg.CacheBackend {
	case "redis":
		summaryCache = cache.NewRedisCache[core.MonthSummary](cfg.RedisAddr, "summary", cfg.CacheTTL)
		logger.Info("Initialized redis summary cache", "addr", cfg.RedisAddr)
	default:
		summaryCache = cache.NewLRUCache[core.MonthSummary](100, cfg.CacheTTL)
		logger.Info("Initialized in-memory summary cache", "ttl", cfg.CacheTTL.String())
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Templates:    services.NewTemplateService(templates, payments),
		Payments:     services.NewPaymentService(templates, payments),
		Budget:       services.NewBudgetService(templates, payments),
		Transactions: services.NewTransactionService(transactions),
		Bills:        services.NewBillService(bills),
		Export:       services.NewExportService(transactions),
	}, summaryCache)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting aura-budget server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
