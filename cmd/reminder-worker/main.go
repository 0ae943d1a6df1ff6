package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GusDawn123/aura-budget/internal/amqp"
	"github.com/GusDawn123/aura-budget/internal/config"
	applog "github.com/GusDawn123/aura-budget/internal/log"
	"github.com/GusDawn123/aura-budget/internal/storage"
	"github.com/GusDawn123/aura-budget/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional; without it the worker only logs due bills.
	var publisher worker.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - reminders will be logged only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lookahead := time.Duration(cfg.ReminderLookahead) * 24 * time.Hour
	w := worker.NewReminderWorker(repo, repo, publisher, cfg.ReminderInterval, lookahead)

	// Consume the reminder queue and hand messages to the notifier. Until
	// a real delivery channel is configured this logs each reminder.
	if amqpClient != nil {
		notifier := worker.NewLogNotifier()
		go func() {
			if err := amqpClient.ConsumeBillReminders(ctx, notifier.Handle); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Reminder consumption failed", "error", err)
				}
				cancel()
			}
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Worker stopped with error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Worker stopped gracefully")
}
