package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"

	platform "github.com/bittietasks/platform"
	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/httpapi"
	"github.com/bittietasks/platform/internal/notify"
	"github.com/bittietasks/platform/internal/outbox"
	"github.com/bittietasks/platform/internal/repository"
	"github.com/bittietasks/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(platform.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := repository.New(pool)

	// Telegram admin alerts are optional
	var notifier *notify.Notifier
	if cfg.AlertBotToken != "" {
		b, err := bot.New(cfg.AlertBotToken)
		if err != nil {
			slog.Error("failed to create alert bot", "error", err)
			os.Exit(1)
		}
		notifier = notify.New(b, cfg.AlertChatID)
	}

	taskService := service.NewTaskService(pool, store)
	deadlineService := service.NewDeadlineService(pool, store)
	payoutService := service.NewPayoutService(store, cfg)
	verificationService := service.NewVerificationService(pool, store, notifier)
	escrowService := service.NewEscrowService(pool, store, cfg, notifier)
	userService := service.NewUserService(pool, store, cfg, notifier)

	srv := httpapi.NewServer(httpapi.Deps{
		Tasks:          taskService,
		Deadlines:      deadlineService,
		Payouts:        payoutService,
		Verifications:  verificationService,
		Escrow:         escrowService,
		Auth:           userService,
		DB:             pool,
		SchedulerToken: cfg.SchedulerToken,
		Production:     cfg.IsProduction(),
	})

	// Escrow release delivery
	go outbox.Run(ctx, outbox.Deps{
		Repo:      store,
		Processor: escrowService,
	}, outbox.DefaultWorkerConfig())

	// Optional in-process expiry sweep; an external scheduler hitting
	// POST /solo-tasks/expire-tasks is the primary driver.
	if cfg.ExpireInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.ExpireInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					res, err := deadlineService.ExpireOverdue(context.Background(), time.Now())
					if err != nil {
						slog.Error("expire sweep failed", "error", err)
						continue
					}
					if res.Count > 0 {
						slog.Info("expire sweep", "expired", res.Count)
					}
				}
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       config.RequestTimeout,
		WriteTimeout:      config.RequestTimeout,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}
