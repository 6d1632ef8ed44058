package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kantong/internal/advisor"
	"kantong/internal/backup"
	"kantong/internal/budget"
	budgetStore "kantong/internal/budget/store"
	"kantong/internal/chat"
	chatStore "kantong/internal/chat/store"
	"kantong/internal/config"
	"kantong/internal/database"
	kantongHttp "kantong/internal/http"
	backupHandler "kantong/internal/http/backup"
	budgetHandler "kantong/internal/http/budget"
	chatHandler "kantong/internal/http/chat"
	statsHandler "kantong/internal/http/stats"
	txHandler "kantong/internal/http/transaction"
	"kantong/internal/stats"
	"kantong/internal/transaction"
	txStore "kantong/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		transactionService = transaction.NewService(txStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), transactionService)
		chatService        = chat.NewService(chatStore.New(db))
		statsService       = stats.NewService(transactionService)
		backupService      = backup.NewService(transactionService)
	)

	var advisorService *advisor.Service

	if cfg.AI.APIKey != "" {
		assembler := advisor.NewAssembler(transactionService, budgetService)
		client := advisor.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
		advisorService = advisor.NewService(assembler, chatService, client, time.Now)

		slog.Info("advisor initialized", "model", cfg.AI.Model)
	} else {
		slog.Info("AI_API_KEY not set, advisory chat disabled")
	}

	var (
		transactionH = txHandler.NewHandler(transactionService)
		budgetH      = budgetHandler.NewHandler(budgetService, time.Now)
		chatH        = chatHandler.NewHandler(advisorService)
		backupH      = backupHandler.NewHandler(backupService, time.Now)
		statsH       = statsHandler.NewHandler(statsService)
	)

	router := kantongHttp.New(transactionH, budgetH, chatH, backupH, statsH)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.App.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Write timeout must cover a full streamed advisory reply.
		WriteTimeout: cfg.Server.Timeout * 2,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "port", cfg.App.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
