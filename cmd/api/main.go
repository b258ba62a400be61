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

	"github.com/tandalabs/wallet-api/internal/config"
	"github.com/tandalabs/wallet-api/internal/handler"
	"github.com/tandalabs/wallet-api/internal/logging"
	"github.com/tandalabs/wallet-api/internal/middleware"
	"github.com/tandalabs/wallet-api/internal/provider"
	"github.com/tandalabs/wallet-api/internal/repository"
	"github.com/tandalabs/wallet-api/internal/service"
	"github.com/tandalabs/wallet-api/internal/service/transfer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("wallet-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	prov, err := provider.FromConfig(cfg)
	if err != nil {
		slog.Error("failed to configure payment provider", "error", err)
		os.Exit(1)
	}

	accounts := repository.NewAccountRepository(db)
	ledger := repository.NewLedgerRepository(db)

	wallet := service.NewWalletService(accounts, ledger, prov, db, cfg)
	transfers := transfer.NewService(accounts, ledger, prov, db, cfg)

	balanceHandler := handler.NewBalanceHandler(wallet)
	transferHandler := handler.NewTransferHandler(transfers)
	registerHandler := handler.NewRegisterHandler(wallet)
	sessionHandler := handler.NewSessionHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /api/balance", balanceHandler.Lookup)
	mux.HandleFunc("POST /api/transfer", transferHandler.Create)
	mux.HandleFunc("POST /api/confirm-payment", sessionHandler.Confirm)
	mux.HandleFunc("POST /api/register", registerHandler.Register)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "provider_mode", cfg.ProviderMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
