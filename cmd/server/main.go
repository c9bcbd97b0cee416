// Package main initializes and starts the HTTP server, setting up
// configuration, logging, the database pool, repositories, services and
// handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/dirac/internal/config"
	"github.com/atinyakov/dirac/internal/db"
	"github.com/atinyakov/dirac/internal/hasher"
	"github.com/atinyakov/dirac/internal/logger"
	"github.com/atinyakov/dirac/internal/repository"
	"github.com/atinyakov/dirac/internal/server/handler/http"
	"github.com/atinyakov/dirac/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store must be reachable and in sync before any request is accepted.
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	postgresDB, err := db.InitPostgres(initCtx, options.DSN())
	cancel()
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()
	zapLogger.Info("database connected")

	db.StartPoolMonitor(ctx, postgresDB, time.Minute, zapLogger)

	userRepo := repository.NewPostgresUserRepository(postgresDB)
	historyRepo := repository.NewPostgresHistoryRepository(postgresDB)

	bcrypt := hasher.NewBcryptHasherWithCost(options.BcryptCost)
	accountService := service.NewAccountService(userRepo, bcrypt)
	historyService := service.NewHistoryService(userRepo, historyRepo, bcrypt)

	accountHandler := &http.AccountHandler{AccountService: accountService, Log: zapLogger}
	historyHandler := &http.HistoryHandler{HistoryService: historyService, Log: zapLogger}

	router := http.NewRouter(accountHandler, historyHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
