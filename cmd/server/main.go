/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the pawn ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env vars + flag overrides)
  2. Initialize logger
  3. Initialize SQLite store and run migrations
  4. Create ticket service and API handler
  5. Start server with graceful shutdown

CONFIGURATION:
  RUN_ADDRESS / -a    listen address (default: :8080)
  DATABASE_PATH / -d  SQLite database path (default: pawn.db)
                      Use ":memory:" for an in-memory database
  LOG_LVL / -l        log level: debug, info, error (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -d="./data/pawn.db"

  # Run with in-memory database
  ./server -d=":memory:"

  # Run on a different address
  ./server -a=":3000"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/pawn-ledger/api"
	"github.com/warp/pawn-ledger/config"
	"github.com/warp/pawn-ledger/pawn"
	"github.com/warp/pawn-ledger/pkg/logger"
	"github.com/warp/pawn-ledger/store/sqlite"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLvl); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Initialize service and handler
	service := pawn.NewService(store)
	handler := api.NewHandler(service, store)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zap.L().Info("Server starting",
			zap.String("address", cfg.Address),
			zap.String("database", cfg.DatabasePath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server stopped")
}
