/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Payroll Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load environment configuration (.env supported)
  3. Select record store backend (sqlite, rest or memory)
  4. Create payroll service and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    Listen address, overrides PAYROLL_ADDR
  -store   Store backend, overrides PAYROLL_STORE
  -db      SQLite database path, overrides PAYROLL_SQLITE_PATH
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run against a local SQLite file
  ./server -store=sqlite -db="./data/payroll.db"

  # Run against the hosted record store
  RECORD_STORE_BASE_ID=... RECORD_STORE_TOKEN=... ./server -store=rest

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment configuration
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/recordstore"
	"github.com/warp/payroll-engine/store/rest"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override environment configuration.
	addr := flag.String("addr", cfg.Addr, "listen address")
	backend := flag.String("store", cfg.StoreBackend, "store backend: sqlite, rest or memory")
	dbPath := flag.String("db", cfg.SQLitePath, "SQLite database path")
	flag.Parse()
	cfg.Addr, cfg.StoreBackend, cfg.SQLitePath = *addr, *backend, *dbPath

	// Select store backend
	var store recordstore.Store
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		store = db
	case "rest":
		store = rest.New(cfg.RecordStoreBaseURL, cfg.RecordStoreBaseID, cfg.RecordStoreToken)
	case "memory":
		store = recordstore.NewMemory()
	default:
		log.Fatalf("Unknown store backend %q", cfg.StoreBackend)
	}

	// Initialize service and handler
	svc := payroll.NewService(store,
		payroll.WithPunchLimits(cfg.PunchPageSize, cfg.PunchMaxRecords),
	)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", cfg.Addr)
		log.Printf("📊 API available at http://localhost%s/api", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
