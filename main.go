// Package main is the entry point for the records data bridge server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"

	"lexbridge/src/app/server"
	"lexbridge/src/infra/config"
	"lexbridge/src/infra/db"
	"lexbridge/src/infra/logger"
	"lexbridge/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"environment", cfg.Database.Environment,
		"database_configured", cfg.Database.Configured(),
	)

	ctx := context.Background()

	// Initialize the database connection. Everything past config load is
	// non-fatal: a missing, templated, or unreachable database degrades
	// data routes but the process keeps serving.
	var pg *db.Postgres
	if cfg.Database.Configured() && !cfg.Database.HasPlaceholder() {
		resolved := db.NewResolver(log).Resolve(ctx, cfg.Database.URL, cfg.Database.IsProduction())
		pg, err = db.Open(ctx, resolved, log)
		if err != nil {
			log.Error("could not open database pool, continuing without storage", "error", err)
			pg = nil
		}
	} else {
		log.Warn("no usable database configuration, continuing without storage")
	}
	defer pg.Close()

	// Initialize the repository
	docRepo := repo.NewPostgresRepository(pg, log)

	// Ensure the backing table and index exist. Failure is reported, not
	// fatal.
	if pg != nil {
		if err := docRepo.EnsureSchema(ctx); err != nil {
			log.Error("schema bootstrap failed", "error", err)
		}
	}

	// Create and run HTTP server
	srv := server.New(cfg, log, docRepo)

	// Run blocks until shutdown signal is received
	return srv.Run()
}
