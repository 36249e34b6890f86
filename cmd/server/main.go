// Package main implements the entry point for the taskgate API server: a
// per-user task and category service with email+password accounts and
// bearer-token authentication.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/dhallem/taskgate-api/internal/config"
	"github.com/dhallem/taskgate-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			slog.Error("migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("migration failed: %v", err)
		}
		slog.Info("migration completed", "command", *migrateCmd)
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		log.Fatalf("server exited: %v", err)
	}
}

// run builds the application and serves until shutdown.
func run(cfg *config.Config) error {
	app, err := newApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"require_email_confirmation", cfg.Auth.RequireEmailConfirmation)

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
