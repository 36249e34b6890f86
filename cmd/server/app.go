package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dhallem/taskgate-api/internal/api"
	apimiddleware "github.com/dhallem/taskgate-api/internal/api/middleware"
	"github.com/dhallem/taskgate-api/internal/config"
	"github.com/dhallem/taskgate-api/internal/metrics"
	"github.com/dhallem/taskgate-api/internal/platform/postgres"
	"github.com/dhallem/taskgate-api/internal/service/auth"
	"github.com/dhallem/taskgate-api/internal/service/mail"
	"github.com/dhallem/taskgate-api/internal/store"
)

// application holds the wired dependencies for the server process. Handlers
// receive these as interfaces; only this file knows the concrete types.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	taskStore      store.TaskStore
	categoryStore  store.CategoryStore
	authTokenStore store.AuthTokenStore

	jwtService auth.JWTService
	hasher     *auth.BcryptHasher
	mailSender mail.Sender

	registry    *prometheus.Registry
	metrics     *metrics.Collector
	rateLimiter *apimiddleware.RateLimiter
}

// newApplication connects the database and builds every service and store.
func newApplication(cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	app := &application{
		config: cfg,
		logger: log,
		db:     db,

		userStore:      postgres.NewPostgresUserStore(db, log),
		taskStore:      postgres.NewPostgresTaskStore(db, log),
		categoryStore:  postgres.NewPostgresCategoryStore(db, log),
		authTokenStore: postgres.NewPostgresAuthTokenStore(db, log),

		jwtService: jwtService,
		hasher:     auth.NewBcryptHasher(),
		mailSender: mail.NewLogSender(log),

		registry:    registry,
		metrics:     collector,
		rateLimiter: apimiddleware.NewRateLimiter(apimiddleware.DefaultRateLimiterConfig(), collector),
	}

	return app, nil
}

// authHandlerConfig derives the handler settings from the loaded config.
func (app *application) authHandlerConfig() api.AuthHandlerConfig {
	return api.AuthHandlerConfig{
		TokenLifetime:            time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute,
		RequireEmailConfirmation: app.config.Auth.RequireEmailConfirmation,
		BaseURL:                  app.config.App.BaseURL,
	}
}

// cleanup releases process-wide resources. Safe to call more than once.
func (app *application) cleanup() {
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
		app.rateLimiter = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
		app.db = nil
	}
}
