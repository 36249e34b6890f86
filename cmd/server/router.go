package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dhallem/taskgate-api/internal/api"
	apimiddleware "github.com/dhallem/taskgate-api/internal/api/middleware"
	"github.com/dhallem/taskgate-api/internal/metrics"
)

// setupRouter wires every route and the middleware chain. Route shapes
// and auth requirements follow the public API surface exactly.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.MetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.authTokenStore,
		app.jwtService,
		app.hasher,
		app.hasher,
		app.mailSender,
		app.authHandlerConfig(),
	)
	taskHandler := api.NewTaskHandler(app.taskStore)
	categoryHandler := api.NewCategoryHandler(app.categoryStore)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.metrics)

	// Account and session lifecycle. The public endpoints sit behind the
	// per-client rate limiter to damp credential stuffing.
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(app.rateLimiter.Limit)
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/confirm", authHandler.ConfirmEmail)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/signout", authHandler.Signout)
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Get("/status/{status}", taskHandler.ListByStatus)
		r.Get("/priority/{priority}", taskHandler.ListByPriority)
		r.Get("/category/{category}", taskHandler.ListByCategory)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", categoryHandler.List)
		r.Post("/", categoryHandler.Create)
		r.Delete("/{id}", categoryHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}
