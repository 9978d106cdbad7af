// Package eventmanager предоставляет маршруты для основного приложения.
package eventmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/martynshik/event-manager/internal/http/handlers/auth/login"
	"github.com/martynshik/event-manager/internal/http/handlers/auth/logout"
	"github.com/martynshik/event-manager/internal/http/handlers/auth/register"
	"github.com/martynshik/event-manager/internal/http/handlers/event/create"
	"github.com/martynshik/event-manager/internal/http/handlers/event/list"
	"github.com/martynshik/event-manager/internal/http/handlers/event/read"
	"github.com/martynshik/event-manager/internal/http/handlers/event/remove"
	"github.com/martynshik/event-manager/internal/http/handlers/event/update"
	"github.com/martynshik/event-manager/internal/http/handlers/health"
	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	authservice "github.com/martynshik/event-manager/internal/services/auth"
	eventservice "github.com/martynshik/event-manager/internal/services/event"
	"github.com/martynshik/event-manager/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, eventService *eventservice.EventService, db *storage.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с аутентификацией по токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Get("/events", list.New(logger, eventService).ServeHTTP)
			r.Post("/events", create.New(logger, eventService).ServeHTTP)
			r.Get("/events/{id}", read.New(logger, eventService).ServeHTTP)
			r.Put("/events/{id}", update.New(logger, eventService).ServeHTTP)
			r.Patch("/events/{id}", update.New(logger, eventService).ServeHTTP)
			r.Delete("/events/{id}", remove.New(logger, eventService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
