// Package useraccounts собирает зависимости сервиса учётных записей и HTTP-маршруты.
package useraccounts

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/user-accounts/internal/http/errorhandler"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/health"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/activate"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/register"
	"github.com/magabrotheeeer/user-accounts/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/metrics"
	"github.com/magabrotheeeer/user-accounts/internal/models"
	"github.com/magabrotheeeer/user-accounts/internal/services/users"
)

// UserService операции учётных записей, доступные по HTTP.
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) error
	Activate(ctx context.Context, token string) error
	Authenticate(ctx context.Context, email, password string) (models.UserSummary, error)
	List(ctx context.Context, page, size string) (models.Page, error)
	Get(ctx context.Context, id string) (models.UserView, error)
	Update(ctx context.Context, id string) error
}

// Translator переводит сообщения и выбирает язык запроса.
type Translator interface {
	T(key, locale string) string
	Negotiate(acceptLanguage string) string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc UserService, tr Translator, db health.Pinger) {
	reporter := errorhandler.New(tr, logger)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger(middlewarectx.NewAccessLogFormatter(logger)),
		reporter.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.LocaleMiddleware(tr, logger))

		r.Post("/users", register.New(logger, svc, reporter, tr).ServeHTTP)
		r.Get("/users", list.New(logger, svc, reporter).ServeHTTP)
		r.Post("/users/token/{token}", activate.New(logger, svc, reporter, tr).ServeHTTP)
		r.Get("/users/{id}", read.New(logger, svc, reporter).ServeHTTP)
		r.Put("/users/{id}", update.New(logger, svc, reporter).ServeHTTP)
		r.Post("/auth", login.New(logger, svc, reporter).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
