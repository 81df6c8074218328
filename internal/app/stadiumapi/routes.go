// Package stadiumapi собирает HTTP API клуба: маршруты, middleware и зависимости.
package stadiumapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация спецификации Swagger.
	_ "github.com/magabrotheeeer/stadium-auth/docs"
	"github.com/magabrotheeeer/stadium-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/stadium-auth/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/stadium-auth/internal/http/handlers/health"
	"github.com/magabrotheeeer/stadium-auth/internal/http/handlers/membership"
	"github.com/magabrotheeeer/stadium-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stadium-auth/internal/metrics"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Version — версия API в баннере /health.
const Version = "1.0.0"

// AuthClient — клиент сервиса аутентификации.
type AuthClient interface {
	Authenticate(ctx context.Context, attempt models.LoginAttempt) (models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (int64, error)
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

// Deps — зависимости маршрутов.
type Deps struct {
	Logger            *slog.Logger
	AuthClient        AuthClient
	MembershipService membership.Service
	Metrics           *metrics.Metrics
	Gatherer          prometheus.Gatherer
	Limiter           *middlewarectx.IPRateLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middlewarectx.PeerAddr,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(Version).ServeHTTP)

		// Вход и регистрация ограничены по частоте с одного IP
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Limiter, d.Logger))
			r.Post("/login", login.New(d.Logger, d.AuthClient, d.Metrics).ServeHTTP)
			r.Post("/signup", register.New(d.Logger, d.AuthClient).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.AuthClient, d.Metrics, d.Logger))
			r.Get("/membership", membership.New(d.Logger, d.MembershipService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
}
