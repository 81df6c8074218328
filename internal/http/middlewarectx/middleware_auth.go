// Package middlewarectx содержит HTTP middleware для проверки JWT токенов и ограничения частоты запросов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization,
// валидирует его через gRPC-сервис, и в случае успеха добавляет в контекст
// принципала для дальнейшего использования в обработчиках.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stadium-auth/internal/http/response"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/metrics"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ принципала в контексте.
const PrincipalKey Key = "principal"

const bearerPrefix = "Bearer "

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

// TokenObserver учитывает результаты проверки токенов.
type TokenObserver interface {
	ObserveTokenValidation(result string)
}

// PrincipalFromContext достаёт принципала, положенного JWTMiddleware.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Недействительный токен дает 401, недоступность сервиса аутентификации дает 503.
func JWTMiddleware(authClient Service, observer TokenObserver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
			if !strings.HasPrefix(authHeader, bearerPrefix) || tokenStr == "" {
				observer.ObserveTokenValidation(metrics.TokenMissing)
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.CodeUnauthorized, "missing or invalid authorization header"))
				return
			}

			p, err := authClient.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				result := tokenResult(err)
				observer.ObserveTokenValidation(result)
				if result == metrics.TokenError {
					log.Error("token validation failed", sl.Err(err))
					render.Status(r, http.StatusServiceUnavailable)
					render.JSON(w, r, response.Error(response.CodeUnavailable, "service temporarily unavailable"))
					return
				}
				log.Info("invalid or expired token", slog.String("result", result))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.CodeUnauthorized, "invalid or expired token"))
				return
			}
			observer.ObserveTokenValidation(metrics.TokenValid)

			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return metrics.TokenExpired
	case errors.Is(err, jwt.ErrSignatureMismatch):
		return metrics.TokenSignatureMismatch
	case errors.Is(err, jwt.ErrMalformedToken):
		return metrics.TokenMalformed
	default:
		return metrics.TokenError
	}
}
