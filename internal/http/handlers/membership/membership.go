// Package membership реализует HTTP-обработчик, отдающий участнику состояние его членства.
package membership

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/stadium-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stadium-auth/internal/http/response"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
	membershipservice "github.com/magabrotheeeer/stadium-auth/internal/services/membership"
)

// Data — состояние членства в ответе.
type Data struct {
	UserID          int64                   `json:"user_id"`
	Status          models.MembershipStatus `json:"status"`
	EffectiveStatus models.MembershipStatus `json:"effective_status"`
	ExpiryDate      *time.Time              `json:"expiry_date"`
	DaysRemaining   int                     `json:"days_remaining"`
}

// Service описывает получение членства участника.
type Service interface {
	Get(ctx context.Context, userID int64) (*membershipservice.Details, error)
}

// Handler обрабатывает запросы на получение членства текущего участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние членства
// @Description Возвращает сохранённый статус членства и фактический статус с учётом даты истечения.
// @Tags Membership
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Data} "Состояние членства"
// @Failure 401 {object} response.ErrorResponse "Нет или недействителен токен"
// @Failure 403 {object} response.ErrorResponse "Токен администратора"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /membership [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeUnauthorized, "user identification missing"))
		return
	}
	log = log.With(slog.Int64("user_id", p.ID))

	// У администраторов нет членства, их ID относятся к другой таблице.
	if p.Role != models.RoleUser {
		log.Info("membership requested with non-member token", slog.String("role", string(p.Role)))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(response.CodeForbidden, "membership is available for members only"))
		return
	}

	details, err := h.service.Get(r.Context(), p.ID)
	if errors.Is(err, models.ErrNotFound) {
		log.Info("member not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.CodeNotFound, "user not found"))
		return
	}
	if err != nil {
		log.Error("failed to load membership", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "could not load membership"))
		return
	}

	render.JSON(w, r, response.OKWithData(Data{
		UserID:          details.Record.UserID,
		Status:          details.Record.Status,
		EffectiveStatus: details.View.EffectiveStatus,
		ExpiryDate:      details.Record.ExpiryDate,
		DaysRemaining:   details.View.DaysRemaining,
	}))
}
