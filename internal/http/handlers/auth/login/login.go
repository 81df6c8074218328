// Package login реализует HTTP-обработчик входа участников и администраторов.
//
// Обработчик декодирует и валидирует запрос, передаёт попытку входа gRPC-сервису
// аутентификации и переводит исход в HTTP-ответ. Все причины отказа отдаются клиенту
// одним сообщением, чтобы по ответу нельзя было узнать, существует ли учётная запись.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stadium-auth/internal/http/response"
	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
	authservice "github.com/magabrotheeeer/stadium-auth/internal/services/auth"
)

// OutcomeError — значение метки outcome для попыток, завершившихся ошибкой инфраструктуры.
const OutcomeError models.AuthOutcome = "error"

// Request — структура входных данных для входа.
//
// Identifier — email или имя. Password нужен только на втором шаге входа администратора.
type Request struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Pin        string `json:"pin" validate:"required,max=64"`
	Password   string `json:"password,omitempty" validate:"max=255"`
}

// Data — полезная нагрузка успешного ответа.
type Data struct {
	Token           string            `json:"token,omitempty"`
	User            *models.Principal `json:"user,omitempty"`
	RequirePassword bool              `json:"require_password,omitempty"`
}

// Service описывает клиента сервиса аутентификации.
type Service interface {
	Authenticate(ctx context.Context, attempt models.LoginAttempt) (models.AuthResult, error)
}

// Observer учитывает исходы входа в метриках.
type Observer interface {
	ObserveLogin(outcome models.AuthOutcome, reason models.RejectReason)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log        *slog.Logger
	authClient Service
	metrics    Observer
	validate   *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authClient Service, metrics Observer) *Handler {
	return &Handler{
		log:        log,
		authClient: authClient,
		metrics:    metrics,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в систему
// @Description Проверяет PIN (и пароль для администратора) и выдаёт JWT на 30 дней.
// @Description Если PIN администратора верен, а пароль не передан, возвращает require_password.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response{data=Data} "Токен или запрос пароля"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeBadRequest, "invalid request body"))
		return
	}
	log = log.With(slog.String("identifier", req.Identifier))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.authClient.Authenticate(r.Context(), models.LoginAttempt{
		Identifier: req.Identifier,
		Pin:        req.Pin,
		Password:   req.Password,
	})
	if err != nil {
		h.metrics.ObserveLogin(OutcomeError, "")
		log.Error("login failed", sl.Err(err))
		if errors.Is(err, authservice.ErrStoreUnavailable) {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(response.CodeUnavailable, "service temporarily unavailable"))
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "internal error"))
		return
	}
	h.metrics.ObserveLogin(res.Outcome, res.Reason)

	switch res.Outcome {
	case models.OutcomeSuccess:
		log.Info("login success", slog.String("role", string(res.Principal.Role)))
		render.JSON(w, r, response.OKWithData(Data{Token: res.Token, User: res.Principal}))
	case models.OutcomeNeedsPassword:
		log.Info("admin pin accepted, password required")
		render.JSON(w, r, response.OKWithData(Data{RequirePassword: true}))
	default:
		log.Info("login rejected", slog.String("reason", string(res.Reason)))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeInvalidCredentials, res.Reason.PublicMessage()))
	}
}
