// Package register реализует HTTP-обработчик регистрации участника клуба.
package register

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

// Request — входные данные для регистрации
type Request struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=32"`
	Pin   string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

// Data — ответ на успешную регистрацию.
type Data struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

// Service описывает регистрацию через сервис аутентификации.
type Service interface {
	Register(ctx context.Context, reg models.Registration) (int64, error)
}

type Handler struct {
	log        *slog.Logger
	authClient Service
	validate   *validator.Validate
}

func New(log *slog.Logger, authClient Service) *Handler {
	return &Handler{
		log:        log,
		authClient: authClient,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация участника
// @Description Создаёт учётную запись участника с неоплаченным членством.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные участника"
// @Success 201 {object} response.Response{data=Data} "Участник создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
	log = log.With(slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.authClient.Register(r.Context(), models.Registration{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Pin:   req.Pin,
	})
	switch {
	case err == nil:
	case errors.Is(err, models.ErrAlreadyExists):
		log.Info("email already registered")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(response.CodeConflict, "email already registered"))
		return
	case errors.Is(err, authservice.ErrInvalidRegistration):
		log.Info("registration rejected", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(response.CodeValidation, "invalid registration data"))
		return
	case errors.Is(err, authservice.ErrStoreUnavailable):
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error(response.CodeUnavailable, "service temporarily unavailable"))
		return
	default:
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.CodeInternal, "failed to register user"))
		return
	}

	log.Info("user registered", slog.Int64("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(Data{UserID: id, Message: "user created successfully"}))
}
