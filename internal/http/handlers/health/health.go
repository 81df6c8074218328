// Package health отдаёт приветственный баннер API для проверки доступности.
package health

import (
	"net/http"

	"github.com/go-chi/render"
)

// Banner — ответ проверки доступности.
type Banner struct {
	Message string `json:"message" example:"Welcome to VHNSNC Indoor Stadium API"`
	Status  string `json:"status" example:"online"`
	Version string `json:"version" example:"1.0.0"`
}

type Handler struct {
	version string
}

func New(version string) *Handler {
	return &Handler{
		version: version,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce  json
// @Success 200 {object} Banner
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Banner{
		Message: "Welcome to VHNSNC Indoor Stadium API",
		Status:  "online",
		Version: h.version,
	})
}
