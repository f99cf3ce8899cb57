// Package greeting реализует публичный HTTP-обработчик приветствия.
package greeting

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/avdeevakate/online-school/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Приветствие
// @Description Публичная точка входа, не требует авторизации.
// @Tags Public
// @Produce  json
// @Success 200 {object} map[string]any "Приветствие"
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK(r, "Welcome to the online school!", nil))
}
