// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
)

type Handler struct {
	log   *slog.Logger
	check func() error
}

// New создает Handler с функцией проверки готовности хранилища.
func New(log *slog.Logger, check func() error) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Description Возвращает состояние сервиса и его хранилища.
// @Tags Public
// @Produce  json
// @Success 200 {object} map[string]any "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if err := h.check(); err != nil {
		h.log.Error("storage is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error(r, http.StatusServiceUnavailable, "storage is not ready"))
		return
	}
	render.JSON(w, r, response.OK(r, "Service is healthy", map[string]any{
		"status": "ok",
	}))
}
