// Package toplessons реализует публичный HTTP-обработчик выборки
// самых популярных уроков.
package toplessons

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки популярных уроков.
type Service interface {
	Top(ctx context.Context) ([]models.LessonSummary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Популярные уроки
// @Description Возвращает уроки с наибольшим числом записанных студентов. Не требует авторизации.
// @Tags Public
// @Produce  json
// @Success 200 {object} map[string]any "Популярные уроки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /lessons/top [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.toplessons"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Top(r.Context())
	if err != nil {
		log.Error("failed to list top lessons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not list top lessons"))
		return
	}

	log.Info("listed top lessons", slog.Int("count", len(res)))
	render.JSON(w, r, response.OK(r, "Top lessons retrieved successfully", res))
}
