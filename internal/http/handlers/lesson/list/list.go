// Package list реализует HTTP-обработчик постраничного списка уроков.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка уроков.
type Service interface {
	List(ctx context.Context, callerID string, page, limit int) (*models.Paginated, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список уроков
// @Description Возвращает страницу активных уроков с числом записанных и признаком записи текущего пользователя.
// @Tags Lessons
// @Produce  json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} map[string]any "Страница уроков"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, limit := pagination(r)

	callerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || callerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(r, http.StatusUnauthorized, "unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), callerID, page, limit)
	if err != nil {
		log.Error("failed to list lessons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not list lessons"))
		return
	}

	log.Info("listed lessons", slog.Int("total", res.Meta.Total))
	render.JSON(w, r, response.OK(r, "Lessons retrieved successfully", res))
}

// pagination извлекает page и limit из строки запроса с безопасными
// значениями по умолчанию.
func pagination(r *http.Request) (page, limit int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}
