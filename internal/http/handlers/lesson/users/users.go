// Package users реализует HTTP-обработчик административного просмотра
// состава урока.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики просмотра состава урока.
type Service interface {
	Roster(ctx context.Context, lessonID string, page, limit int) (*models.Paginated, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Состав урока
// @Description Возвращает страницу записанных на урок студентов, самые свежие записи первыми.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID урока"
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Success 200 {object} map[string]any "Страница состава урока"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/{id}/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.users"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	// Не-UUID идентификатор заведомо не существует в каталоге
	if err := h.validate.Var(id, "uuid4"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	res, err := h.service.Roster(r.Context(), id, page, limit)
	if err != nil {
		if errors.Is(err, models.ErrLessonNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
			return
		}
		log.Error("failed to list lesson users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not list lesson users"))
		return
	}

	log.Info("listed lesson users", slog.String("lesson_id", id), slog.Int("total", res.Meta.Total))
	render.JSON(w, r, response.OK(r, "Lesson users retrieved successfully", res))
}
