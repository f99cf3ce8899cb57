// Package remove реализует HTTP-обработчик мягкого удаления урока
// администратором.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики удаления урока.
type Service interface {
	Remove(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удалить урок
// @Description Мягко удаляет урок вместе с записями студентов на него.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID урока"
// @Success 200 {object} map[string]any "Урок удалён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.remove"
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

	err := h.service.Remove(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrLessonNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
			return
		}
		log.Error("failed to remove lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not remove lesson"))
		return
	}

	log.Info("removed lesson", slog.String("id", id))
	render.JSON(w, r, response.OK(r, "Lesson deleted successfully", nil))
}
