// Package read реализует HTTP-обработчик для получения конкретного урока по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения урока
// и возвращает его публичное представление с агрегатами.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики чтения урока.
type Service interface {
	Read(ctx context.Context, id, callerID string) (*models.LessonItem, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить урок
// @Description Возвращает урок по ID с числом записанных и признаком записи текущего пользователя.
// @Tags Lessons
// @Produce  json
// @Param id path string true "ID урока"
// @Success 200 {object} map[string]any "Данные урока"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.read"
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
	callerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || callerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(r, http.StatusUnauthorized, "unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), id, callerID)
	if err != nil {
		if errors.Is(err, models.ErrLessonNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
			return
		}
		log.Error("failed to read lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not read lesson"))
		return
	}

	log.Info("read lesson", slog.String("id", id))
	render.JSON(w, r, response.OK(r, "Lesson retrieved successfully", res))
}
