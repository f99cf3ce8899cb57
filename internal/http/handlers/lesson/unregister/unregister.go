// Package unregister реализует HTTP-обработчик отписки текущего пользователя
// от урока.
package unregister

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

// Service описывает интерфейс бизнес-логики отписки от урока.
type Service interface {
	Unregister(ctx context.Context, userID, lessonID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отписаться от урока
// @Description Снимает запись текущего пользователя с урока.
// @Tags Lessons
// @Produce  json
// @Param lessonId path string true "ID урока"
// @Success 200 {object} map[string]any "Запись снята"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь не записан на урок"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/unregister/{lessonId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.unregister"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	lessonID := chi.URLParam(r, "lessonId")
	// Не-UUID идентификатор заведомо не существует в каталоге
	if err := h.validate.Var(lessonID, "uuid4"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
		return
	}
	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(r, http.StatusUnauthorized, "unauthorized"))
		return
	}

	err := h.service.Unregister(r.Context(), userID, lessonID)
	switch {
	case errors.Is(err, models.ErrLessonNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
		return
	case errors.Is(err, models.ErrNotRegistered):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(r, http.StatusForbidden, "user is not registered for this lesson"))
		return
	case err != nil:
		log.Error("failed to unregister from lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not unregister from lesson"))
		return
	}

	log.Info("unregistered from lesson", slog.String("lesson_id", lessonID))
	render.JSON(w, r, response.OK(r, "Successfully unregistered from the lesson", nil))
}
