// Package update реализует HTTP-обработчик частичного обновления урока
// администратором.
package update

import (
	"context"
	"encoding/json"
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

// Service описывает интерфейс бизнес-логики обновления урока.
type Service interface {
	Update(ctx context.Context, id string, req models.DummyUpdateLesson) (*models.LessonAdminItem, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить урок
// @Description Обновляет переданные поля урока и возвращает его новое состояние.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "ID урока"
// @Param request body models.DummyUpdateLesson true "Обновляемые поля"
// @Success 200 {object} map[string]any "Обновлённый урок"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятое название"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.update"
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

	var req models.DummyUpdateLesson
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(r, http.StatusBadRequest, "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(r, err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, models.ErrLessonNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
		return
	case errors.Is(err, models.ErrLessonExists):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(r, http.StatusBadRequest, "lesson with this name already exists"))
		return
	case err != nil:
		log.Error("failed to update lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not update lesson"))
		return
	}

	log.Info("updated lesson", slog.String("id", id))
	render.JSON(w, r, response.OK(r, "Lesson updated successfully", res))
}
