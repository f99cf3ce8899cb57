// Package read реализует HTTP-обработчик получения студента по ID.
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

	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики чтения студента.
type Service interface {
	Read(ctx context.Context, id string) (*models.StudentItem, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить студента
// @Description Возвращает студента по ID вместе с его уроками.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID студента"
// @Success 200 {object} map[string]any "Данные студента"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	// Не-UUID идентификатор заведомо не принадлежит ни одному студенту
	if err := h.validate.Var(id, "uuid4"); err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "student not found"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrStudentNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(r, http.StatusNotFound, "student not found"))
			return
		}
		log.Error("failed to read student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not read student"))
		return
	}

	log.Info("read student", slog.String("id", id))
	render.JSON(w, r, response.OK(r, "Student retrieved successfully", res))
}
