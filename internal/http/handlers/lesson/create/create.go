// Package create реализует HTTP-обработчик создания урока администратором.
//
// Handler принимает JSON-запрос с данными урока, валидирует их,
// вызывает бизнес-логику создания и возвращает административное
// представление созданного урока.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики создания урока.
type Service interface {
	Create(ctx context.Context, req models.DummyLesson) (*models.LessonAdminItem, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать урок
// @Description Создает новый урок. Название должно быть уникальным среди активных уроков.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyLesson true "Данные нового урока"
// @Success 201 {object} map[string]any "Созданный урок"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятое название"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLesson
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

	res, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrLessonExists) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(r, http.StatusBadRequest, "lesson with this name already exists"))
			return
		}
		log.Error("failed to create lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not create lesson"))
		return
	}

	log.Info("created lesson", slog.String("id", res.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created(r, "Lesson created successfully", res))
}
