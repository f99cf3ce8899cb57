// Package register реализует HTTP-обработчик записи текущего пользователя
// на урок.
//
// Handler принимает JSON-запрос с идентификатором урока, валидирует его,
// вызывает бизнес-логику записи и возвращает подтверждение.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики записи на урок.
type Service interface {
	Register(ctx context.Context, userID, lessonID string) error
}

// Request описывает JSON-тело запроса на запись.
type Request struct {
	LessonID string `json:"id" validate:"required,uuid4"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Записаться на урок
// @Description Записывает текущего пользователя на урок. Повторная запись запрещена.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор урока"
// @Success 201 {object} map[string]any "Запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь уже записан на урок"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /lessons/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(r, http.StatusUnauthorized, "unauthorized"))
		return
	}

	err := h.service.Register(r.Context(), userID, req.LessonID)
	switch {
	case errors.Is(err, models.ErrLessonNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(r, http.StatusNotFound, "lesson not found"))
		return
	case errors.Is(err, models.ErrAlreadyRegistered):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(r, http.StatusForbidden, "user is already registered for this lesson"))
		return
	case err != nil:
		log.Error("failed to register for lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not register for lesson"))
		return
	}

	log.Info("registered for lesson", slog.String("lesson_id", req.LessonID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created(r, "Successfully registered for the lesson", nil))
}
