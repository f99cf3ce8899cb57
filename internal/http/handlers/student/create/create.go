// Package create реализует HTTP-обработчик создания студента администратором.
//
// Handler принимает JSON-запрос с данными нового студента, валидирует их,
// вызывает бизнес-логику создания и возвращает представление студента.
// Созданный студент всегда получает роль USER.
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

// Service описывает интерфейс бизнес-логики создания студента.
type Service interface {
	Create(ctx context.Context, req models.DummyStudent) (*models.StudentItem, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать студента
// @Description Создает нового студента с ролью USER.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyStudent true "Данные нового студента"
// @Success 201 {object} map[string]any "Созданный студент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, дата рождения или занятый username"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /students [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyStudent
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
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(r, http.StatusBadRequest, "username is already taken"))
		return
	case errors.Is(err, models.ErrInvalidBirthDate):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(r, http.StatusBadRequest, "birth date must be in format YYYY-MM-DD"))
		return
	case errors.Is(err, models.ErrBirthDateInFuture):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(r, http.StatusBadRequest, "birth date must not be in the future"))
		return
	case err != nil:
		log.Error("failed to create student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not create student"))
		return
	}

	log.Info("created student", slog.String("id", res.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created(r, "Student created successfully", res))
}
