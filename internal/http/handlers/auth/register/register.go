// Package register реализует HTTP-обработчик публичной регистрации.
//
// Handler принимает JSON-запрос с данными нового пользователя, валидирует их,
// вызывает бизнес-логику регистрации и возвращает токен доступа.
// Независимо от содержимого запроса новый пользователь получает роль USER.
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

	"github.com/avdeevakate/online-school/internal/http/response"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

// Handler управляет HTTP-запросами на регистрацию пользователей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики регистрации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req models.DummyRegister) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать нового пользователя
// @Description Создает пользователя с ролью USER и возвращает токен доступа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Данные нового пользователя"
// @Success 201 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата рождения"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	token, err := h.service.Register(r.Context(), req)
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		log.Warn("username already taken", slog.String("username", req.Username))
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
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(r, http.StatusInternalServerError, "could not register user"))
		return
	}

	log.Info("registered new user", slog.String("username", req.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created(r, "User registered successfully", map[string]any{
		"access_token": token,
	}))
}
