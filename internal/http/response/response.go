// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Каждый ответ, успешный или
// ошибочный, заворачивается в единый конверт с кодом, сообщением, временем
// и путём запроса.
package response

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// Response описывает стандартный конверт JSON‑ответа сервера.
// Поле Success — исход запроса. Поле Data — данные ответа (только при успехе).
type Response struct {
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success    bool   `json:"success" example:"false"`
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"invalid request body"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// OK возвращает успешный Response со статусом 200 и переданными данными.
func OK(r *http.Request, message string, data any) Response {
	return Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
	}
}

// Created возвращает успешный Response со статусом 201.
func Created(r *http.Request, message string, data any) Response {
	return Response{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
	}
}

// Error возвращает Response с ошибкой, заданным статусом и сообщением.
func Error(r *http.Request, statusCode int, message string) Response {
	return Response{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
	}
}

// ValidationError формирует Response со статусом 422 на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(r *http.Request, errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(r, http.StatusUnprocessableEntity, strings.Join(errsMsgs, ", "))
}
