package unregister

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	"github.com/avdeevakate/online-school/internal/models"
)

// MockService реализует интерфейс unregister.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Unregister(ctx context.Context, userID, lessonID string) error {
	args := m.Called(ctx, userID, lessonID)
	return args.Error(0)
}

func TestUnregisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const userID = "2f6b0a1e-96a7-4f2a-8d65-0df13dd61f7c"
	const lessonID = "a2a84b35-31ab-44b2-b1da-61fb32bba702"

	tests := []struct {
		name           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешная отписка от урока",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, userID, lessonID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Successfully unregistered from the lesson"`,
		},
		{
			name:           "нет пользователя в контексте",
			userID:         "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:   "урок не найден",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, userID, lessonID).Return(models.ErrLessonNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"lesson not found"`,
		},
		{
			name:   "записи нет",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, userID, lessonID).Return(models.ErrNotRegistered)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"user is not registered for this lesson"`,
		},
		{
			name:   "ошибка сервиса",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, userID, lessonID).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not unregister from lesson"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/lessons/unregister/"+lessonID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("lessonId", lessonID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserID, tt.userID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

// Некорректный идентификатор урока в пути отсекается до обращения к сервису:
// такой записи заведомо нет, ответ — 404, а не ошибка сервера.
func TestUnregisterHandler_MalformedID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodDelete, "/lessons/unregister/abc", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("lessonId", "abc")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserID, "2f6b0a1e-96a7-4f2a-8d65-0df13dd61f7c")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"lesson not found"`),
		"response body should contain %s, got %s", `"lesson not found"`, w.Body.String())
	mockService.AssertNotCalled(t, "Unregister", mock.Anything, mock.Anything, mock.Anything)
}
