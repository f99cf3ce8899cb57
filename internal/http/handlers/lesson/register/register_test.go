package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	"github.com/avdeevakate/online-school/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, userID, lessonID string) error {
	args := m.Called(ctx, userID, lessonID)
	return args.Error(0)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const userID = "2f6b0a1e-96a7-4f2a-8d65-0df13dd61f7c"
	const lessonID = "a2a84b35-31ab-44b2-b1da-61fb32bba702"

	tests := []struct {
		name           string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешная запись на урок",
			body:   `{"id":"` + lessonID + `"}`,
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, userID, lessonID).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"Successfully registered for the lesson"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"id":`,
			userID:         userID,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "идентификатор передаётся в поле id",
			body:           `{"lessonId":"` + lessonID + `"}`,
			userID:         userID,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"success":false`,
		},
		{
			name:           "идентификатор урока не uuid",
			body:           `{"id":"123"}`,
			userID:         userID,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"success":false`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"id":"` + lessonID + `"}`,
			userID:         "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:   "урок не найден",
			body:   `{"id":"` + lessonID + `"}`,
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, userID, lessonID).Return(models.ErrLessonNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"lesson not found"`,
		},
		{
			name:   "повторная запись",
			body:   `{"id":"` + lessonID + `"}`,
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, userID, lessonID).Return(models.ErrAlreadyRegistered)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"user is already registered for this lesson"`,
		},
		{
			name:   "ошибка сервиса",
			body:   `{"id":"` + lessonID + `"}`,
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, userID, lessonID).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not register for lesson"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/lessons/register", strings.NewReader(tt.body))
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
