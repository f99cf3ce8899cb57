package read

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

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id, callerID string) (*models.LessonItem, error) {
	args := m.Called(ctx, id, callerID)
	if res := args.Get(0); res != nil {
		return res.(*models.LessonItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
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
			name:   "успешное чтение урока",
			userID: userID,
			setupMock: func(m *MockService) {
				item := &models.LessonItem{
					ID:           lessonID,
					Name:         "Mathematics",
					Duration:     12,
					Level:        models.LevelBeginner,
					Status:       models.StatusActive,
					Count:        models.LessonCount{Users: 3},
					IsRegistered: true,
				}
				m.On("Read", mock.Anything, lessonID, userID).Return(item, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Mathematics"`,
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
				m.On("Read", mock.Anything, lessonID, userID).Return(nil, models.ErrLessonNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"lesson not found"`,
		},
		{
			name:   "ошибка сервиса",
			userID: userID,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, lessonID, userID).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not read lesson"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/lessons/"+lessonID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", lessonID)
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

// Некорректный идентификатор в пути отсекается до обращения к сервису:
// такого урока заведомо нет, ответ — 404, а не ошибка сервера.
func TestReadHandler_MalformedID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/lessons/abc", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserID, "2f6b0a1e-96a7-4f2a-8d65-0df13dd61f7c")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"lesson not found"`),
		"response body should contain %s, got %s", `"lesson not found"`, w.Body.String())
	mockService.AssertNotCalled(t, "Read", mock.Anything, mock.Anything, mock.Anything)
}
