package registered

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	customjwt "github.com/avdeevakate/online-school/internal/lib/jwt"
	"github.com/avdeevakate/online-school/internal/models"
)

// MockService реализует интерфейс registered.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListRegistered(ctx context.Context, userID string, page, limit int) (*models.Paginated, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paginated), args.Error(1)
}

func TestRegisteredHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const userID = "2f6b0a1e-96a7-4f2a-8d65-0df13dd61f7c"

	t.Run("страница уроков пользователя", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListRegistered", mock.Anything, userID, 1, 10).
			Return(&models.Paginated{
				Data: []models.LessonItem{{ID: "lesson-1", Name: "Algebra", IsRegistered: true}},
				Meta: models.NewListMeta(1, 1, 10),
			}, nil)

		handler := New(logger, mockService)

		req := httptest.NewRequest(http.MethodGet, "/lessons/registered", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Algebra"`)
		mockService.AssertExpectations(t)
	})

	t.Run("нет пользователя в контексте", func(t *testing.T) {
		mockService := new(MockService)
		handler := New(logger, mockService)

		req := httptest.NewRequest(http.MethodGet, "/lessons/registered", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "ListRegistered",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// Маршрут доступен обеим ролям: администратор без записей на уроки
// получает пустую страницу, а не отказ в доступе.
func TestRegisteredHandler_AdminGetsEmptyPage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	maker := customjwt.NewJWTMaker("test-secret", time.Hour)

	const adminID = "c0a1e2f6-96a7-4f2a-8d65-0df13dd61f7c"
	token, err := maker.GenerateToken(adminID, "admin", models.RoleAdmin)
	require.NoError(t, err)

	mockService := new(MockService)
	mockService.On("ListRegistered", mock.Anything, adminID, 1, 10).
		Return(&models.Paginated{
			Data: []models.LessonItem{},
			Meta: models.NewListMeta(0, 1, 10),
		}, nil)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(maker, logger))
		r.Get("/lessons/registered", New(logger, mockService).ServeHTTP)
	})

	req := httptest.NewRequest(http.MethodGet, "/lessons/registered", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"data":[]`),
		"response body should contain an empty page, got %s", w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":0`)
	mockService.AssertExpectations(t)
}
