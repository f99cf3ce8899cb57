package register

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avdeevakate/online-school/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"name":"Ivan","surname":"Petrov","userName":"ivan42","birthDate":"2000-05-10","password":"secret123"}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(req models.DummyRegister) bool {
					return req.Username == "ivan42"
				})).Return("token-value", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"access_token":"token-value"`,
		},
		{
			name: "роль из запроса не влияет на регистрацию",
			body: `{"name":"Ivan","surname":"Petrov","userName":"ivan42","birthDate":"2000-05-10","password":"secret123","role":"ADMIN"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return("token-value", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"access_token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "username с недопустимыми символами",
			body:           `{"name":"Ivan","surname":"Petrov","userName":"ivan 42!","birthDate":"2000-05-10","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"success":false`,
		},
		{
			name: "занятый username",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return("", models.ErrUsernameTaken)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"username is already taken"`,
		},
		{
			name: "дата рождения в будущем",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return("", models.ErrBirthDateInFuture)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"birth date must not be in the future"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
