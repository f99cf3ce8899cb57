package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customjwt "github.com/avdeevakate/online-school/internal/lib/jwt"
	"github.com/avdeevakate/online-school/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	logger := newNoopLogger()
	maker := customjwt.NewJWTMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("user-id", "ivan42", models.RoleUser)
	require.NoError(t, err)

	var gotUserID, gotUsername, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(UserID).(string)
		gotUsername, _ = r.Context().Value(User).(string)
		gotRole, _ = r.Context().Value(Role).(string)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware(maker, logger)(next)

	t.Run("валидный токен наполняет контекст", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/lessons", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-id", gotUserID)
		assert.Equal(t, "ivan42", gotUsername)
		assert.Equal(t, models.RoleUser, gotRole)
	})

	t.Run("запрос без заголовка", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/lessons", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("токен с чужой подписью", func(t *testing.T) {
		otherMaker := customjwt.NewJWTMaker("other-secret", time.Hour)
		otherToken, err := otherMaker.GenerateToken("user-id", "ivan42", models.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/lessons", nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("просроченный токен", func(t *testing.T) {
		expiredMaker := customjwt.NewJWTMaker("test-secret", -time.Hour)
		expiredToken, err := expiredMaker.GenerateToken("user-id", "ivan42", models.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/lessons", nil)
		req.Header.Set("Authorization", "Bearer "+expiredToken)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	logger := newNoopLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		allowed        []string
		role           string
		expectedStatus int
	}{
		{"роль разрешена", []string{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"роль из нескольких разрешённых", []string{models.RoleAdmin, models.RoleUser}, models.RoleUser, http.StatusOK},
		{"роль запрещена", []string{models.RoleAdmin}, models.RoleUser, http.StatusForbidden},
		{"роль отсутствует в контексте", []string{models.RoleAdmin}, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(logger, tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodGet, "/students", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
