package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeevakate/online-school/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий запрос дальше только если
// роль из контекста входит в набор разрешённых для маршрута. Должен стоять
// после JWTMiddleware. При несовпадении роли возвращает 403 Forbidden.
func RequireRole(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.RequireRole"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("role not found in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(r, http.StatusUnauthorized, "unauthorized"))
				return
			}
			if _, ok := allowed[role]; !ok {
				log.Error("access denied", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(r, http.StatusForbidden, "access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
