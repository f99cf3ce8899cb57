// Package onlineschool предоставляет маршруты для основного приложения.
package onlineschool

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/avdeevakate/online-school/internal/http/handlers/auth/login"
	authregister "github.com/avdeevakate/online-school/internal/http/handlers/auth/register"
	"github.com/avdeevakate/online-school/internal/http/handlers/health"
	lessoncreate "github.com/avdeevakate/online-school/internal/http/handlers/lesson/create"
	lessonlist "github.com/avdeevakate/online-school/internal/http/handlers/lesson/list"
	lessonread "github.com/avdeevakate/online-school/internal/http/handlers/lesson/read"
	lessonregister "github.com/avdeevakate/online-school/internal/http/handlers/lesson/register"
	"github.com/avdeevakate/online-school/internal/http/handlers/lesson/registered"
	lessonremove "github.com/avdeevakate/online-school/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/avdeevakate/online-school/internal/http/handlers/lesson/update"
	"github.com/avdeevakate/online-school/internal/http/handlers/lesson/unregister"
	lessonusers "github.com/avdeevakate/online-school/internal/http/handlers/lesson/users"
	profileread "github.com/avdeevakate/online-school/internal/http/handlers/profile/read"
	profileupdate "github.com/avdeevakate/online-school/internal/http/handlers/profile/update"
	"github.com/avdeevakate/online-school/internal/http/handlers/public/greeting"
	"github.com/avdeevakate/online-school/internal/http/handlers/public/toplessons"
	studentcreate "github.com/avdeevakate/online-school/internal/http/handlers/student/create"
	studentlist "github.com/avdeevakate/online-school/internal/http/handlers/student/list"
	studentread "github.com/avdeevakate/online-school/internal/http/handlers/student/read"
	studentremove "github.com/avdeevakate/online-school/internal/http/handlers/student/remove"
	studentupdate "github.com/avdeevakate/online-school/internal/http/handlers/student/update"
	"github.com/avdeevakate/online-school/internal/http/middlewarectx"
	customjwt "github.com/avdeevakate/online-school/internal/lib/jwt"
	"github.com/avdeevakate/online-school/internal/models"
	authservice "github.com/avdeevakate/online-school/internal/services/auth"
	lessonservice "github.com/avdeevakate/online-school/internal/services/lesson"
	studentservice "github.com/avdeevakate/online-school/internal/services/student"
	userservice "github.com/avdeevakate/online-school/internal/services/user"
	"github.com/avdeevakate/online-school/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker customjwt.Maker, db *repository.Storage,
	authService *authservice.AuthService,
	lessonService *lessonservice.LessonService,
	studentService *studentservice.StudentService,
	userService *userservice.UserService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/", greeting.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger, func() error {
			return repository.CheckDatabaseReady(db)
		}).ServeHTTP)
		r.Get("/lessons/top", toplessons.New(logger, lessonService).ServeHTTP)
		r.Post("/auth/register", authregister.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией, доступна обеим ролям
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/lessons", lessonlist.New(logger, lessonService).ServeHTTP)
			// Доступно обеим ролям: администратор без записей получает пустую страницу
			r.Get("/lessons/registered", registered.New(logger, lessonService).ServeHTTP)
			r.Get("/users/profile", profileread.New(logger, userService).ServeHTTP)
			r.Patch("/users/profile", profileupdate.New(logger, userService).ServeHTTP)

			// Операции студента
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleUser))
				r.Post("/lessons/register", lessonregister.New(logger, lessonService).ServeHTTP)
				r.Delete("/lessons/unregister/{lessonId}", unregister.New(logger, lessonService).ServeHTTP)
			})

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Post("/lessons", lessoncreate.New(logger, lessonService).ServeHTTP)
				r.Patch("/lessons/{id}", lessonupdate.New(logger, lessonService).ServeHTTP)
				r.Delete("/lessons/{id}", lessonremove.New(logger, lessonService).ServeHTTP)
				r.Get("/lessons/{id}/users", lessonusers.New(logger, lessonService).ServeHTTP)
				r.Get("/students", studentlist.New(logger, studentService).ServeHTTP)
				r.Post("/students", studentcreate.New(logger, studentService).ServeHTTP)
				r.Get("/students/{id}", studentread.New(logger, studentService).ServeHTTP)
				r.Patch("/students/{id}", studentupdate.New(logger, studentService).ServeHTTP)
				r.Delete("/students/{id}", studentremove.New(logger, studentService).ServeHTTP)
			})

			// Чтение урока по ID регистрируется после статических путей,
			// чтобы не перехватывать /lessons/registered и /lessons/top
			r.Get("/lessons/{id}", lessonread.New(logger, lessonService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
