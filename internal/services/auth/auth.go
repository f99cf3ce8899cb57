// Package services содержит логику бизнес-уровня для регистрации
// и аутентификации пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevakate/online-school/internal/lib/jwt"
	"github.com/avdeevakate/online-school/internal/lib/password"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает активного пользователя по username
	// или models.ErrProfileNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UsernameExists проверяет, занят ли username другим активным пользователем.
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
}

// AuthService отвечает за регистрацию и вход пользователей.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создаёт нового пользователя и возвращает токен доступа.
// Роль из запроса игнорируется: публичная регистрация всегда выдаёт USER,
// администраторы создаются только через посев.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return "", err
	}

	taken, err := s.users.UsernameExists(ctx, req.Username, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", models.ErrUsernameTaken
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		BirthDate:    birthDate,
		Role:         models.RoleUser,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("registered new user", slog.String("id", id))

	return s.jwtMaker.GenerateToken(id, user.Username, user.Role)
}

// Login проверяет учётные данные и возвращает токен доступа.
// Неизвестный username и неверный пароль дают одинаковую ошибку,
// чтобы не раскрывать существование учётной записи.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Warn("login failed", slog.String("username", username), sl.Err(err))
		return "", models.ErrWrongCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.ErrWrongCredentials
	}
	return s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
}

// parseBirthDate разбирает дату рождения в формате 2006-01-02
// и отклоняет даты из будущего.
func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	birthDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBirthDate, err)
	}
	if birthDate.After(time.Now()) {
		return nil, models.ErrBirthDateInFuture
	}
	return &birthDate, nil
}
