// Package services содержит бизнес-логику работы пользователя
// с собственным профилем.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevakate/online-school/internal/lib/password"
	"github.com/avdeevakate/online-school/internal/models"
)

// ProfileRepository описывает контракт для работы с профилями в базе данных.
type ProfileRepository interface {
	// GetUserByID возвращает активного пользователя по ID
	// или models.ErrProfileNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UsernameExists проверяет, занят ли username другим активным пользователем.
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
	// UpdateUser обновляет пользователя и возвращает количество изменённых строк.
	UpdateUser(ctx context.Context, user models.User) (int, error)
}

// UserService реализует операции пользователя над собственным профилем.
type UserService struct {
	repo ProfileRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo ProfileRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// GetProfile возвращает профиль пользователя, выполняющего запрос.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// UpdateProfile обновляет переданные поля собственного профиля
// и возвращает его новое состояние.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.DummyUpdateProfile) (*models.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.repo.UsernameExists(ctx, *req.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.BirthDate != nil {
		parsed, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		user.BirthDate = parsed
	}
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	count, err := s.repo.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrProfileNotFound
	}
	s.log.Info("updated profile", slog.String("id", userID))

	updated, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(updated), nil
}

// profileOf собирает публичное представление профиля.
func profileOf(user *models.User) *models.Profile {
	return &models.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Surname:   user.Surname,
		Username:  user.Username,
		BirthDate: user.BirthDate,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
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
