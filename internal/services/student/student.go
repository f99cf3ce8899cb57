// Package services содержит бизнес-логику административного управления
// студентами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevakate/online-school/internal/lib/password"
	"github.com/avdeevakate/online-school/internal/models"
)

// StudentRepository описывает контракт для работы со студентами в базе данных.
type StudentRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByID возвращает активного пользователя по ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UsernameExists проверяет, занят ли username другим активным пользователем.
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
	// UpdateUser обновляет пользователя и возвращает количество изменённых строк.
	UpdateUser(ctx context.Context, user models.User) (int, error)
	// ListStudents возвращает страницу активных студентов.
	ListStudents(ctx context.Context, limit, offset int) ([]*models.User, error)
	// CountStudents подсчитывает активных студентов.
	CountStudents(ctx context.Context) (int, error)
	// SoftDeleteUser мягко удаляет пользователя вместе с его записями на уроки.
	SoftDeleteUser(ctx context.Context, id string) error
	// ListUserLessons возвращает активные уроки пользователя.
	ListUserLessons(ctx context.Context, userID string) ([]models.LessonSummary, error)
}

// StudentService реализует административные операции над студентами.
type StudentService struct {
	repo StudentRepository
	log  *slog.Logger
}

// NewStudentService создает новый экземпляр StudentService.
func NewStudentService(repo StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{
		repo: repo,
		log:  log,
	}
}

// List возвращает страницу студентов вместе с их уроками.
func (s *StudentService) List(ctx context.Context, page, limit int) (*models.Paginated, error) {
	offset := (page - 1) * limit
	users, err := s.repo.ListStudents(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.StudentItem, 0, len(users))
	for _, user := range users {
		item, err := s.studentItem(ctx, user)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return &models.Paginated{Data: items, Meta: models.NewListMeta(total, page, limit)}, nil
}

// Read возвращает студента по ID вместе с его уроками.
// Пользователи с другими ролями для этого метода не существуют.
func (s *StudentService) Read(ctx context.Context, id string) (*models.StudentItem, error) {
	user, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.studentItem(ctx, user)
}

// Create создает нового студента с ролью USER и возвращает его представление.
func (s *StudentService) Create(ctx context.Context, req models.DummyStudent) (*models.StudentItem, error) {
	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		birthDate = parsed
	}

	taken, err := s.repo.UsernameExists(ctx, req.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrUsernameTaken
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
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
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new student", slog.String("id", id))

	created, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.studentItem(ctx, created)
}

// Update обновляет переданные поля студента и возвращает его представление.
func (s *StudentService) Update(ctx context.Context, id string, req models.DummyUpdateProfile) (*models.StudentItem, error) {
	user, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, user, req); err != nil {
		return nil, err
	}

	count, err := s.repo.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrStudentNotFound
	}

	updated, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.studentItem(ctx, updated)
}

// Remove мягко удаляет студента вместе с его записями на уроки.
// Идентификатор удалённого студента не переиспользуется.
func (s *StudentService) Remove(ctx context.Context, id string) error {
	if _, err := s.getStudent(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted student", slog.String("id", id))
	return nil
}

// getStudent возвращает активного пользователя с ролью USER.
// Прочие ошибки хранилища пробрасываются как есть.
func (s *StudentService) getStudent(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return nil, models.ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleUser {
		return nil, models.ErrStudentNotFound
	}
	return user, nil
}

// studentItem собирает представление студента со списком его уроков.
func (s *StudentService) studentItem(ctx context.Context, user *models.User) (*models.StudentItem, error) {
	lessons, err := s.repo.ListUserLessons(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []models.LessonSummary{}
	}
	return &models.StudentItem{
		ID:        user.ID,
		Name:      user.Name,
		Surname:   user.Surname,
		Username:  user.Username,
		BirthDate: user.BirthDate,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Lessons:   lessons,
	}, nil
}

// applyUpdate накладывает непустые поля запроса на пользователя.
// Смена username проверяется на уникальность среди остальных активных
// пользователей, новый пароль хэшируется.
func (s *StudentService) applyUpdate(ctx context.Context, user *models.User, req models.DummyUpdateProfile) error {
	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.repo.UsernameExists(ctx, *req.Username, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return models.ErrUsernameTaken
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
			return err
		}
		user.BirthDate = parsed
	}
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hashed
	}
	return nil
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
