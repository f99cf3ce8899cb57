// Package services содержит бизнес-логику для управления уроками, записями
// на уроки и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeevakate/online-school/internal/models"
)

// routingKeyEvent — ключ маршрутизации событий записи на урок.
const routingKeyEvent = "event"

// topLessonsLimit — размер публичной выборки самых популярных уроков.
const topLessonsLimit = 5

// LessonRepository определяет методы для работы с уроками и записями в хранилище.
type LessonRepository interface {
	// CreateLesson добавляет новый урок и возвращает его ID.
	CreateLesson(ctx context.Context, lesson models.Lesson) (string, error)
	// GetLesson возвращает активный урок по ID.
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)
	// GetLessonItem возвращает урок с агрегатами относительно пользователя.
	GetLessonItem(ctx context.Context, id, callerID string) (*models.LessonItem, error)
	// ListLessonItems возвращает список уроков с пагинацией.
	ListLessonItems(ctx context.Context, callerID string, limit, offset int) ([]models.LessonItem, error)
	// CountLessons подсчитывает активные уроки.
	CountLessons(ctx context.Context) (int, error)
	// ListRegisteredLessonItems возвращает уроки, на которые записан пользователь.
	ListRegisteredLessonItems(ctx context.Context, userID string, limit, offset int) ([]models.LessonItem, error)
	// CountRegisteredLessons подсчитывает уроки пользователя.
	CountRegisteredLessons(ctx context.Context, userID string) (int, error)
	// ListTopLessons возвращает n уроков с наибольшим числом записей.
	ListTopLessons(ctx context.Context, n int) ([]models.LessonSummary, error)
	// UpdateLesson обновляет урок и возвращает количество изменённых строк.
	UpdateLesson(ctx context.Context, lesson models.Lesson) (int, error)
	// SoftDeleteLesson мягко удаляет урок вместе с записями на него.
	SoftDeleteLesson(ctx context.Context, id string) error
	// ListLessonStudents возвращает состав урока с пагинацией.
	ListLessonStudents(ctx context.Context, lessonID string, limit, offset int) ([]models.RosterItem, error)
	// CountLessonStudents подсчитывает записанных на урок пользователей.
	CountLessonStudents(ctx context.Context, lessonID string) (int, error)
	// ListLessonUsers возвращает всех записанных на урок пользователей.
	ListLessonUsers(ctx context.Context, lessonID string) ([]models.UserSummary, error)
	// EnrollmentExists проверяет наличие записи пользователя на урок.
	EnrollmentExists(ctx context.Context, userID, lessonID string) (bool, error)
	// CreateEnrollment записывает пользователя на урок.
	CreateEnrollment(ctx context.Context, userID, lessonID string) error
	// RemoveEnrollment снимает запись и возвращает количество удалённых строк.
	RemoveEnrollment(ctx context.Context, userID, lessonID string) (int, error)
	// GetUserByID возвращает активного пользователя по ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует доменные события в очередь уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// LessonService реализует бизнес-логику работы с уроками, включая кеширование
// и публикацию событий записи.
type LessonService struct {
	repo      LessonRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewLessonService создает новый экземпляр LessonService.
func NewLessonService(repo LessonRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *LessonService {
	return &LessonService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// List возвращает страницу уроков с агрегатами относительно пользователя.
func (s *LessonService) List(ctx context.Context, callerID string, page, limit int) (*models.Paginated, error) {
	offset := (page - 1) * limit
	items, err := s.repo.ListLessonItems(ctx, callerID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountLessons(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.LessonItem{}
	}
	return &models.Paginated{Data: items, Meta: models.NewListMeta(total, page, limit)}, nil
}

// Read возвращает урок с агрегатами относительно пользователя.
func (s *LessonService) Read(ctx context.Context, id, callerID string) (*models.LessonItem, error) {
	return s.repo.GetLessonItem(ctx, id, callerID)
}

// ListRegistered возвращает страницу уроков, на которые записан пользователь.
func (s *LessonService) ListRegistered(ctx context.Context, userID string, page, limit int) (*models.Paginated, error) {
	offset := (page - 1) * limit
	items, err := s.repo.ListRegisteredLessonItems(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountRegisteredLessons(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.LessonItem{}
	}
	return &models.Paginated{Data: items, Meta: models.NewListMeta(total, page, limit)}, nil
}

// Register записывает пользователя на урок. Урок должен существовать,
// повторная запись на тот же урок запрещена. После успешной записи
// публикуется событие для отправки уведомления.
func (s *LessonService) Register(ctx context.Context, userID, lessonID string) error {
	lesson, err := s.ensureLesson(ctx, lessonID)
	if err != nil {
		return err
	}

	exists, err := s.repo.EnrollmentExists(ctx, userID, lessonID)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrAlreadyRegistered
	}

	if err := s.repo.CreateEnrollment(ctx, userID, lessonID); err != nil {
		return err
	}
	s.log.Info("user registered for lesson",
		slog.String("user_id", userID), slog.String("lesson_id", lessonID))

	s.publishEvent(ctx, userID, lesson.Name, models.EnrollmentActionRegistered)
	return nil
}

// Unregister снимает запись пользователя с урока. Отсутствие записи — ошибка.
func (s *LessonService) Unregister(ctx context.Context, userID, lessonID string) error {
	lesson, err := s.ensureLesson(ctx, lessonID)
	if err != nil {
		return err
	}

	count, err := s.repo.RemoveEnrollment(ctx, userID, lessonID)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrNotRegistered
	}
	s.log.Info("user unregistered from lesson",
		slog.String("user_id", userID), slog.String("lesson_id", lessonID))

	s.publishEvent(ctx, userID, lesson.Name, models.EnrollmentActionUnregistered)
	return nil
}

// Create создает новый урок и возвращает его административное представление.
func (s *LessonService) Create(ctx context.Context, req models.DummyLesson) (*models.LessonAdminItem, error) {
	lesson := models.Lesson{
		Name:     req.Name,
		Duration: req.Duration,
		Level:    req.Level,
		Status:   req.Status,
	}
	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new lesson", slog.String("id", id))
	s.invalidateLessonCaches(id)

	created, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.adminItem(ctx, created)
}

// Update обновляет переданные поля урока и возвращает его административное
// представление.
func (s *LessonService) Update(ctx context.Context, id string, req models.DummyUpdateLesson) (*models.LessonAdminItem, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		lesson.Name = *req.Name
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Level != nil {
		lesson.Level = *req.Level
	}
	if req.Status != nil {
		lesson.Status = *req.Status
	}

	count, err := s.repo.UpdateLesson(ctx, *lesson)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrLessonNotFound
	}
	s.invalidateLessonCaches(id)

	updated, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.adminItem(ctx, updated)
}

// Remove мягко удаляет урок вместе с записями на него.
// Идентификатор удалённого урока не переиспользуется.
func (s *LessonService) Remove(ctx context.Context, id string) error {
	if err := s.repo.SoftDeleteLesson(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted lesson", slog.String("id", id))
	s.invalidateLessonCaches(id)
	return nil
}

// Roster возвращает страницу состава урока для административного просмотра.
func (s *LessonService) Roster(ctx context.Context, lessonID string, page, limit int) (*models.Paginated, error) {
	if _, err := s.ensureLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	items, err := s.repo.ListLessonStudents(ctx, lessonID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountLessonStudents(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.RosterItem{}
	}
	return &models.Paginated{Data: items, Meta: models.NewListMeta(total, page, limit)}, nil
}

// Top возвращает уроки с наибольшим числом записей, используя кеш
// или репозиторий.
func (s *LessonService) Top(ctx context.Context) ([]models.LessonSummary, error) {
	var result []models.LessonSummary
	found, err := s.cache.Get(cacheKeyTop, &result)
	if err != nil {
		s.log.Warn("failed to read top lessons from cache", slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListTopLessons(ctx, topLessonsLimit)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []models.LessonSummary{}
	}
	if err := s.cache.Set(cacheKeyTop, result, time.Hour); err != nil {
		s.log.Warn("failed to cache top lessons", slog.Any("err", err))
	}
	return result, nil
}

const cacheKeyTop = "lessons:top"

// ensureLesson возвращает активный урок, используя кеш или репозиторий.
func (s *LessonService) ensureLesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson *models.Lesson
	cacheKey := fmt.Sprintf("lesson:%s", id)
	found, err := s.cache.Get(cacheKey, &lesson)
	if err != nil {
		s.log.Warn("failed to read lesson from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && lesson != nil {
		return lesson, nil
	}

	lesson, err = s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, lesson, time.Hour); err != nil {
		s.log.Warn("failed to cache lesson", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return lesson, nil
}

// invalidateLessonCaches сбрасывает кеш урока и публичной выборки популярных.
func (s *LessonService) invalidateLessonCaches(id string) {
	for _, key := range []string{fmt.Sprintf("lesson:%s", id), cacheKeyTop} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}

// adminItem собирает административное представление урока со списком студентов.
func (s *LessonService) adminItem(ctx context.Context, lesson *models.Lesson) (*models.LessonAdminItem, error) {
	students, err := s.repo.ListLessonUsers(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.UserSummary{}
	}
	return &models.LessonAdminItem{
		ID:        lesson.ID,
		Name:      lesson.Name,
		Duration:  lesson.Duration,
		Level:     lesson.Level,
		Status:    lesson.Status,
		CreatedAt: lesson.CreatedAt,
		UpdatedAt: lesson.UpdatedAt,
		Students:  students,
	}, nil
}

// publishEvent отправляет событие записи в очередь уведомлений.
// Сбой публикации не откатывает запись: уведомление вторично.
func (s *LessonService) publishEvent(ctx context.Context, userID, lessonName, action string) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load user for enrollment event", slog.Any("err", err))
		return
	}
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	event := models.EnrollmentEvent{
		Email:      email,
		Username:   user.Username,
		Name:       user.Name,
		LessonName: lessonName,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(routingKeyEvent, event); err != nil {
		s.log.Warn("failed to publish enrollment event", slog.Any("err", err))
	}
}
