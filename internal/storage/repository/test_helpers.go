package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/avdeevakate/online-school/internal/migrations"
)

// postgresPort — порт PostgreSQL внутри тестового контейнера.
const postgresPort nat.Port = "5432/tcp"

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userID, name, surname, username, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, name, surname, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, name, surname, username, passwordHash, role)
	require.NoError(t, err)
}

// CreateUserWithEmail создает тестового пользователя с email и датой рождения
func (f *TestDataFactory) CreateUserWithEmail(t *testing.T, userID, name, surname, username, passwordHash, role, email string, birthDate time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, name, surname, username, password_hash, role, email, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, name, surname, username, passwordHash, role, email, birthDate)
	require.NoError(t, err)
}

// CreateLesson создает тестовый урок
func (f *TestDataFactory) CreateLesson(t *testing.T, lessonID, name string, duration int, level, status string) {
	_, err := f.storage.DB.Exec(`INSERT INTO lessons (id, name, duration, level, status)
		VALUES ($1, $2, $3, $4, $5)`,
		lessonID, name, duration, level, status)
	require.NoError(t, err)
}

// CreateEnrollment создает тестовую запись пользователя на урок
func (f *TestDataFactory) CreateEnrollment(t *testing.T, userID, lessonID string) {
	_, err := f.storage.DB.Exec(`INSERT INTO user_lessons (user_id, lesson_id)
		VALUES ($1, $2)`,
		userID, lessonID)
	require.NoError(t, err)
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserSoftDeleted проверяет, что пользователь помечен удалённым
func (v *TestVerification) VerifyUserSoftDeleted(t *testing.T, userID string) {
	var count int
	err := v.storage.DB.QueryRow(
		"SELECT COUNT(*) FROM users WHERE id = $1 AND deleted_at IS NOT NULL", userID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyLessonSoftDeleted проверяет, что урок помечен удалённым
func (v *TestVerification) VerifyLessonSoftDeleted(t *testing.T, lessonID string) {
	var count int
	err := v.storage.DB.QueryRow(
		"SELECT COUNT(*) FROM lessons WHERE id = $1 AND deleted_at IS NOT NULL", lessonID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyEnrollmentCount проверяет количество записей пользователя на уроки
func (v *TestVerification) VerifyEnrollmentCount(t *testing.T, userID string, expected int) {
	var count int
	err := v.storage.DB.QueryRow(
		"SELECT COUNT(*) FROM user_lessons WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyLessonEnrollmentCount проверяет количество записей на урок
func (v *TestVerification) VerifyLessonEnrollmentCount(t *testing.T, lessonID string, expected int) {
	var count int
	err := v.storage.DB.QueryRow(
		"SELECT COUNT(*) FROM user_lessons WHERE lesson_id = $1", lessonID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
// и применяет миграции проекта
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "failed to get host")
	port, err := pgContainer.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable",
		host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	err = migrations.Run(storage.DB, migrationsPath)
	require.NoError(t, err, "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
