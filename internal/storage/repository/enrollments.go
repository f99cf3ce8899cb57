package repository

import (
	"context"
	"fmt"

	"github.com/avdeevakate/online-school/internal/models"
)

// EnrollmentExists проверяет наличие записи пары (userID, lessonID).
func (s *Storage) EnrollmentExists(ctx context.Context, userID, lessonID string) (bool, error) {
	const op = "storage.EnrollmentExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(
			      SELECT 1 FROM user_lessons
			      WHERE user_id = $1 AND lesson_id = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID, lessonID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateEnrollment вставляет запись на урок с текущим временем.
// Гонка двух конкурентных записей одной пары разрешается составным
// первичным ключом: второй INSERT переводится в models.ErrAlreadyRegistered.
func (s *Storage) CreateEnrollment(ctx context.Context, userID, lessonID string) error {
	const op = "storage.CreateEnrollment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_lessons (user_id, lesson_id) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, userID, lessonID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrAlreadyRegistered)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveEnrollment удаляет запись пары и возвращает количество удалённых строк.
func (s *Storage) RemoveEnrollment(ctx context.Context, userID, lessonID string) (int, error) {
	const op = "storage.RemoveEnrollment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM user_lessons WHERE user_id = $1 AND lesson_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userID, lessonID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
