package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeevakate/online-school/internal/models"
)

// CreateLesson вставляет новый урок и возвращает его ID.
// Нарушение уникальности названия среди активных уроков переводится
// в models.ErrLessonExists.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (string, error) {
	const op = "storage.CreateLesson"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lessons (name, duration, level, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		lesson.Name, lesson.Duration, lesson.Level, lesson.Status).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, models.ErrLessonExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLesson возвращает активный урок по его ID.
func (s *Storage) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration, level, status, created_at, updated_at
			  FROM lessons
			  WHERE id = $1 AND deleted_at IS NULL`
	var result models.Lesson
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.Name, &result.Duration, &result.Level,
		&result.Status, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrLessonNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetLessonItem возвращает нормализованное представление активного урока:
// количество записанных пользователей и признак записи вызывающего
// пользователя. callerID передаётся параметром запроса и сравнивается
// со строками сводной таблицы в SQL.
func (s *Storage) GetLessonItem(ctx context.Context, id, callerID string) (*models.LessonItem, error) {
	const op = "storage.GetLessonItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT l.id, l.name, l.duration, l.level, l.status, l.created_at, l.updated_at,
			      (SELECT COUNT(*) FROM user_lessons ul WHERE ul.lesson_id = l.id),
			      EXISTS(SELECT 1 FROM user_lessons ul
			             WHERE ul.lesson_id = l.id AND ul.user_id = $2)
			  FROM lessons l
			  WHERE l.id = $1 AND l.deleted_at IS NULL`
	var item models.LessonItem
	row := s.DB.QueryRowContext(ctx, query, id, callerID)
	if err := row.Scan(&item.ID, &item.Name, &item.Duration, &item.Level, &item.Status,
		&item.CreatedAt, &item.UpdatedAt, &item.Count.Users, &item.IsRegistered); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrLessonNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// ListLessonItems возвращает активные уроки с пагинацией, отсортированные
// по названию, в нормализованном представлении относительно callerID.
func (s *Storage) ListLessonItems(ctx context.Context, callerID string, limit, offset int) ([]models.LessonItem, error) {
	const op = "storage.ListLessonItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT l.id, l.name, l.duration, l.level, l.status, l.created_at, l.updated_at,
			      (SELECT COUNT(*) FROM user_lessons ul WHERE ul.lesson_id = l.id),
			      EXISTS(SELECT 1 FROM user_lessons ul
			             WHERE ul.lesson_id = l.id AND ul.user_id = $1)
			  FROM lessons l
			  WHERE l.deleted_at IS NULL
			  ORDER BY l.name
			  LIMIT $2 OFFSET $3`
	return s.queryLessonItems(ctx, op, query, callerID, limit, offset)
}

// ListRegisteredLessonItems возвращает уроки, на которые записан пользователь,
// с пагинацией и сортировкой по названию урока.
func (s *Storage) ListRegisteredLessonItems(ctx context.Context, userID string, limit, offset int) ([]models.LessonItem, error) {
	const op = "storage.ListRegisteredLessonItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT l.id, l.name, l.duration, l.level, l.status, l.created_at, l.updated_at,
			      (SELECT COUNT(*) FROM user_lessons c WHERE c.lesson_id = l.id),
			      true
			  FROM user_lessons ul
			  JOIN lessons l ON l.id = ul.lesson_id
			  WHERE ul.user_id = $1 AND l.deleted_at IS NULL
			  ORDER BY l.name
			  LIMIT $2 OFFSET $3`
	return s.queryLessonItems(ctx, op, query, userID, limit, offset)
}

func (s *Storage) queryLessonItems(ctx context.Context, op, query string, args ...any) ([]models.LessonItem, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.LessonItem
	for rows.Next() {
		var item models.LessonItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Duration, &item.Level, &item.Status,
			&item.CreatedAt, &item.UpdatedAt, &item.Count.Users, &item.IsRegistered); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountLessons подсчитывает активные уроки.
func (s *Storage) CountLessons(ctx context.Context) (int, error) {
	const op = "storage.CountLessons"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lessons WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CountRegisteredLessons подсчитывает активные уроки пользователя.
func (s *Storage) CountRegisteredLessons(ctx context.Context, userID string) (int, error) {
	const op = "storage.CountRegisteredLessons"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	query := `SELECT COUNT(*)
			  FROM user_lessons ul
			  JOIN lessons l ON l.id = ul.lesson_id
			  WHERE ul.user_id = $1 AND l.deleted_at IS NULL`
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// ListTopLessons возвращает первые n активных уроков по названию
// для публичной витрины.
func (s *Storage) ListTopLessons(ctx context.Context, n int) ([]models.LessonSummary, error) {
	const op = "storage.ListTopLessons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, duration, level, status, created_at, updated_at
			  FROM lessons
			  WHERE deleted_at IS NULL
			  ORDER BY name
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.LessonSummary
	for rows.Next() {
		var item models.LessonSummary
		if err := rows.Scan(&item.ID, &item.Name, &item.Duration, &item.Level,
			&item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateLesson перезаписывает изменяемые поля урока и возвращает количество
// изменённых строк. Нарушение уникальности названия переводится
// в models.ErrLessonExists.
func (s *Storage) UpdateLesson(ctx context.Context, lesson models.Lesson) (int, error) {
	const op = "storage.UpdateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lessons
			  SET name = $1, duration = $2, level = $3, status = $4, updated_at = now()
			  WHERE id = $5 AND deleted_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query,
		lesson.Name, lesson.Duration, lesson.Level, lesson.Status, lesson.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrLessonExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SoftDeleteLesson в одной транзакции удаляет все записи на урок и помечает
// его удалённым. Либо применяются оба шага, либо урок остаётся активным
// со всеми записями.
func (s *Storage) SoftDeleteLesson(ctx context.Context, id string) error {
	const op = "storage.SoftDeleteLesson"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_lessons WHERE lesson_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE lessons SET deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrLessonNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListLessonStudents возвращает состав урока с пагинацией: активные
// пользователи с временем записи, самые свежие записи первыми.
func (s *Storage) ListLessonStudents(ctx context.Context, lessonID string, limit, offset int) ([]models.RosterItem, error) {
	const op = "storage.ListLessonStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ul.assigned_at, u.id, u.name, u.surname, u.username
			  FROM user_lessons ul
			  JOIN users u ON u.id = ul.user_id
			  WHERE ul.lesson_id = $1 AND u.deleted_at IS NULL
			  ORDER BY ul.assigned_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, lessonID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.RosterItem
	for rows.Next() {
		var item models.RosterItem
		if err := rows.Scan(&item.AssignedAt, &item.User.ID, &item.User.Name,
			&item.User.Surname, &item.User.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListLessonUsers возвращает краткие карточки всех активных пользователей,
// записанных на урок, без пагинации.
func (s *Storage) ListLessonUsers(ctx context.Context, lessonID string) ([]models.UserSummary, error) {
	const op = "storage.ListLessonUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.name, u.surname, u.username
			  FROM user_lessons ul
			  JOIN users u ON u.id = ul.user_id
			  WHERE ul.lesson_id = $1 AND u.deleted_at IS NULL
			  ORDER BY ul.assigned_at`
	rows, err := s.DB.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Surname, &u.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountLessonStudents подсчитывает активных пользователей, записанных на урок.
func (s *Storage) CountLessonStudents(ctx context.Context, lessonID string) (int, error) {
	const op = "storage.CountLessonStudents"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	query := `SELECT COUNT(*)
			  FROM user_lessons ul
			  JOIN users u ON u.id = ul.user_id
			  WHERE ul.lesson_id = $1 AND u.deleted_at IS NULL`
	if err := s.DB.QueryRowContext(ctx, query, lessonID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
