package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeevakate/online-school/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
// Нарушение уникальности username среди активных строк переводится
// в models.ErrUsernameTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (name, surname, username, email, password_hash, birth_date, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Username, user.Email, user.PasswordHash,
		user.BirthDate, user.Role).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает активного пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, surname, username, email, password_hash, birth_date,
			      role, created_at, updated_at
			  FROM users
			  WHERE username = $1 AND deleted_at IS NULL`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUserByID возвращает активного пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, surname, username, email, password_hash, birth_date,
			      role, created_at, updated_at
			  FROM users
			  WHERE id = $1 AND deleted_at IS NULL`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var email sql.NullString
	var birthDate sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Username, &email,
		&u.PasswordHash, &birthDate, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if email.Valid {
		u.Email = &email.String
	}
	if birthDate.Valid {
		u.BirthDate = &birthDate.Time
	}
	return u, nil
}

// UsernameExists проверяет, занят ли username другим активным пользователем.
func (s *Storage) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	const op = "storage.UsernameExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// id сравнивается как текст: пустой excludeID не приводится к uuid
	query := `SELECT EXISTS(
			      SELECT 1 FROM users
			      WHERE username = $1 AND deleted_at IS NULL AND id::text <> $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateUser перезаписывает изменяемые поля пользователя и возвращает
// количество изменённых строк. Нарушение уникальности username
// переводится в models.ErrUsernameTaken.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, surname = $2, username = $3, email = $4,
			      password_hash = $5, birth_date = $6, updated_at = now()
			  WHERE id = $7 AND deleted_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query,
		user.Name, user.Surname, user.Username, user.Email, user.PasswordHash,
		user.BirthDate, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListStudents возвращает активных студентов (роль USER) с пагинацией,
// отсортированных по времени последнего обновления.
func (s *Storage) ListStudents(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, surname, username, email, password_hash, birth_date,
			      role, created_at, updated_at
			  FROM users
			  WHERE deleted_at IS NULL AND role = $1
			  ORDER BY updated_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, models.RoleUser, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var email sql.NullString
		var birthDate sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.Surname, &u.Username, &email,
			&u.PasswordHash, &birthDate, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if email.Valid {
			u.Email = &email.String
		}
		if birthDate.Valid {
			u.BirthDate = &birthDate.Time
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountStudents подсчитывает активных студентов.
func (s *Storage) CountStudents(ctx context.Context) (int, error) {
	const op = "storage.CountStudents"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	query := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = $1`
	if err := s.DB.QueryRowContext(ctx, query, models.RoleUser).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// SoftDeleteUser в одной транзакции удаляет все записи пользователя на уроки
// и помечает его удалённым. Идентификатор строки не меняется; частично
// применённый каскад снаружи не наблюдаем.
func (s *Storage) SoftDeleteUser(ctx context.Context, id string) error {
	const op = "storage.SoftDeleteUser"
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
		`DELETE FROM user_lessons WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrStudentNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUserLessons возвращает краткие карточки активных уроков,
// на которые записан пользователь, по имени урока.
func (s *Storage) ListUserLessons(ctx context.Context, userID string) ([]models.LessonSummary, error) {
	const op = "storage.ListUserLessons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT l.id, l.name, l.duration, l.level, l.status, l.created_at, l.updated_at
			  FROM user_lessons ul
			  JOIN lessons l ON l.id = ul.lesson_id
			  WHERE ul.user_id = $1 AND l.deleted_at IS NULL
			  ORDER BY l.name`
	rows, err := s.DB.QueryContext(ctx, query, userID)
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
