package repository

import (
	"context"
	"fmt"

	"github.com/avdeevakate/online-school/internal/models"
)

// SeedCatalog в одной транзакции создаёт администратора и стартовый каталог
// уроков. Вставки идемпотентны: занятые username и названия уроков среди
// активных строк пропускаются, повторный запуск ничего не дублирует.
func (s *Storage) SeedCatalog(ctx context.Context, admin models.User, lessons []models.Lesson) error {
	const op = "storage.SeedCatalog"
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
		`INSERT INTO users (name, surname, username, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) WHERE deleted_at IS NULL DO NOTHING`,
		admin.Name, admin.Surname, admin.Username, admin.PasswordHash, models.RoleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, lesson := range lessons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (name, duration, level, status)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) WHERE deleted_at IS NULL DO NOTHING`,
			lesson.Name, lesson.Duration, lesson.Level, lesson.Status); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
