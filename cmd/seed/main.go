// Команда seed наполняет базу стартовым каталогом: учётной записью
// администратора и набором уроков. Повторный запуск безопасен,
// существующие записи не перезаписываются.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/avdeevakate/online-school/internal/config"
	"github.com/avdeevakate/online-school/internal/lib/password"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/migrations"
	"github.com/avdeevakate/online-school/internal/models"
	"github.com/avdeevakate/online-school/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting seed", slog.String("env", cfg.Env))

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	hashed, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		logger.Error("failed to hash admin password", sl.Err(err))
		os.Exit(1)
	}
	admin := models.User{
		Name:         "Admin",
		Surname:      "Admin",
		Username:     cfg.AdminUsername,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}

	lessons := []models.Lesson{
		{Name: "Mathematics", Duration: 12, Level: models.LevelBeginner, Status: models.StatusActive},
		{Name: "Physics", Duration: 10, Level: models.LevelIntermediate, Status: models.StatusActive},
		{Name: "Chemistry", Duration: 8, Level: models.LevelIntermediate, Status: models.StatusActive},
		{Name: "Biology", Duration: 6, Level: models.LevelBeginner, Status: models.StatusActive},
		{Name: "Computer Science", Duration: 16, Level: models.LevelAdvanced, Status: models.StatusActive},
		{Name: "English", Duration: 10, Level: models.LevelBeginner, Status: models.StatusInactive},
	}

	if err := db.SeedCatalog(context.Background(), admin, lessons); err != nil {
		logger.Error("failed to seed catalog", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("seed completed",
		slog.String("admin", cfg.AdminUsername), slog.Int("lessons", len(lessons)))
}
