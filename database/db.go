package database

import (
	"fmt"
	"log/slog"

	"critichub/internal/api/models"
	"critichub/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the postgres connection and applies the schema.
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("connected to the database")
	return db, nil
}

func migrate(db *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.TitleGenre{},
		&models.Review{},
		&models.Comment{},
		&models.RefreshToken{},
	}

	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}
	return nil
}

// SeedSuperuser ensures an initial superuser exists for the configured
// admin email. No-op when the email is unset or the user already exists.
func SeedSuperuser(db *gorm.DB, adminEmail string, logger *slog.Logger) error {
	if adminEmail == "" {
		return nil
	}

	var user models.User
	err := db.Where(models.User{Email: adminEmail}).
		Attrs(models.User{
			Username:    "admin",
			Role:        models.RoleAdmin,
			IsStaff:     true,
			IsSuperuser: true,
		}).
		FirstOrCreate(&user).Error
	if err != nil {
		return fmt.Errorf("seed superuser: %w", err)
	}

	logger.Info("superuser ready", "email", adminEmail, "username", user.Username)
	return nil
}
