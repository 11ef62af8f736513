package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tutorlink_backend/internal/config"
	"tutorlink_backend/internal/models"
	chatmodels "tutorlink_backend/internal/models/chat"
)

var gormDB *gorm.DB

// ConnectGorm opens (or reuses) the GORM connection using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	// The chat tables live in their own schema.
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS chat").Error; err != nil {
		return fmt.Errorf("failed to create chat schema: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.TutorProfile{},
		&models.Session{},
		&models.Review{},
		&models.PaymentMethod{},
		&models.Notification{},
		&chatmodels.Conversation{},
		&chatmodels.Message{},
	)
}
