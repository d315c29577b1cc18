package database

import (
	"fmt"
	"time"

	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres pool and migrates the tables.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Every write here is a single statement.
		SkipDefaultTransaction: true,
		// Lets services see gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
		TranslateError: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Log.Info("Database connection established")

	logger.Log.Info("Running Migrations...")
	if err := db.AutoMigrate(&models.User{}, &models.Application{}, &models.Event{}, &models.Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
