package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/config"
	logging "github.com/Micheduc25/evaluation-platform-sub000/internal/logging"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = gormlogger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.Submission{},
		&models.Answer{},
		&models.ViolationEvent{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	eventsIndex := `CREATE INDEX IF NOT EXISTS idx_violation_events_timeline ON violation_events (submission_id, created_at DESC);`
	if err := DB.Exec(eventsIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on violation events table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
