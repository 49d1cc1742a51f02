package database

import (
	"fmt"
	"log/slog"

	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SSLMode == "disable" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Franchise{},
		&models.User{},
		&models.FranchiseMembership{},
		&models.Vehicle{},
		&models.UsageLog{},
		&models.FuelEntry{},
		&models.Inspection{},
		&models.Issue{},
		&models.MaintenancePolicy{},
		&models.ScheduledMaintenance{},
		&models.PushSubscription{},
	)
}
