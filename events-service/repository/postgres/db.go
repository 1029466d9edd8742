package postgres

import (
	"fmt"
	"time"

	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the events database, applies pool settings and migrates the schema.
func Connect(cfg *config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the events service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Event{},
		&model.Guest{},
		&model.Staff{},
		&model.Booking{},
		&model.StaffAssignment{},
		&model.OrphanedReservation{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
