package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/config"
	"github.com/andersonraduan/reserva-rapida-pt/internal/logger"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Get().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		logger.Get().Fatal("failed to migrate", zap.Error(err))
	}

	if cfg.SeedDemo {
		if err := SeedDemo(db); err != nil {
			logger.Get().Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Professional{},
		&models.Service{},
		&models.AvailabilityRule{},
		&models.AvailabilityException{},
		&models.Booking{},
		&models.Payment{},
		&models.PlatformConfig{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	return ensurePlatformConfig(db)
}

// ensurePlatformConfig garante a linha única de configuração global.
func ensurePlatformConfig(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PlatformConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(models.DefaultPlatformConfig()).Error
}
