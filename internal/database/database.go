package database

import (
	"context"
	"errors"
	"fmt"

	"commissionhub/config"
	"commissionhub/internal/auth"
	"commissionhub/internal/domain"
	"commissionhub/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// one writer at a time; shared-cache memory databases need a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Notification{},
		&models.UserNotification{},
		&models.SellerInterest{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the operator account from config when it does not exist yet.
// Registration never hands out the admin role, so this is the only way in.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg *config.AdminConfig, log *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Info("admin seed skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			return fmt.Errorf("seed admin: %s already registered with role %s", cfg.Email, existing.Role)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Name:         cfg.Name,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}
	log.Info("admin account seeded", zap.String("email", admin.Email), zap.String("id", admin.ID))
	return nil
}
