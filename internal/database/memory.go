package database

import (
	"commissionhub/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenMemory opens a private, migrated in-memory SQLite database.
func OpenMemory() (*gorm.DB, error) {
	db, err := NewDB(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
