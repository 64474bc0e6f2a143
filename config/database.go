// payment-reminder/config/database.go

package config

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/models"
)

// OpenDB connects to Postgres and migrates the schema. The handle is returned
// to the caller; nothing in this package keeps a reference to it.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.Client{}, &models.Payment{}, &models.EmailLog{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	slog.Info("connected to database")
	return db, nil
}
