package database

import (
	"fmt"

	"github.com/haque51/lumina-finance-backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Category{},
		&models.Budget{},
		&models.Goal{},
		&models.RecurringRule{},
		&models.ExchangeRate{},
		&models.MonthlySnapshot{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
