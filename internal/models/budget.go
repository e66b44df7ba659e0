package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget allocates an amount to one expense category for one month.
// Spend against it is computed on read, never stored.
type Budget struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index;not null"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budget_cat_month"`
	Month      string          `gorm:"size:7;not null;uniqueIndex:idx_budget_cat_month"` // YYYY-MM
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Category Category `gorm:"foreignKey:CategoryID"`
}
