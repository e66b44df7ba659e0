package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target. Progress is derived on read: from the linked
// account's balance when AccountID is set, else from CurrentAmount.
type Goal struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	Name          string          `gorm:"size:64;not null"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	AccountID     *uint           `gorm:"index"`
	TargetDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Account *Account `gorm:"foreignKey:AccountID"`
}
