package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Frequency enumerates recurrence frequencies.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringRule is a template for periodic transaction creation.
// The next-due date is derived from StartDate/LastProcessed, never stored.
type RecurringRule struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	AccountID     uint            `gorm:"index;not null"`
	ToAccountID   *uint           `gorm:"index"` // transfers only
	CategoryID    *uint           `gorm:"index"`
	Type          TransactionType `gorm:"size:16;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency      string          `gorm:"size:3;not null"`
	Payee         string          `gorm:"size:128"`
	Note          string          `gorm:"type:text"`
	Frequency     Frequency       `gorm:"size:16;not null"`
	Interval      int             `gorm:"not null;default:1"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       *time.Time
	LastProcessed *time.Time
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Account  Account   `gorm:"foreignKey:AccountID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}
