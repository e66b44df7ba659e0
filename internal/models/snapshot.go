package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySnapshot is a per-user end-of-month rollup written by the
// snapshot job (and on demand via the API).
type MonthlySnapshot struct {
	ID           string          `gorm:"primaryKey;size:36"` // UUID
	UserID       uint            `gorm:"not null;uniqueIndex:idx_snapshot_user_month"`
	Month        string          `gorm:"size:7;not null;uniqueIndex:idx_snapshot_user_month"` // YYYY-MM
	TotalIncome  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalExpense decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	NetWorth     decimal.Decimal `gorm:"type:decimal(20,4);not null"` // sum of account balances, debt negated
	CreatedAt    time.Time
}
