package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one historical rate snapshot: 1 Base = Rate Quote as of
// AsOf. Rates are append-only versioned records, never updated in place.
type ExchangeRate struct {
	ID        uint            `gorm:"primaryKey"`
	Base      string          `gorm:"size:3;not null;index:idx_rate_pair"`
	Quote     string          `gorm:"size:3;not null;index:idx_rate_pair"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	AsOf      time.Time       `gorm:"index;not null"`
	CreatedAt time.Time
}
