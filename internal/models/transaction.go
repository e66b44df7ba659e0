package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType enumerates the kinds of ledger entries.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense || t == TransactionTransfer
}

// Transaction represents one money movement.
// Sign convention: income amounts are stored positive, expense amounts
// negative, transfer amounts as a positive magnitude moved from
// AccountID to ToAccountID.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Type        TransactionType `gorm:"size:16;index;not null"`
	AccountID   uint            `gorm:"index;not null"` // source account for transfers
	ToAccountID *uint           `gorm:"index"`          // destination, transfers only
	CategoryID  *uint           `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Date        time.Time       `gorm:"index;not null"`
	Payee       string          `gorm:"size:128"`
	Note        string          `gorm:"type:text"`
	Reconciled  bool            `gorm:"not null;default:false"`
	ImportBatch string          `gorm:"size:36;index"` // set for bulk-imported entries
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Account   Account   `gorm:"foreignKey:AccountID"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID"`
	Category  *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}
