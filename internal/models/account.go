package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType enumerates the supported account categories.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountLoan       AccountType = "loan"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

// IsDebt reports whether balance increases on t represent growing debt,
// which inverts the sign convention for balance updates.
func (t AccountType) IsDebt() bool {
	return t == AccountLoan || t == AccountCreditCard
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard,
		AccountLoan, AccountInvestment, AccountCash:
		return true
	}
	return false
}

// Account represents a named store of money.
// OpeningBalance is fixed at creation; CurrentBalance is mutated only
// through the ledger service.
type Account struct {
	ID             uint            `gorm:"primaryKey"`
	UserID         uint            `gorm:"index;not null"`
	Name           string          `gorm:"size:64;not null"`
	Type           AccountType     `gorm:"size:16;index;not null"`
	Currency       string          `gorm:"size:3;not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
