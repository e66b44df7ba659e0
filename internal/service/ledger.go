// Package service holds the ledger core: balance maintenance, the
// transaction lifecycle, recurring projection, rates and snapshots.
package service

import (
	"errors"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EffectiveDelta returns the signed amount actually applied to an
// account's balance for a raw delta. Debt accounts (loan, credit_card)
// invert the sign: money arriving reduces the debt, a new charge grows it.
func EffectiveDelta(t models.AccountType, delta decimal.Decimal) decimal.Decimal {
	if t.IsDebt() {
		return delta.Neg()
	}
	return delta
}

// applyDelta adjusts one account's running balance inside tx. The caller
// must run it inside a database transaction together with the entry write
// so the balance and the entry commit or roll back as one unit.
func applyDelta(tx *gorm.DB, userID, accountID uint, delta decimal.Decimal) error {
	var acc models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(apperr.ErrNotFound, "account %d", accountID)
		}
		return err
	}
	next := acc.CurrentBalance.Add(EffectiveDelta(acc.Type, delta))
	return tx.Model(&models.Account{}).
		Where("id = ?", acc.ID).
		Update("current_balance", next).Error
}

// ApplyEntryEffect applies e's balance effect: income adds its (positive)
// amount, expense adds its (negative) amount, a transfer moves the
// magnitude from the source to the destination account.
//
// Entries are applied regardless of their date; editing a past entry
// recomputes today's balance rather than skipping it.
func ApplyEntryEffect(tx *gorm.DB, e *models.Transaction) error {
	if e.Type == models.TransactionTransfer {
		if e.ToAccountID == nil {
			return apperr.Wrap(apperr.ErrValidation, "transfer without destination account")
		}
		if err := applyDelta(tx, e.UserID, e.AccountID, e.Amount.Neg()); err != nil {
			return err
		}
		return applyDelta(tx, e.UserID, *e.ToAccountID, e.Amount)
	}
	return applyDelta(tx, e.UserID, e.AccountID, e.Amount)
}

// RevertEntryEffect undoes e's balance effect. Used before reapplying an
// update's new state and before a soft delete. Must be called with the
// entry's state as stored, not the patched one.
func RevertEntryEffect(tx *gorm.DB, e *models.Transaction) error {
	if e.Type == models.TransactionTransfer {
		if e.ToAccountID == nil {
			return apperr.Wrap(apperr.ErrValidation, "transfer without destination account")
		}
		if err := applyDelta(tx, e.UserID, e.AccountID, e.Amount); err != nil {
			return err
		}
		return applyDelta(tx, e.UserID, *e.ToAccountID, e.Amount.Neg())
	}
	return applyDelta(tx, e.UserID, e.AccountID, e.Amount.Neg())
}
