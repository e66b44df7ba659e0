package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"
	"github.com/haque51/lumina-finance-backend/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService validates ledger mutations and delegates their
// balance effects. Every balance-affecting operation runs inside a single
// database transaction so the entry write and the balance updates commit
// atomically.
type TransactionService struct {
	DB *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{DB: db}
}

// CreateInput is a requested ledger entry before normalization. Amount
// carries a magnitude for any type; the service fixes the stored sign.
type CreateInput struct {
	Type        models.TransactionType
	AccountID   uint
	ToAccountID *uint
	CategoryID  *uint
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Payee       string
	Note        string
	ImportBatch string
}

// UpdatePatch carries the fields of an update request; nil means "leave
// unchanged". ClearCategory removes the category reference.
type UpdatePatch struct {
	Type          *models.TransactionType
	AccountID     *uint
	ToAccountID   *uint
	CategoryID    *uint
	ClearCategory bool
	Amount        *decimal.Decimal
	Date          *time.Time
	Payee         *string
	Note          *string
}

func (s *TransactionService) ownedAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "account %d", accountID)
		}
		return nil, err
	}
	return &acc, nil
}

func (s *TransactionService) ownedCategory(tx *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "category %d", categoryID)
		}
		return nil, err
	}
	return &cat, nil
}

// normalize validates in against the caller's accounts/categories and
// returns a Transaction with the stored sign convention applied. It only
// reads; nothing is written until the caller persists inside a tx.
func (s *TransactionService) normalize(tx *gorm.DB, userID uint, in CreateInput) (*models.Transaction, error) {
	if !in.Type.Valid() {
		return nil, apperr.Wrap(apperr.ErrValidation, "unknown transaction type %q", in.Type)
	}
	if err := util.ValidateAmount(in.Amount); err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "%v", err)
	}
	if in.Date.IsZero() {
		return nil, apperr.Wrap(apperr.ErrValidation, "date is required")
	}

	entry := &models.Transaction{
		UserID:      userID,
		Type:        in.Type,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Currency:    in.Currency,
		Date:        in.Date,
		Payee:       in.Payee,
		Note:        in.Note,
		ImportBatch: in.ImportBatch,
	}

	if in.Type == models.TransactionTransfer {
		if in.ToAccountID == nil {
			return nil, apperr.Wrap(apperr.ErrValidation, "transfer requires to_account_id")
		}
		if *in.ToAccountID == in.AccountID {
			return nil, apperr.Wrap(apperr.ErrValidation, "transfer accounts must be distinct")
		}
		if in.CategoryID != nil {
			return nil, apperr.Wrap(apperr.ErrValidation, "transfer cannot carry a category")
		}
		src, err := s.ownedAccount(tx, userID, in.AccountID)
		if err != nil {
			return nil, err
		}
		dst, err := s.ownedAccount(tx, userID, *in.ToAccountID)
		if err != nil {
			return nil, err
		}
		if src.Currency != dst.Currency {
			return nil, apperr.Wrap(apperr.ErrCurrencyMismatch,
				"transfer between %s and %s accounts", src.Currency, dst.Currency)
		}
		if in.Currency != "" && in.Currency != src.Currency {
			return nil, apperr.Wrap(apperr.ErrCurrencyMismatch,
				"entry currency %s, account currency %s", in.Currency, src.Currency)
		}
		entry.Currency = src.Currency
		entry.ToAccountID = in.ToAccountID
		entry.Amount = in.Amount.Abs()
		return entry, nil
	}

	acc, err := s.ownedAccount(tx, userID, in.AccountID)
	if err != nil {
		return nil, err
	}
	if in.Currency != "" && in.Currency != acc.Currency {
		return nil, apperr.Wrap(apperr.ErrCurrencyMismatch,
			"entry currency %s, account currency %s", in.Currency, acc.Currency)
	}
	entry.Currency = acc.Currency

	if in.CategoryID != nil {
		cat, err := s.ownedCategory(tx, userID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat.Type != string(in.Type) {
			return nil, apperr.Wrap(apperr.ErrCategoryKindMismatch,
				"%s category on %s entry", cat.Type, in.Type)
		}
	}

	if in.Type == models.TransactionExpense {
		entry.Amount = in.Amount.Abs().Neg()
	} else {
		entry.Amount = in.Amount.Abs()
	}
	return entry, nil
}

// Create validates in, persists the entry and applies its balance effect
// in one database transaction.
func (s *TransactionService) Create(userID uint, in CreateInput) (*models.Transaction, error) {
	var entry *models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.create(tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// create runs the full create flow inside the caller's transaction.
func (s *TransactionService) create(tx *gorm.DB, userID uint, in CreateInput) (*models.Transaction, error) {
	entry, err := s.normalize(tx, userID, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	if err := ApplyEntryEffect(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TransactionService) load(tx *gorm.DB, userID, entryID uint) (*models.Transaction, error) {
	var entry models.Transaction
	if err := tx.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "transaction %d", entryID)
		}
		return nil, err
	}
	return &entry, nil
}

// Get returns one owned entry.
func (s *TransactionService) Get(userID, entryID uint) (*models.Transaction, error) {
	return s.load(s.DB, userID, entryID)
}

// Update merges patch into the stored entry, reverting the old balance
// effect and applying the new one. The merged state is validated before
// the revert so a rejected patch never leaves an account short an effect.
func (s *TransactionService) Update(userID, entryID uint, patch UpdatePatch) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		old, err := s.load(tx, userID, entryID)
		if err != nil {
			return err
		}

		next := CreateInput{
			Type:        old.Type,
			AccountID:   old.AccountID,
			ToAccountID: old.ToAccountID,
			CategoryID:  old.CategoryID,
			Amount:      old.Amount.Abs(),
			Date:        old.Date,
			Payee:       old.Payee,
			Note:        old.Note,
			ImportBatch: old.ImportBatch,
		}
		if patch.Type != nil {
			next.Type = *patch.Type
		}
		if patch.AccountID != nil {
			next.AccountID = *patch.AccountID
		}
		if patch.ToAccountID != nil {
			next.ToAccountID = patch.ToAccountID
		}
		if next.Type != models.TransactionTransfer {
			next.ToAccountID = nil
		}
		if patch.ClearCategory {
			next.CategoryID = nil
		} else if patch.CategoryID != nil {
			next.CategoryID = patch.CategoryID
		}
		if next.Type == models.TransactionTransfer {
			next.CategoryID = nil
		}
		if patch.Amount != nil {
			next.Amount = *patch.Amount
		}
		if patch.Date != nil {
			next.Date = *patch.Date
		}
		if patch.Payee != nil {
			next.Payee = *patch.Payee
		}
		if patch.Note != nil {
			next.Note = *patch.Note
		}
		// leave stored currency behind; normalize re-derives it from the
		// (possibly new) account
		next.Currency = ""

		merged, err := s.normalize(tx, userID, next)
		if err != nil {
			return err
		}

		// revert against the pre-update state, apply the post-update one
		if err := RevertEntryEffect(tx, old); err != nil {
			return err
		}

		merged.ID = old.ID
		merged.Reconciled = old.Reconciled
		merged.CreatedAt = old.CreatedAt
		if err := tx.Model(&models.Transaction{}).Where("id = ?", old.ID).
			Updates(map[string]interface{}{
				"type":          merged.Type,
				"account_id":    merged.AccountID,
				"to_account_id": merged.ToAccountID,
				"category_id":   merged.CategoryID,
				"amount":        merged.Amount,
				"currency":      merged.Currency,
				"date":          merged.Date,
				"payee":         merged.Payee,
				"note":          merged.Note,
			}).Error; err != nil {
			return err
		}
		if err := ApplyEntryEffect(tx, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reverts the entry's balance effect and soft-deletes it. Deleting
// an already deleted entry fails with not found.
func (s *TransactionService) Delete(userID, entryID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		entry, err := s.load(tx, userID, entryID)
		if err != nil {
			return err
		}
		if err := RevertEntryEffect(tx, entry); err != nil {
			return err
		}
		return tx.Delete(entry).Error
	})
}

// ToggleReconciled flips the reconciled flag. No balance effect.
func (s *TransactionService) ToggleReconciled(userID, entryID uint) (*models.Transaction, error) {
	entry, err := s.load(s.DB, userID, entryID)
	if err != nil {
		return nil, err
	}
	entry.Reconciled = !entry.Reconciled
	if err := s.DB.Model(entry).Update("reconciled", entry.Reconciled).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// BulkError reports one failed item of a bulk import.
type BulkError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult is the partial-failure report of a bulk import.
type BulkResult struct {
	BatchID      string      `json:"batch_id"`
	SuccessCount int         `json:"success_count"`
	FailedCount  int         `json:"failed_count"`
	Errors       []BulkError `json:"errors"`
}

// BulkImport creates each entry independently; one item's failure never
// aborts the batch. Successful items keep their balance effects.
func (s *TransactionService) BulkImport(userID uint, items []CreateInput) *BulkResult {
	res := &BulkResult{
		BatchID: uuid.NewString(),
		Errors:  []BulkError{},
	}
	for i, in := range items {
		in.ImportBatch = res.BatchID
		if _, err := s.Create(userID, in); err != nil {
			res.FailedCount++
			res.Errors = append(res.Errors, BulkError{
				Index: i,
				Error: fmt.Sprintf("%v", err),
			})
			continue
		}
		res.SuccessCount++
	}
	return res
}
