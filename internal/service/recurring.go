package service

import (
	"errors"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"gorm.io/gorm"
)

// RecurringService projects recurring rules into ledger entries.
type RecurringService struct {
	DB *gorm.DB
	Tx *TransactionService
}

func NewRecurringService(db *gorm.DB, tx *TransactionService) *RecurringService {
	return &RecurringService{DB: db, Tx: tx}
}

// NextDue returns the rule's derived next-due date: the last processed
// date (or the start date when never processed) advanced by one
// frequency step.
func NextDue(r *models.RecurringRule) time.Time {
	anchor := r.StartDate
	if r.LastProcessed != nil {
		anchor = *r.LastProcessed
	}
	switch r.Frequency {
	case models.FrequencyDaily:
		return anchor.AddDate(0, 0, r.Interval)
	case models.FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*r.Interval)
	case models.FrequencyMonthly:
		return anchor.AddDate(0, r.Interval, 0)
	case models.FrequencyYearly:
		return anchor.AddDate(r.Interval, 0, 0)
	}
	return anchor
}

// Ended reports whether the rule has passed its end date: the next due
// date falls after EndDate. Terminal; an ended rule is never due again.
func Ended(r *models.RecurringRule) bool {
	return r.EndDate != nil && NextDue(r).After(*r.EndDate)
}

// IsDue reports whether the rule should be materialized as of today.
func IsDue(r *models.RecurringRule, today time.Time) bool {
	if !r.IsActive || Ended(r) {
		return false
	}
	return !NextDue(r).After(today)
}

func (s *RecurringService) load(userID, ruleID uint) (*models.RecurringRule, error) {
	var rule models.RecurringRule
	if err := s.DB.Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "recurring rule %d", ruleID)
		}
		return nil, err
	}
	return &rule, nil
}

// Process materializes one ledger entry from the rule, dated today, and
// records today as the last processed date. Inactive or ended rules fail
// with an invalid-state error.
func (s *RecurringService) Process(userID, ruleID uint, today time.Time) (*models.RecurringRule, *models.Transaction, error) {
	rule, err := s.load(userID, ruleID)
	if err != nil {
		return nil, nil, err
	}
	if !rule.IsActive {
		return nil, nil, apperr.Wrap(apperr.ErrInvalidState, "rule %d is inactive", ruleID)
	}
	if Ended(rule) {
		return nil, nil, apperr.Wrap(apperr.ErrInvalidState, "rule %d has ended", ruleID)
	}

	// entry creation and rule advance commit together, so a failed run
	// can be retried without double-booking
	var entry *models.Transaction
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.Tx.create(tx, userID, CreateInput{
			Type:        rule.Type,
			AccountID:   rule.AccountID,
			ToAccountID: rule.ToAccountID,
			CategoryID:  rule.CategoryID,
			Amount:      rule.Amount,
			Currency:    rule.Currency,
			Date:        today,
			Payee:       rule.Payee,
			Note:        rule.Note,
		})
		if err != nil {
			return err
		}
		return tx.Model(rule).Update("last_processed", today).Error
	})
	if err != nil {
		return nil, nil, err
	}
	rule.LastProcessed = &today
	return rule, entry, nil
}
