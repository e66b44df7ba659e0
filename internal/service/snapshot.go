package service

import (
	"log"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SnapshotService builds per-user monthly rollups of income, expense and
// net worth, everything expressed in the user's base currency.
type SnapshotService struct {
	DB    *gorm.DB
	Rates RateProvider
}

func NewSnapshotService(db *gorm.DB, rates RateProvider) *SnapshotService {
	return &SnapshotService{DB: db, Rates: rates}
}

// BuildMonthly computes and upserts the snapshot for one user and month
// (YYYY-MM). Re-running for the same month replaces the stored row.
func (s *SnapshotService) BuildMonthly(userID uint, month string) (*models.MonthlySnapshot, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 1, 0)

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var entries []models.Transaction
	if err := s.DB.
		Where("user_id = ? AND date >= ? AND date < ? AND type <> ?",
			userID, start, end, models.TransactionTransfer).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for i := range entries {
		e := &entries[i]
		amt, err := Convert(s.Rates, e.Amount, e.Currency, user.BaseCurrency, end)
		if err != nil {
			return nil, err
		}
		if e.Type == models.TransactionIncome {
			income = income.Add(amt)
		} else {
			expense = expense.Add(amt.Neg()) // expenses are stored negative
		}
	}

	var accounts []models.Account
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	netWorth := decimal.Zero
	for i := range accounts {
		a := &accounts[i]
		bal, err := Convert(s.Rates, a.CurrentBalance, a.Currency, user.BaseCurrency, end)
		if err != nil {
			return nil, err
		}
		if a.Type.IsDebt() {
			netWorth = netWorth.Sub(bal)
		} else {
			netWorth = netWorth.Add(bal)
		}
	}

	snap := &models.MonthlySnapshot{
		ID:           uuid.NewString(),
		UserID:       userID,
		Month:        month,
		TotalIncome:  income,
		TotalExpense: expense,
		NetWorth:     netWorth,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			Delete(&models.MonthlySnapshot{}).Error; err != nil {
			return err
		}
		return tx.Create(snap).Error
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// RunAll snapshots the month that contains now minus one month, for every
// user. Per-user failures (e.g. a missing rate) are logged and skipped.
func (s *SnapshotService) RunAll(now time.Time) {
	month := now.AddDate(0, -1, 0).Format("2006-01")
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		log.Printf("snapshot: list users: %v", err)
		return
	}
	for i := range users {
		if _, err := s.BuildMonthly(users[i].ID, month); err != nil {
			log.Printf("snapshot: user %d month %s: %v", users[i].ID, month, err)
		}
	}
}

// StartScheduler runs RunAll once a day until stop is closed. No cron
// dependency; the upsert in BuildMonthly makes repeated runs idempotent.
func (s *SnapshotService) StartScheduler(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case t := <-ticker.C:
				s.RunAll(t)
			}
		}
	}()
}
