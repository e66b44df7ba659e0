package service

import (
	"testing"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(freq models.Frequency, interval int, start string, lastProcessed *time.Time) *models.RecurringRule {
	return &models.RecurringRule{
		Frequency:     freq,
		Interval:      interval,
		StartDate:     day(start),
		LastProcessed: lastProcessed,
		IsActive:      true,
	}
}

func TestNextDue(t *testing.T) {
	cases := []struct {
		name string
		r    *models.RecurringRule
		want string
	}{
		{"monthly from start", rule(models.FrequencyMonthly, 1, "2025-01-15", nil), "2025-02-15"},
		{"daily interval 3", rule(models.FrequencyDaily, 3, "2025-01-01", nil), "2025-01-04"},
		{"weekly interval 2", rule(models.FrequencyWeekly, 2, "2025-01-01", nil), "2025-01-15"},
		{"yearly", rule(models.FrequencyYearly, 1, "2024-06-30", nil), "2025-06-30"},
		{"month-end rollover", rule(models.FrequencyMonthly, 1, "2025-01-31", nil), "2025-03-03"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, day(tc.want), NextDue(tc.r))
		})
	}

	// anchored on last processed once set
	lp := day("2025-03-10")
	r := rule(models.FrequencyMonthly, 1, "2025-01-15", &lp)
	assert.Equal(t, day("2025-04-10"), NextDue(r))
}

func TestIsDue(t *testing.T) {
	r := rule(models.FrequencyMonthly, 1, "2025-01-15", nil)

	assert.True(t, IsDue(r, day("2025-02-20")), "past next_due")
	assert.True(t, IsDue(r, day("2025-02-15")), "exactly next_due")
	assert.False(t, IsDue(r, day("2025-02-14")), "before next_due")

	r.IsActive = false
	assert.False(t, IsDue(r, day("2025-02-20")), "inactive rule")
}

func TestEndedIsTerminal(t *testing.T) {
	end := day("2025-03-01")
	r := rule(models.FrequencyMonthly, 1, "2025-01-15", nil)
	r.EndDate = &end

	assert.False(t, Ended(r), "next due 2025-02-15 is before end")

	lp := day("2025-02-15")
	r.LastProcessed = &lp
	assert.True(t, Ended(r), "next due 2025-03-15 is past end")
	assert.False(t, IsDue(r, day("2030-01-01")), "ended rule is never due again")
}

func TestProcessCreatesEntryAndAdvances(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")

	txSvc := NewTransactionService(db)
	svc := NewRecurringService(db, txSvc)

	stored := models.RecurringRule{
		UserID:    user.ID,
		AccountID: acc.ID,
		Type:      models.TransactionExpense,
		Amount:    dec("15"),
		Currency:  "USD",
		Frequency: models.FrequencyMonthly,
		Interval:  1,
		StartDate: day("2025-01-15"),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&stored).Error)

	today := day("2025-02-20")
	updated, entry, err := svc.Process(user.ID, stored.ID, today)
	require.NoError(t, err)

	assert.True(t, entry.Amount.Equal(dec("-15")), "expense sign normalized")
	assert.Equal(t, today, entry.Date)
	require.NotNil(t, updated.LastProcessed)
	assert.Equal(t, today, *updated.LastProcessed)
	assert.Equal(t, day("2025-03-20"), NextDue(updated))
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("85")))
}

func TestProcessRollsBackEntryWhenAdvanceFails(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")

	txSvc := NewTransactionService(db)
	svc := NewRecurringService(db, txSvc)

	stored := models.RecurringRule{
		UserID:    user.ID,
		AccountID: acc.ID,
		Type:      models.TransactionExpense,
		Amount:    dec("15"),
		Currency:  "USD",
		Frequency: models.FrequencyMonthly,
		Interval:  1,
		StartDate: day("2025-01-15"),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&stored).Error)

	// block the last_processed advance so the run fails after the entry
	// was created; both must roll back together
	require.NoError(t, db.Exec(
		`CREATE TRIGGER block_rule_update BEFORE UPDATE ON recurring_rules
		 BEGIN SELECT RAISE(ABORT, 'rule update blocked'); END`,
	).Error)

	_, _, err := svc.Process(user.ID, stored.ID, day("2025-02-20"))
	require.Error(t, err)

	var entries int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&entries).Error)
	assert.Zero(t, entries, "failed run must not leave an entry behind")
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("100")))

	var reloaded models.RecurringRule
	require.NoError(t, db.First(&reloaded, stored.ID).Error)
	assert.Nil(t, reloaded.LastProcessed)

	// a retry after the fault clears succeeds exactly once
	require.NoError(t, db.Exec(`DROP TRIGGER block_rule_update`).Error)
	_, entry, err := svc.Process(user.ID, stored.ID, day("2025-02-20"))
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(dec("-15")))
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("85")))
}

func TestProcessRejectsInactiveAndEnded(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")

	txSvc := NewTransactionService(db)
	svc := NewRecurringService(db, txSvc)

	inactive := models.RecurringRule{
		UserID: user.ID, AccountID: acc.ID,
		Type: models.TransactionExpense, Amount: dec("5"), Currency: "USD",
		Frequency: models.FrequencyDaily, Interval: 1,
		StartDate: day("2025-01-01"), IsActive: false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	_, _, err := svc.Process(user.ID, inactive.ID, day("2025-02-01"))
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	end := day("2025-01-05")
	lp := day("2025-01-05")
	ended := models.RecurringRule{
		UserID: user.ID, AccountID: acc.ID,
		Type: models.TransactionExpense, Amount: dec("5"), Currency: "USD",
		Frequency: models.FrequencyDaily, Interval: 1,
		StartDate: day("2025-01-01"), EndDate: &end, LastProcessed: &lp, IsActive: true,
	}
	require.NoError(t, db.Create(&ended).Error)

	_, _, err = svc.Process(user.ID, ended.ID, day("2025-02-01"))
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("100")), "no entries materialized")
}
