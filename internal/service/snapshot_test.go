package service

import (
	"testing"

	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonthlySnapshot(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	checking := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "1000")
	seedAccount(t, db, user.ID, models.AccountLoan, "USD", "400")

	svc := NewTransactionService(db)
	_, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionIncome, AccountID: checking.ID,
		Amount: dec("500"), Date: day("2025-03-05"),
	})
	require.NoError(t, err)
	_, err = svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: checking.ID,
		Amount: dec("120"), Date: day("2025-03-10"),
	})
	require.NoError(t, err)
	// outside the month, must not count
	_, err = svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: checking.ID,
		Amount: dec("999"), Date: day("2025-04-01"),
	})
	require.NoError(t, err)

	snapshots := NewSnapshotService(db, NewDBRateProvider(db))
	snap, err := snapshots.BuildMonthly(user.ID, "2025-03")
	require.NoError(t, err)

	assert.True(t, snap.TotalIncome.Equal(dec("500")))
	assert.True(t, snap.TotalExpense.Equal(dec("120")))
	// net worth: checking 1000+500-120-999, loan balance negated
	assert.True(t, snap.NetWorth.Equal(dec("-19")), "got %s", snap.NetWorth)
	assert.NotEmpty(t, snap.ID)

	// rebuilding replaces the row instead of duplicating it
	_, err = snapshots.BuildMonthly(user.ID, "2025-03")
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.MonthlySnapshot{}).
		Where("user_id = ? AND month = ?", user.ID, "2025-03").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
