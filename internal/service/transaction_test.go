package service

import (
	"testing"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNormalizesSign(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "0")
	svc := NewTransactionService(db)

	expense, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("12.34"), Date: day("2025-02-01"),
	})
	require.NoError(t, err)
	assert.True(t, expense.Amount.Equal(dec("-12.34")))

	income, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionIncome, AccountID: acc.ID,
		Amount: dec("-88"), Date: day("2025-02-02"), // sign of input is ignored
	})
	require.NoError(t, err)
	assert.True(t, income.Amount.Equal(dec("88")))
}

func TestCreateCurrencyMismatch(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "EUR", "100")
	svc := NewTransactionService(db)

	_, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionIncome, AccountID: acc.ID,
		Amount: dec("10"), Currency: "USD", Date: day("2025-02-01"),
	})
	require.ErrorIs(t, err, apperr.ErrCurrencyMismatch)

	// failed create leaves the balance untouched
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("100")))
}

func TestTransferValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	usd := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	eur := seedAccount(t, db, user.ID, models.AccountSavings, "EUR", "100")
	svc := NewTransactionService(db)

	_, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionTransfer, AccountID: usd.ID, ToAccountID: &eur.ID,
		Amount: dec("10"), Date: day("2025-02-01"),
	})
	require.ErrorIs(t, err, apperr.ErrCurrencyMismatch)

	_, err = svc.Create(user.ID, CreateInput{
		Type: models.TransactionTransfer, AccountID: usd.ID, ToAccountID: &usd.ID,
		Amount: dec("10"), Date: day("2025-02-01"),
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateCategoryKindMismatch(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "0")
	salary := seedCategory(t, db, user.ID, "Salary", "income")
	svc := NewTransactionService(db)

	_, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID, CategoryID: &salary.ID,
		Amount: dec("10"), Date: day("2025-02-01"),
	})
	require.ErrorIs(t, err, apperr.ErrCategoryKindMismatch)
}

func TestOwnershipIsEnforced(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db)
	acc := seedAccount(t, db, owner.ID, models.AccountChecking, "USD", "0")

	intruder := &models.User{Username: "intruder", PasswordHash: "x", BaseCurrency: "USD"}
	require.NoError(t, db.Create(intruder).Error)

	svc := NewTransactionService(db)
	_, err := svc.Create(intruder.ID, CreateInput{
		Type: models.TransactionIncome, AccountID: acc.ID,
		Amount: dec("10"), Date: day("2025-02-01"),
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateMovesEffectAcrossAccounts(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	a := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	b := seedAccount(t, db, user.ID, models.AccountSavings, "USD", "100")
	svc := NewTransactionService(db)

	entry, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: a.ID,
		Amount: dec("30"), Date: day("2025-02-01"),
	})
	require.NoError(t, err)
	require.True(t, balanceOf(t, db, a.ID).Equal(dec("70")))

	// move the expense onto account b: revert against a, apply against b
	_, err = svc.Update(user.ID, entry.ID, UpdatePatch{AccountID: &b.ID})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, db, a.ID).Equal(dec("100")))
	assert.True(t, balanceOf(t, db, b.ID).Equal(dec("70")))
}

func TestFailedUpdateLeavesBalanceIntact(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	svc := NewTransactionService(db)

	entry, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("30"), Date: day("2025-02-01"),
	})
	require.NoError(t, err)

	missing := uint(9999)
	_, err = svc.Update(user.ID, entry.ID, UpdatePatch{AccountID: &missing})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	// rejected patch: no revert leaked through
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("70")))
}

func TestDeleteRevertsAndSecondDeleteFails(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	svc := NewTransactionService(db)

	entry, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("40"), Date: day("2025-02-01"),
	})
	require.NoError(t, err)
	require.True(t, balanceOf(t, db, acc.ID).Equal(dec("60")))

	require.NoError(t, svc.Delete(user.ID, entry.ID))
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("100")))

	err = svc.Delete(user.ID, entry.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	// the failed second delete must not touch the balance
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("100")))
}

func TestToggleReconciledHasNoBalanceEffect(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	svc := NewTransactionService(db)

	entry, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("25"), Date: day("2025-02-01"),
	})
	require.NoError(t, err)

	flipped, err := svc.ToggleReconciled(user.ID, entry.ID)
	require.NoError(t, err)
	assert.True(t, flipped.Reconciled)
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("75")))

	flipped, err = svc.ToggleReconciled(user.ID, entry.ID)
	require.NoError(t, err)
	assert.False(t, flipped.Reconciled)
}

func TestBulkImportIsolatesFailures(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "0")
	svc := NewTransactionService(db)

	res := svc.BulkImport(user.ID, []CreateInput{
		{Type: models.TransactionIncome, AccountID: acc.ID, Amount: dec("100"), Date: day("2025-02-01")},
		{Type: models.TransactionIncome, AccountID: 9999, Amount: dec("5"), Date: day("2025-02-02")},
		{Type: models.TransactionExpense, AccountID: acc.ID, Amount: dec("30"), Date: day("2025-02-03")},
	})

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.NotEmpty(t, res.BatchID)

	// balance reflects only the two successful entries
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("70")))
}
