package service

import (
	"testing"

	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveDelta(t *testing.T) {
	cases := []struct {
		accType models.AccountType
		delta   string
		want    string
	}{
		{models.AccountChecking, "100", "100"},
		{models.AccountSavings, "-25.50", "-25.50"},
		{models.AccountLoan, "100", "-100"},
		{models.AccountCreditCard, "-40", "40"},
		{models.AccountCash, "0", "0"},
	}
	for _, tc := range cases {
		got := EffectiveDelta(tc.accType, dec(tc.delta))
		assert.True(t, got.Equal(dec(tc.want)),
			"EffectiveDelta(%s, %s) = %s, want %s", tc.accType, tc.delta, got, tc.want)
	}
}

func TestTransferMovesBalanceBetweenAccounts(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	a := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")
	b := seedAccount(t, db, user.ID, models.AccountSavings, "USD", "50")

	svc := NewTransactionService(db)
	_, err := svc.Create(user.ID, CreateInput{
		Type:        models.TransactionTransfer,
		AccountID:   a.ID,
		ToAccountID: &b.ID,
		Amount:      dec("30"),
		Date:        day("2025-03-01"),
	})
	require.NoError(t, err)

	assert.True(t, balanceOf(t, db, a.ID).Equal(dec("70")))
	assert.True(t, balanceOf(t, db, b.ID).Equal(dec("80")))
}

func TestDebtAccountSignInversion(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	card := seedAccount(t, db, user.ID, models.AccountCreditCard, "USD", "500")

	svc := NewTransactionService(db)

	// a payment (income) reduces the debt balance
	_, err := svc.Create(user.ID, CreateInput{
		Type:      models.TransactionIncome,
		AccountID: card.ID,
		Amount:    dec("200"),
		Date:      day("2025-03-01"),
	})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, db, card.ID).Equal(dec("300")))

	// a new charge (expense) grows it
	_, err = svc.Create(user.ID, CreateInput{
		Type:      models.TransactionExpense,
		AccountID: card.ID,
		Amount:    dec("50"),
		Date:      day("2025-03-02"),
	})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, db, card.ID).Equal(dec("350")))
}

func TestUpdateWithNoChangesIsNoop(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "100")

	svc := NewTransactionService(db)
	entry, err := svc.Create(user.ID, CreateInput{
		Type:      models.TransactionExpense,
		AccountID: acc.ID,
		Amount:    dec("40"),
		Date:      day("2025-03-01"),
	})
	require.NoError(t, err)
	require.True(t, balanceOf(t, db, acc.ID).Equal(dec("60")))

	// empty patch reverts then reapplies the same effect
	_, err = svc.Update(user.ID, entry.ID, UpdatePatch{})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("60")))
}

func TestBalanceInvariantAfterMutationSequence(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	acc := seedAccount(t, db, user.ID, models.AccountChecking, "USD", "1000")

	svc := NewTransactionService(db)

	e1, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionIncome, AccountID: acc.ID,
		Amount: dec("250"), Date: day("2025-01-05"),
	})
	require.NoError(t, err)
	e2, err := svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("100"), Date: day("2025-01-10"),
	})
	require.NoError(t, err)
	_, err = svc.Create(user.ID, CreateInput{
		Type: models.TransactionExpense, AccountID: acc.ID,
		Amount: dec("75.25"), Date: day("2025-01-12"),
	})
	require.NoError(t, err)

	// amend the income, delete one expense
	amended := dec("300")
	_, err = svc.Update(user.ID, e1.ID, UpdatePatch{Amount: &amended})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(user.ID, e2.ID))

	// opening 1000 + 300 - 75.25
	assert.True(t, balanceOf(t, db, acc.ID).Equal(dec("1224.75")))

	// invariant: opening + sum of live entries
	var live []models.Transaction
	require.NoError(t, db.Where("user_id = ? AND account_id = ?", user.ID, acc.ID).Find(&live).Error)
	sum := dec("0")
	for i := range live {
		sum = sum.Add(live[i].Amount)
	}
	assert.True(t, acc.OpeningBalance.Add(sum).Equal(balanceOf(t, db, acc.ID)))
}
