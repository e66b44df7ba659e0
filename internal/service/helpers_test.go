package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/database"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// file-backed: a plain :memory: DSN gives every pooled connection its
	// own empty database
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "tester",
		PasswordHash: "x",
		BaseCurrency: "USD",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, accType models.AccountType, currency string, opening string) *models.Account {
	t.Helper()
	bal := decimal.RequireFromString(opening)
	acc := &models.Account{
		UserID:         userID,
		Name:           string(accType) + " " + currency,
		Type:           accType,
		Currency:       currency,
		OpeningBalance: bal,
		CurrentBalance: bal,
		IsActive:       true,
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

func seedCategory(t *testing.T, db *gorm.DB, userID uint, name, catType string) *models.Category {
	t.Helper()
	cat := &models.Category{UserID: userID, Name: name, Type: catType}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func balanceOf(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var acc models.Account
	require.NoError(t, db.First(&acc, accountID).Error)
	return acc.CurrentBalance
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
