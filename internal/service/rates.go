package service

import (
	"errors"
	"time"

	"github.com/haque51/lumina-finance-backend/internal/apperr"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateProvider answers "how many units of to is one unit of from worth,
// as of a point in time".
type RateProvider interface {
	Rate(from, to string, asOf time.Time) (decimal.Decimal, error)
}

// DBRateProvider serves rates from versioned exchange_rate snapshots:
// the newest record whose as_of does not exceed the requested instant.
type DBRateProvider struct {
	DB *gorm.DB
}

func NewDBRateProvider(db *gorm.DB) *DBRateProvider {
	return &DBRateProvider{DB: db}
}

// Rate implements RateProvider. Same-currency lookups return 1; when only
// the inverse pair has a snapshot, its reciprocal is used.
func (p *DBRateProvider) Rate(from, to string, asOf time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	var rec models.ExchangeRate
	err := p.DB.
		Where("base = ? AND quote = ? AND as_of <= ?", from, to, asOf).
		Order("as_of DESC").
		First(&rec).Error
	if err == nil {
		return rec.Rate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	err = p.DB.
		Where("base = ? AND quote = ? AND as_of <= ?", to, from, asOf).
		Order("as_of DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperr.Wrap(apperr.ErrNotFound, "no rate for %s/%s", from, to)
		}
		return decimal.Zero, err
	}
	if rec.Rate.Sign() == 0 {
		return decimal.Zero, apperr.Wrap(apperr.ErrValidation, "zero rate snapshot for %s/%s", to, from)
	}
	return decimal.NewFromInt(1).DivRound(rec.Rate, 8), nil
}

// Put appends a new rate snapshot. Snapshots are never updated in place.
func (p *DBRateProvider) Put(base, quote string, rate decimal.Decimal, asOf time.Time) (*models.ExchangeRate, error) {
	if rate.Sign() <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "rate must be positive")
	}
	rec := &models.ExchangeRate{
		Base:  base,
		Quote: quote,
		Rate:  rate,
		AsOf:  asOf,
	}
	if err := p.DB.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Convert converts amount from one currency to another as of an instant.
func Convert(p RateProvider, amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, error) {
	rate, err := p.Rate(from, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
