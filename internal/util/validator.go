package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.New(1, 10) // 10 billion, sanity cap

// ValidateAmount checks that an amount magnitude is positive and sane.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() == 0 {
		return fmt.Errorf("amount must not be zero")
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateDate checks YYYY-MM-DD format and returns the parsed date.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateCurrency checks a 3-letter uppercase ISO-4217-like code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", code)
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return fmt.Errorf("currency must be uppercase letters, got %q", code)
		}
	}
	return nil
}

// ValidateMonth checks YYYY-MM format.
func ValidateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month format: %w", err)
	}
	return nil
}
