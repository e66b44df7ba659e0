package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount_Valid(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "-42.25", "9999999.99"}

	for _, s := range testCases {
		err := ValidateAmount(decimal.RequireFromString(s))
		if err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}
}

func TestValidateAmount_Zero(t *testing.T) {
	err := ValidateAmount(decimal.Zero)

	if err == nil {
		t.Error("ValidateAmount(0) error = nil, want error")
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	testCases := []string{"10000000000", "-10000000000", "99999999999.99"}

	for _, s := range testCases {
		err := ValidateAmount(decimal.RequireFromString(s))
		if err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}

func TestValidateDate_Valid(t *testing.T) {
	got, err := ValidateDate("2025-02-15")
	if err != nil {
		t.Fatalf("ValidateDate(2025-02-15) error = %v, want nil", err)
	}
	if got.Year() != 2025 || int(got.Month()) != 2 || got.Day() != 15 {
		t.Errorf("ValidateDate(2025-02-15) = %v", got)
	}
}

func TestValidateDate_Invalid(t *testing.T) {
	testCases := []string{"", "2025-13-01", "15/02/2025", "2025-02-30", "yesterday"}

	for _, s := range testCases {
		if _, err := ValidateDate(s); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", s)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	valid := []string{"USD", "EUR", "BDT"}
	for _, s := range valid {
		if err := ValidateCurrency(s); err != nil {
			t.Errorf("ValidateCurrency(%q) error = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "usd", "US", "USDT", "U$D"}
	for _, s := range invalid {
		if err := ValidateCurrency(s); err == nil {
			t.Errorf("ValidateCurrency(%q) error = nil, want error", s)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth("2025-03"); err != nil {
		t.Errorf("ValidateMonth(2025-03) error = %v, want nil", err)
	}

	invalid := []string{"", "2025", "2025-13", "03-2025", "2025-03-01"}
	for _, s := range invalid {
		if err := ValidateMonth(s); err == nil {
			t.Errorf("ValidateMonth(%q) error = nil, want error", s)
		}
	}
}
