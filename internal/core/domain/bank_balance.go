package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BankBalance records the opening and closing balance of one calendar month.
// (Year, Month) is unique.
type BankBalance struct {
	ID             int64           `json:"id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"` // 1..12
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Timestamps
}

// BankBalancePatch is a partial update; nil fields keep their stored value.
type BankBalancePatch struct {
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
}

// ValidateYearMonth rejects months outside 1..12 and non-positive years.
func ValidateYearMonth(year, month int) error {
	if year <= 0 {
		return fmt.Errorf("invalid year %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d, expected 1..12", month)
	}
	return nil
}
