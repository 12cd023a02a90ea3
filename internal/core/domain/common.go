package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for transaction and budget dates.
const DateLayout = "2006-01-02"

// MonthLayout is the "YYYY-MM" format of the denormalized budget month.
const MonthLayout = "2006-01"

// Timestamps holds the server-assigned audit fields shared by all entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionType distinguishes money coming in from money going out.
// Categories carry the same type so the two can be matched.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDay drops the clock part of t, keeping its calendar day in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the "YYYY-MM" key for the given year and 1-indexed month.
func MonthKey(year int, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthRange returns the first day of the given month and the first day of the following month.
// Callers filter with start <= date < end.
func MonthRange(year int, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the year and month preceding the given one, wrapping January to December.
func PreviousMonth(year int, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
