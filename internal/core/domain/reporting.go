package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportInterval is the bucket width of a trend report.
type ReportInterval string

const (
	IntervalDaily   ReportInterval = "daily"
	IntervalWeekly  ReportInterval = "weekly"
	IntervalMonthly ReportInterval = "monthly"
	IntervalYearly  ReportInterval = "yearly"
)

// IsValid reports whether i is a supported interval.
func (i ReportInterval) IsValid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// BucketKey returns the trend bucket a day falls into: YYYY-MM-DD, ISO YYYY-Www, YYYY-MM or YYYY.
func (i ReportInterval) BucketKey(day time.Time) string {
	switch i {
	case IntervalWeekly:
		year, week := day.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case IntervalMonthly:
		return day.Format(MonthLayout)
	case IntervalYearly:
		return day.Format("2006")
	default:
		return day.Format(DateLayout)
	}
}

// CategorySummary aggregates transactions of one category over a date range.
type CategorySummary struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Type         TransactionType `json:"type"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

// BudgetSummary aggregates transactions booked against one budget.
type BudgetSummary struct {
	BudgetID   int64           `json:"budgetId"`
	BudgetName string          `json:"budgetName"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// CategoryReport is one row of the category breakdown of a period report.
type CategoryReport struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// AccountReport is the movement of one account over a period.
type AccountReport struct {
	AccountID      int64           `json:"accountId"`
	AccountName    string          `json:"accountName"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Net            decimal.Decimal `json:"net"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// PeriodReport summarizes income and expense over [StartDate, EndDate].
type PeriodReport struct {
	StartDate         time.Time        `json:"startDate"`
	EndDate           time.Time        `json:"endDate"`
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	TotalExpense      decimal.Decimal  `json:"totalExpense"`
	NetAmount         decimal.Decimal  `json:"netAmount"`
	CategoryBreakdown []CategoryReport `json:"categoryBreakdown"`
	Accounts          []AccountReport  `json:"accounts"`
}

// TrendPoint is one bucket of a trend report.
type TrendPoint struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}
