package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the cadence a budget is planned for.
type BudgetPeriod string

const (
	Daily   BudgetPeriod = "daily"
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// IsValid reports whether p is one of the known periods.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Budget caps the expense spent in one category over [StartDate, EndDate].
type Budget struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	CategoryID       int64           `json:"categoryId"`
	Amount           decimal.Decimal `json:"amount"`
	Period           BudgetPeriod    `json:"period"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Month            string          `json:"month"` // YYYY-MM, derived from StartDate when empty
	IsBudgetExceeded bool            `json:"isBudgetExceeded"`
	Timestamps
}

// BudgetWithCategory is a budget joined with its category and the expense spent against it.
type BudgetWithCategory struct {
	Budget
	CategoryName  string          `json:"categoryName"`
	CategoryIcon  string          `json:"categoryIcon"`
	CategoryColor string          `json:"categoryColor"`
	Spent         decimal.Decimal `json:"spent"`
}

// BudgetPatch lists the fields of a budget that may be changed after creation.
type BudgetPatch struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Amount      *decimal.Decimal
	Period      *BudgetPeriod
	StartDate   *time.Time
	EndDate     *time.Time
	Month       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p BudgetPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.CategoryID == nil && p.Amount == nil &&
		p.Period == nil && p.StartDate == nil && p.EndDate == nil && p.Month == nil
}

// Apply returns a copy of b with the patch applied.
func (p BudgetPatch) Apply(b Budget) Budget {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = TruncateDay(*p.StartDate)
	}
	if p.EndDate != nil {
		b.EndDate = TruncateDay(*p.EndDate)
	}
	if p.Month != nil {
		b.Month = *p.Month
	}
	return b
}

// Normalize fills the derived month from the start date when it is missing.
func (b *Budget) Normalize() {
	if b.Month == "" && !b.StartDate.IsZero() {
		b.Month = b.StartDate.Format(MonthLayout)
	}
}

// Validate checks the invariants that do not need other entities.
func (b Budget) Validate() error {
	var problems []string
	if strings.TrimSpace(b.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !b.Amount.IsPositive() {
		problems = append(problems, "amount must be greater than zero")
	}
	if !b.Period.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown budget period %q", b.Period))
	}
	if b.CategoryID <= 0 {
		problems = append(problems, "categoryId is required")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		problems = append(problems, "startDate and endDate are required")
	} else if !b.StartDate.Before(b.EndDate) {
		problems = append(problems, "startDate must be before endDate")
	}
	if b.Month != "" {
		if _, err := time.Parse(MonthLayout, b.Month); err != nil {
			problems = append(problems, fmt.Sprintf("month %q must be YYYY-MM", b.Month))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid budget: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsActiveOn reports whether day falls inside the budget's inclusive date range.
func (b Budget) IsActiveOn(day time.Time) bool {
	day = TruncateDay(day)
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}

// BudgetStatus is the fresh spending picture of a budget. Percentage is spent/amount*100.
type BudgetStatus struct {
	Budget     Budget          `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NewBudgetStatus derives remaining and percentage from the spent amount.
func NewBudgetStatus(b Budget, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		Budget:     b,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
		Percentage: decimal.Zero,
	}
	if b.Amount.IsPositive() {
		status.Percentage = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return status
}

// IsExceeded reports whether spending went strictly past the budget amount.
func (s BudgetStatus) IsExceeded() bool {
	return s.Spent.GreaterThan(s.Budget.Amount)
}
