package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // always positive, Type carries the direction
	Type        TransactionType `json:"type"`
	CategoryID  int64           `json:"categoryId"`
	BudgetID    *int64          `json:"budgetId,omitempty"`
	AccountID   *int64          `json:"accountId,omitempty"`
	Date        time.Time       `json:"date"`
	Timestamps
}

// TransactionWithCategory denormalizes the category name and icon into a transaction row.
type TransactionWithCategory struct {
	Transaction
	CategoryName string `json:"categoryName"`
	CategoryIcon string `json:"categoryIcon"`
}

// TransactionPatch lists the fields of a transaction that may be changed after creation.
// ClearBudget/ClearAccount detach the optional references.
type TransactionPatch struct {
	Name         *string
	Description  *string
	Amount       *decimal.Decimal
	Type         *TransactionType
	CategoryID   *int64
	BudgetID     *int64
	ClearBudget  bool
	AccountID    *int64
	ClearAccount bool
	Date         *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Amount == nil && p.Type == nil &&
		p.CategoryID == nil && p.BudgetID == nil && !p.ClearBudget &&
		p.AccountID == nil && !p.ClearAccount && p.Date == nil
}

// Apply returns a copy of t with the patch applied.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.ClearBudget {
		t.BudgetID = nil
	} else if p.BudgetID != nil {
		id := *p.BudgetID
		t.BudgetID = &id
	}
	if p.ClearAccount {
		t.AccountID = nil
	} else if p.AccountID != nil {
		id := *p.AccountID
		t.AccountID = &id
	}
	if p.Date != nil {
		t.Date = TruncateDay(*p.Date)
	}
	return t
}

// Validate checks the invariants that do not need other entities.
func (t Transaction) Validate() error {
	var problems []string
	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !t.Amount.IsPositive() {
		problems = append(problems, "amount must be greater than zero")
	}
	if !t.Type.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown transaction type %q", t.Type))
	}
	if t.CategoryID <= 0 {
		problems = append(problems, "categoryId is required")
	}
	if t.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid transaction: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SignedAmount returns the amount with income positive and expense negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionFilter narrows sums and listings. Zero-valued fields are ignored.
// EndDate is inclusive.
type TransactionFilter struct {
	Type       TransactionType
	CategoryID int64
	StartDate  time.Time
	EndDate    time.Time
}
