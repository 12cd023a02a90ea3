package dto

import (
	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	Name        string                 `json:"name" binding:"required,max=200"`
	Description string                 `json:"description" binding:"max=1000"`
	Amount      decimal.Decimal        `json:"amount" binding:"required,gt=0"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	CategoryID  int64                  `json:"categoryId" binding:"required,gt=0"`
	BudgetID    *int64                 `json:"budgetId" binding:"omitempty,gt=0"`
	AccountID   *int64                 `json:"accountId" binding:"omitempty,gt=0"`
	Date        string                 `json:"date" binding:"required,datetime=2006-01-02"`
}

// ToDomain converts the request into an unsaved transaction.
func (r CreateTransactionRequest) ToDomain() (domain.Transaction, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.Transaction{}, apperrors.Validationf("%s", err.Error())
	}
	return domain.Transaction{
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		BudgetID:    r.BudgetID,
		AccountID:   r.AccountID,
		Date:        date,
	}, nil
}

// UpdateTransactionRequest defines the data allowed for updating a transaction.
// ClearBudget and ClearAccount detach the optional references.
type UpdateTransactionRequest struct {
	Name         *string                 `json:"name" binding:"omitempty,max=200"`
	Description  *string                 `json:"description" binding:"omitempty,max=1000"`
	Amount       *decimal.Decimal        `json:"amount" binding:"omitempty,gt=0"`
	Type         *domain.TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	CategoryID   *int64                  `json:"categoryId" binding:"omitempty,gt=0"`
	BudgetID     *int64                  `json:"budgetId" binding:"omitempty,gt=0"`
	ClearBudget  bool                    `json:"clearBudget"`
	AccountID    *int64                  `json:"accountId" binding:"omitempty,gt=0"`
	ClearAccount bool                    `json:"clearAccount"`
	Date         *string                 `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ToPatch converts the request into a transaction patch.
func (r UpdateTransactionRequest) ToPatch() (domain.TransactionPatch, error) {
	patch := domain.TransactionPatch{
		Name:         r.Name,
		Description:  r.Description,
		Amount:       r.Amount,
		Type:         r.Type,
		CategoryID:   r.CategoryID,
		BudgetID:     r.BudgetID,
		ClearBudget:  r.ClearBudget,
		AccountID:    r.AccountID,
		ClearAccount: r.ClearAccount,
	}
	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return patch, apperrors.Validationf("%s", err.Error())
		}
		patch.Date = &date
	}
	return patch, nil
}

// DateRangeParams defines the query parameters of date-bounded listings.
type DateRangeParams struct {
	StartDate string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"required,datetime=2006-01-02"`
}

// YearMonthParams defines the query parameters of month-bounded listings.
type YearMonthParams struct {
	Year  int `form:"year" binding:"required,gt=0"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// RecentTransactionsParams defines the query parameters of the recent listing.
type RecentTransactionsParams struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// TotalsResponse carries income and expense totals.
type TotalsResponse struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
}

// OptionalDateRangeParams bounds totals. Either side may be omitted.
type OptionalDateRangeParams struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// ListTransactionsParams bounds the listing. ?withCategory=false returns plain rows.
type ListTransactionsParams struct {
	OptionalDateRangeParams
	WithCategory *bool `form:"withCategory"`
}
