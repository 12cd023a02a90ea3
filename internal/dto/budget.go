package dto

import (
	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	Name        string              `json:"name" binding:"required,max=200"`
	Description string              `json:"description" binding:"max=1000"`
	CategoryID  int64               `json:"categoryId" binding:"required,gt=0"`
	Amount      decimal.Decimal     `json:"amount" binding:"required,gt=0"`
	Period      domain.BudgetPeriod `json:"period" binding:"required,oneof=daily weekly monthly yearly"`
	StartDate   string              `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string              `json:"endDate" binding:"required,datetime=2006-01-02"`
	Month       string              `json:"month" binding:"omitempty,datetime=2006-01"` // Derived from startDate when empty
}

// ToDomain converts the request into an unsaved budget.
func (r CreateBudgetRequest) ToDomain() (domain.Budget, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return domain.Budget{}, apperrors.Validationf("startDate: %s", err.Error())
	}
	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return domain.Budget{}, apperrors.Validationf("endDate: %s", err.Error())
	}
	b := domain.Budget{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Period:      r.Period,
		StartDate:   start,
		EndDate:     end,
		Month:       r.Month,
	}
	b.Normalize()
	return b, nil
}

// UpdateBudgetRequest defines the data allowed for updating a budget.
type UpdateBudgetRequest struct {
	Name        *string              `json:"name" binding:"omitempty,max=200"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	CategoryID  *int64               `json:"categoryId" binding:"omitempty,gt=0"`
	Amount      *decimal.Decimal     `json:"amount" binding:"omitempty,gt=0"`
	Period      *domain.BudgetPeriod `json:"period" binding:"omitempty,oneof=daily weekly monthly yearly"`
	StartDate   *string              `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string              `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Month       *string              `json:"month" binding:"omitempty,datetime=2006-01"`
}

// ToPatch converts the request into a budget patch.
func (r UpdateBudgetRequest) ToPatch() (domain.BudgetPatch, error) {
	patch := domain.BudgetPatch{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Period:      r.Period,
		Month:       r.Month,
	}
	if r.StartDate != nil {
		d, err := domain.ParseDate(*r.StartDate)
		if err != nil {
			return patch, apperrors.Validationf("startDate: %s", err.Error())
		}
		patch.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := domain.ParseDate(*r.EndDate)
		if err != nil {
			return patch, apperrors.Validationf("endDate: %s", err.Error())
		}
		patch.EndDate = &d
	}
	return patch, nil
}

// BudgetStatusResponse is the fresh spending picture of one budget.
type BudgetStatusResponse struct {
	BudgetID   int64           `json:"budgetId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	IsExceeded bool            `json:"isExceeded"`
}

// ToBudgetStatusResponse converts a domain.BudgetStatus to its response DTO
func ToBudgetStatusResponse(s domain.BudgetStatus) BudgetStatusResponse {
	return BudgetStatusResponse{
		BudgetID:   s.Budget.ID,
		Name:       s.Budget.Name,
		Amount:     s.Budget.Amount,
		Spent:      s.Spent,
		Remaining:  s.Remaining,
		Percentage: s.Percentage,
		IsExceeded: s.IsExceeded(),
	}
}

// ToListBudgetStatusResponse converts a slice of statuses to response DTOs
func ToListBudgetStatusResponse(statuses []domain.BudgetStatus) []BudgetStatusResponse {
	res := make([]BudgetStatusResponse, len(statuses))
	for i, s := range statuses {
		res[i] = ToBudgetStatusResponse(s)
	}
	return res
}

// ActiveBudgetsParams selects the day budgets must cover. Empty means today.
type ActiveBudgetsParams struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ListBudgetsParams narrows the budget listing. Period wins over the date range.
type ListBudgetsParams struct {
	Period    domain.BudgetPeriod `form:"period" binding:"omitempty,oneof=daily weekly monthly yearly"`
	StartDate string              `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string              `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// BudgetsByMonthParams selects the month key of the listing.
type BudgetsByMonthParams struct {
	YearMonthParams
	WithCategory *bool `form:"withCategory"`
}
