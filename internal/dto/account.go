package dto

import (
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	Type           domain.AccountType `json:"type" binding:"required,oneof=bank cash credit investment other"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// ToDomain converts the request into an unsaved account.
func (r CreateAccountRequest) ToDomain() domain.Account {
	return domain.Account{
		Name:           r.Name,
		Type:           r.Type,
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.OpeningBalance,
	}
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name           *string             `json:"name" binding:"omitempty,max=100"`
	Type           *domain.AccountType `json:"type" binding:"omitempty,oneof=bank cash credit investment other"`
	OpeningBalance *decimal.Decimal    `json:"openingBalance"`
}

// ToPatch converts the request into an account patch.
func (r UpdateAccountRequest) ToPatch() domain.AccountPatch {
	return domain.AccountPatch{
		Name:           r.Name,
		Type:           r.Type,
		OpeningBalance: r.OpeningBalance,
	}
}
