package dto

import (
	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateBankBalanceRequest is a partial update of one month's balances.
// Omitted fields keep their stored value.
type UpdateBankBalanceRequest struct {
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	ClosingBalance *decimal.Decimal `json:"closingBalance"`
}

// ToPatch converts the request into a bank balance patch.
func (r UpdateBankBalanceRequest) ToPatch() domain.BankBalancePatch {
	return domain.BankBalancePatch{
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
	}
}

// InitializeMonthRequest optionally pins the month to initialize.
// Without it the current month of the year is used.
type InitializeMonthRequest struct {
	Month *int `json:"month" binding:"omitempty,min=1,max=12"`
}
