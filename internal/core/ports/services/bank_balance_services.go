package services

import (
	"context"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/dto"
)

// BankBalanceReaderSvc defines read operations for monthly bank balances
type BankBalanceReaderSvc interface {
	GetBankBalance(ctx context.Context, year, month int) (*domain.BankBalance, error)
	GetBankBalancesByYear(ctx context.Context, year int) ([]domain.BankBalance, error)
}

// BankBalanceWriterSvc defines write operations for monthly bank balances
type BankBalanceWriterSvc interface {
	// UpdateBankBalance changes only the provided fields and returns the stored row.
	UpdateBankBalance(ctx context.Context, year, month int, req dto.UpdateBankBalanceRequest) (*domain.BankBalance, error)

	// InitializeYear makes sure the current month of year has a balance row.
	InitializeYear(ctx context.Context, year int) (*domain.BankBalance, error)

	// InitializeMonth creates the month when absent, opening at the previous month's
	// closing balance or zero. An existing month is returned untouched.
	InitializeMonth(ctx context.Context, year, month int) (*domain.BankBalance, error)
}

// BankBalanceSvcFacade combines all bank-balance service interfaces
type BankBalanceSvcFacade interface {
	BankBalanceReaderSvc
	BankBalanceWriterSvc
}
