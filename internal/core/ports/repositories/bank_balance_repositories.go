package repositories

import (
	"context"

	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// BankBalanceReader defines read operations for monthly bank balances
type BankBalanceReader interface {
	// FindBankBalance retrieves the balance of one month. Returns apperrors.ErrNotFound when missing.
	FindBankBalance(ctx context.Context, year, month int) (*domain.BankBalance, error)

	// FindBankBalancesByYear retrieves every stored month of a year ordered by month.
	FindBankBalancesByYear(ctx context.Context, year int) ([]domain.BankBalance, error)
}

// BankBalanceWriter defines write operations for monthly bank balances
type BankBalanceWriter interface {
	// SaveBankBalance inserts a month. Returns apperrors.ErrDuplicate when the month already exists.
	SaveBankBalance(ctx context.Context, balance domain.BankBalance) (*domain.BankBalance, error)

	// UpdateBankBalance changes only the non-nil fields of the patch. Returns apperrors.ErrNotFound
	// when the month does not exist.
	UpdateBankBalance(ctx context.Context, year, month int, patch domain.BankBalancePatch) error
}

// BankBalanceRepositoryFacade combines all bank-balance repository interfaces
type BankBalanceRepositoryFacade interface {
	BankBalanceReader
	BankBalanceWriter
}
