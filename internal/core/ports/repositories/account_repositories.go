package repositories

import (
	"context"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account by id. Returns apperrors.ErrNotFound when missing.
	FindAccountByID(ctx context.Context, id int64) (*domain.Account, error)

	// ListAccounts retrieves every account ordered by name.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account whose running balance starts at its opening balance.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// AccountBalanceSupport moves running balances. Callers run it in the same
// transaction as the write that caused the movement.
type AccountBalanceSupport interface {
	// AdjustAccountBalance adds delta to the closing balance of the account.
	AdjustAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}
