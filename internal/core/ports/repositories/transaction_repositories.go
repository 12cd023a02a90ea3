package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data.
// Date ranges are inclusive on both ends unless stated otherwise.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by id. Returns apperrors.ErrNotFound when missing.
	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListTransactions retrieves every transaction, newest first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListTransactionsWithCategory is ListTransactions joined with category name and icon.
	ListTransactionsWithCategory(ctx context.Context) ([]domain.TransactionWithCategory, error)

	// FindTransactionWithCategory retrieves one transaction joined with its category.
	FindTransactionWithCategory(ctx context.Context, id int64) (*domain.TransactionWithCategory, error)

	// FindTransactionsByDateRangeWithCategory retrieves joined transactions dated within [start, end].
	FindTransactionsByDateRangeWithCategory(ctx context.Context, start, end time.Time) ([]domain.TransactionWithCategory, error)

	// FindTransactionsByDateRange retrieves transactions dated within [start, end].
	FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// FindTransactionsByMonth retrieves transactions dated in the given month (1..12).
	FindTransactionsByMonth(ctx context.Context, year, month int) ([]domain.Transaction, error)

	FindTransactionsByCategory(ctx context.Context, categoryID int64) ([]domain.Transaction, error)
	FindTransactionsByBudget(ctx context.Context, budgetID int64) ([]domain.Transaction, error)

	// FindRecentTransactions retrieves at most limit transactions, newest first.
	FindRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)

	// SumTransactions totals the amounts matching the filter. No match sums to zero.
	SumTransactions(ctx context.Context, filter domain.TransactionFilter) (decimal.Decimal, error)

	// SummarizeByCategory groups transactions dated within [start, end] by category.
	SummarizeByCategory(ctx context.Context, start, end time.Time) ([]domain.CategorySummary, error)

	// SummarizeByBudget groups transactions dated within [start, end] by budget, skipping unbudgeted ones.
	SummarizeByBudget(ctx context.Context, start, end time.Time) ([]domain.BudgetSummary, error)

	CountTransactions(ctx context.Context) (int64, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, transaction domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
