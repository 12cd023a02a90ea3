package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations for transaction data.
// Date ranges are inclusive on both ends.
type TransactionReaderSvc interface {
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// GetTransactionsByMonth retrieves transactions dated in the given month (1..12).
	GetTransactionsByMonth(ctx context.Context, year, month int) ([]domain.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// GetTransactionsWithCategory returns an empty list when the query fails.
	GetTransactionsWithCategory(ctx context.Context) ([]domain.TransactionWithCategory, error)
	GetTransactionWithCategory(ctx context.Context, id int64) (*domain.TransactionWithCategory, error)
	GetTransactionsByDateRangeWithCategory(ctx context.Context, start, end time.Time) ([]domain.TransactionWithCategory, error)
	GetTransactionsByCategoryID(ctx context.Context, categoryID int64) ([]domain.Transaction, error)
	GetTransactionsByBudgetID(ctx context.Context, budgetID int64) ([]domain.Transaction, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// TransactionAggregatorSvc defines aggregate queries over transactions.
type TransactionAggregatorSvc interface {
	GetTransactionsSummaryByCategory(ctx context.Context, start, end time.Time) ([]domain.CategorySummary, error)
	GetTransactionsSummaryByBudget(ctx context.Context, start, end time.Time) ([]domain.BudgetSummary, error)

	// GetTotalIncome sums income dated within [start, end]. Zero bounds are open.
	GetTotalIncome(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// GetTotalExpense sums expense dated within [start, end]. Zero bounds are open.
	GetTotalExpense(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

// TransactionWriterSvc defines write operations for transaction data.
// Every successful write publishes a domain event and a change notification.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionAggregatorSvc
	TransactionWriterSvc
}
