package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/dto"
	"github.com/shopspring/decimal"
)

// BudgetReaderSvc defines read operations for budget data
type BudgetReaderSvc interface {
	GetBudgets(ctx context.Context) ([]domain.Budget, error)
	GetBudgetByID(ctx context.Context, id int64) (*domain.Budget, error)

	// GetBudgetsByMonth matches the budget's YYYY-MM month key.
	GetBudgetsByMonth(ctx context.Context, year, month int) ([]domain.Budget, error)
	GetBudgetsByMonthWithCategory(ctx context.Context, year, month int) ([]domain.BudgetWithCategory, error)

	// GetBudgetsWithCategory returns an empty list when the query fails.
	GetBudgetsWithCategory(ctx context.Context) ([]domain.BudgetWithCategory, error)
	GetBudgetWithCategory(ctx context.Context, id int64) (*domain.BudgetWithCategory, error)
	GetBudgetsByCategory(ctx context.Context, categoryID int64) ([]domain.Budget, error)
	GetBudgetsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Budget, error)
	GetBudgetsByPeriod(ctx context.Context, period domain.BudgetPeriod) ([]domain.Budget, error)

	// GetActiveBudgets retrieves budgets whose date range contains day.
	GetActiveBudgets(ctx context.Context, day time.Time) ([]domain.Budget, error)
}

// BudgetStatusSvc defines the derived spending views of budgets.
type BudgetStatusSvc interface {
	// GetBudgetStatus sums the matching expense transactions fresh on every call.
	GetBudgetStatus(ctx context.Context, id int64) (*domain.BudgetStatus, error)

	// GetBudgetAlerts lists today's active budgets consumed at or above the alert threshold.
	GetBudgetAlerts(ctx context.Context) ([]domain.BudgetStatus, error)

	GetTotalBudgetAmount(ctx context.Context) (decimal.Decimal, error)

	// RecalculateBudgetStatus recomputes the status and persists the exceeded flag.
	RecalculateBudgetStatus(ctx context.Context, id int64) (*domain.BudgetStatus, error)
}

// BudgetWriterSvc defines write operations for budget data
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, id int64, req dto.UpdateBudgetRequest) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetStatusSvc
	BudgetWriterSvc
}
