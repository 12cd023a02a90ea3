package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a budget by id. Returns apperrors.ErrNotFound when missing.
	FindBudgetByID(ctx context.Context, id int64) (*domain.Budget, error)

	ListBudgets(ctx context.Context) ([]domain.Budget, error)

	// ListBudgetsWithCategory retrieves every budget joined with its category and computed spent amount.
	ListBudgetsWithCategory(ctx context.Context) ([]domain.BudgetWithCategory, error)

	// FindBudgetWithCategory retrieves one budget joined with its category and spent amount.
	FindBudgetWithCategory(ctx context.Context, id int64) (*domain.BudgetWithCategory, error)

	// FindBudgetsByMonthWithCategory retrieves joined budgets whose month key is the given month.
	FindBudgetsByMonthWithCategory(ctx context.Context, year, month int) ([]domain.BudgetWithCategory, error)

	FindBudgetsByCategory(ctx context.Context, categoryID int64) ([]domain.Budget, error)

	// FindBudgetsByDateRange retrieves budgets whose [startDate, endDate] overlaps [start, end].
	FindBudgetsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Budget, error)

	FindBudgetsByPeriod(ctx context.Context, period domain.BudgetPeriod) ([]domain.Budget, error)

	// FindBudgetsByMonth retrieves budgets whose month key is the given month.
	FindBudgetsByMonth(ctx context.Context, year, month int) ([]domain.Budget, error)

	// FindActiveBudgets retrieves budgets with startDate <= day <= endDate.
	FindActiveBudgets(ctx context.Context, day time.Time) ([]domain.Budget, error)

	CountBudgets(ctx context.Context) (int64, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, id int64, patch domain.BudgetPatch) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	// SetBudgetExceeded persists the derived exceeded flag.
	SetBudgetExceeded(ctx context.Context, id int64, exceeded bool) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
