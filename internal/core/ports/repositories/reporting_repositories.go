package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// ReportingRepository defines the aggregate queries behind period and trend reports.
type ReportingRepository interface {
	// GetCategoryTotals sums transactions dated within [start, end] per category,
	// including category presentation fields.
	GetCategoryTotals(ctx context.Context, start, end time.Time) ([]domain.CategoryReport, error)

	// GetAccountMovements sums income and expense per account over [start, end].
	// Every account is returned, movements default to zero.
	GetAccountMovements(ctx context.Context, start, end time.Time) ([]domain.AccountReport, error)

	// GetDailyTotals returns one point per day that has transactions within [start, end],
	// keyed YYYY-MM-DD and ordered by day.
	GetDailyTotals(ctx context.Context, start, end time.Time) ([]domain.TrendPoint, error)
}
