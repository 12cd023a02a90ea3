package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// GeneratePeriodReport totals income and expense over [start, end] with a
	// per-category breakdown sorted by amount and a per-account summary.
	GeneratePeriodReport(ctx context.Context, start, end time.Time) (*domain.PeriodReport, error)

	// GenerateTrendReport buckets income and expense over [start, end] by interval.
	GenerateTrendReport(ctx context.Context, start, end time.Time, interval domain.ReportInterval) ([]domain.TrendPoint, error)
}
