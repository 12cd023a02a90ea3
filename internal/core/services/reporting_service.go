package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	repo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{repo: repo}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// GeneratePeriodReport builds totals, the category breakdown and account movements for [start, end].
func (s *reportingService) GeneratePeriodReport(ctx context.Context, start, end time.Time) (*domain.PeriodReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	start, end = domain.TruncateDay(start), domain.TruncateDay(end)

	categoryTotals, err := s.repo.GetCategoryTotals(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to get category totals for period report")
		return nil, fmt.Errorf("failed to generate period report: %w", err)
	}
	accounts, err := s.repo.GetAccountMovements(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to get account movements for period report")
		return nil, fmt.Errorf("failed to generate period report: %w", err)
	}

	report := &domain.PeriodReport{
		StartDate:         start,
		EndDate:           end,
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		CategoryBreakdown: []domain.CategoryReport{},
		Accounts:          nonNil(accounts),
	}
	for _, c := range categoryTotals {
		switch c.Type {
		case domain.Income:
			report.TotalIncome = report.TotalIncome.Add(c.Amount)
		case domain.Expense:
			report.TotalExpense = report.TotalExpense.Add(c.Amount)
		}
	}
	report.NetAmount = report.TotalIncome.Sub(report.TotalExpense)

	for _, c := range categoryTotals {
		if !c.Amount.IsPositive() {
			continue
		}
		typeTotal := report.TotalExpense
		if c.Type == domain.Income {
			typeTotal = report.TotalIncome
		}
		c.Percentage = c.Amount.Div(typeTotal).Mul(hundred).Round(2)
		report.CategoryBreakdown = append(report.CategoryBreakdown, c)
	}
	sort.SliceStable(report.CategoryBreakdown, func(i, j int) bool {
		return report.CategoryBreakdown[i].Amount.GreaterThan(report.CategoryBreakdown[j].Amount)
	})

	s.LogDebug(ctx, "Period report generated",
		slog.String("start", domain.FormatDate(start)),
		slog.String("end", domain.FormatDate(end)),
		slog.Int("categories", len(report.CategoryBreakdown)))
	return report, nil
}

// GenerateTrendReport folds daily totals into interval buckets ordered by bucket key.
func (s *reportingService) GenerateTrendReport(ctx context.Context, start, end time.Time, interval domain.ReportInterval) ([]domain.TrendPoint, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if !interval.IsValid() {
		return nil, apperrors.Validationf("unsupported interval %q", interval)
	}

	daily, err := s.repo.GetDailyTotals(ctx, domain.TruncateDay(start), domain.TruncateDay(end))
	if err != nil {
		s.LogError(ctx, err, "Failed to get daily totals for trend report", slog.String("interval", string(interval)))
		return nil, fmt.Errorf("failed to generate trend report: %w", err)
	}

	buckets := make(map[string]*domain.TrendPoint)
	var keys []string
	for _, point := range daily {
		day, err := domain.ParseDate(point.Period)
		if err != nil {
			return nil, fmt.Errorf("failed to generate trend report: %w", err)
		}
		key := interval.BucketKey(day)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.TrendPoint{Period: key, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = bucket
			keys = append(keys, key)
		}
		bucket.Income = bucket.Income.Add(point.Income)
		bucket.Expense = bucket.Expense.Add(point.Expense)
	}
	sort.Strings(keys)

	trend := make([]domain.TrendPoint, 0, len(keys))
	for _, key := range keys {
		bucket := buckets[key]
		bucket.Net = bucket.Income.Sub(bucket.Expense)
		trend = append(trend, *bucket)
	}
	return trend, nil
}
