package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

type reportingRepository struct {
	baseRepository
}

// NewReportingRepository creates the aggregate query repository over exec.
func NewReportingRepository(exec portsrepo.QueryExecutor) portsrepo.ReportingRepository {
	return &reportingRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) GetCategoryTotals(ctx context.Context, start, end time.Time) ([]domain.CategoryReport, error) {
	totals, err := queryAll(ctx, r.exec, func(s rowScanner) (domain.CategoryReport, error) {
		var cr domain.CategoryReport
		var categoryType string
		err := s.Scan(&cr.CategoryID, &cr.CategoryName, &cr.Color, &cr.Icon, &categoryType, &cr.Amount)
		cr.Type = domain.TransactionType(categoryType)
		cr.Amount = roundMoney(cr.Amount)
		return cr, err
	}, `SELECT c.id, c.name, c.color, c.icon, c.type, COALESCE(SUM(t.amount), 0) AS total
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id AND t.date >= ? AND t.date <= ?
		GROUP BY c.id, c.name, c.color, c.icon, c.type
		ORDER BY total DESC, c.id`, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to get category totals: %w", err)
	}
	return totals, nil
}

func (r *reportingRepository) GetAccountMovements(ctx context.Context, start, end time.Time) ([]domain.AccountReport, error) {
	movements, err := queryAll(ctx, r.exec, func(s rowScanner) (domain.AccountReport, error) {
		var ar domain.AccountReport
		err := s.Scan(&ar.AccountID, &ar.AccountName, &ar.ClosingBalance, &ar.Income, &ar.Expense)
		ar.ClosingBalance = roundMoney(ar.ClosingBalance)
		ar.Income = roundMoney(ar.Income)
		ar.Expense = roundMoney(ar.Expense)
		ar.Net = ar.Income.Sub(ar.Expense)
		return ar, err
	}, `SELECT a.id, a.name, a.closing_balance,
			COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id AND t.date >= ? AND t.date <= ?
		GROUP BY a.id, a.name, a.closing_balance
		ORDER BY a.name, a.id`, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to get account movements: %w", err)
	}
	return movements, nil
}

func (r *reportingRepository) GetDailyTotals(ctx context.Context, start, end time.Time) ([]domain.TrendPoint, error) {
	points, err := queryAll(ctx, r.exec, func(s rowScanner) (domain.TrendPoint, error) {
		var p domain.TrendPoint
		err := s.Scan(&p.Period, &p.Income, &p.Expense)
		p.Income = roundMoney(p.Income)
		p.Expense = roundMoney(p.Expense)
		p.Net = p.Income.Sub(p.Expense)
		return p, err
	}, `SELECT date,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date`, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}
	return points, nil
}
