package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

const (
	budgetColumns = "b.id, b.name, b.description, b.category_id, b.amount, b.period, b.start_date, b.end_date, b.month, b.is_budget_exceeded, b.created_at, b.updated_at"

	selectBudgets = "SELECT " + budgetColumns + " FROM budgets b"

	// Spent is the expense booked in the budget's category inside its date range.
	selectBudgetsWithCategory = "SELECT " + budgetColumns + `, c.name, c.icon, c.color,
		COALESCE((SELECT SUM(t.amount) FROM transactions t
			WHERE t.category_id = b.category_id AND t.type = 'expense'
			AND t.date >= b.start_date AND t.date <= b.end_date), 0) AS spent
		FROM budgets b JOIN categories c ON c.id = b.category_id`

	budgetOrder = " ORDER BY b.start_date DESC, b.id DESC"
)

type budgetRepository struct {
	baseRepository
}

// NewBudgetRepository creates a budget repository over exec.
func NewBudgetRepository(exec portsrepo.QueryExecutor) portsrepo.BudgetRepositoryFacade {
	return &budgetRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.BudgetRepositoryFacade = (*budgetRepository)(nil)

func scanBudget(s rowScanner) (domain.Budget, error) {
	bw, err := scanBudgetRow(s, false)
	return bw.Budget, err
}

func scanBudgetWithCategory(s rowScanner) (domain.BudgetWithCategory, error) {
	return scanBudgetRow(s, true)
}

func scanBudgetRow(s rowScanner, withCategory bool) (domain.BudgetWithCategory, error) {
	var bw domain.BudgetWithCategory
	var period, startDate, endDate, created, updated string

	dest := []any{&bw.ID, &bw.Name, &bw.Description, &bw.CategoryID, &bw.Amount, &period,
		&startDate, &endDate, &bw.Month, &bw.IsBudgetExceeded, &created, &updated}
	if withCategory {
		dest = append(dest, &bw.CategoryName, &bw.CategoryIcon, &bw.CategoryColor, &bw.Spent)
	}
	if err := s.Scan(dest...); err != nil {
		return bw, err
	}

	bw.Period = domain.BudgetPeriod(period)
	bw.Amount = roundMoney(bw.Amount)
	bw.Spent = roundMoney(bw.Spent)

	var err error
	if bw.StartDate, err = domain.ParseDate(startDate); err != nil {
		return bw, err
	}
	if bw.EndDate, err = domain.ParseDate(endDate); err != nil {
		return bw, err
	}
	if bw.Timestamps, err = parseTimestamps(created, updated); err != nil {
		return bw, err
	}
	return bw, nil
}

func (r *budgetRepository) FindBudgetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	b, err := queryOne(ctx, r.exec, scanBudget, selectBudgets+" WHERE b.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %d: %w", id, err)
	}
	return b, nil
}

func (r *budgetRepository) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudget, selectBudgets+budgetOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (r *budgetRepository) ListBudgetsWithCategory(ctx context.Context) ([]domain.BudgetWithCategory, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudgetWithCategory, selectBudgetsWithCategory+budgetOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets with category: %w", err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindBudgetWithCategory(ctx context.Context, id int64) (*domain.BudgetWithCategory, error) {
	b, err := queryOne(ctx, r.exec, scanBudgetWithCategory, selectBudgetsWithCategory+" WHERE b.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %d with category: %w", id, err)
	}
	return b, nil
}

func (r *budgetRepository) FindBudgetsByMonthWithCategory(ctx context.Context, year, month int) ([]domain.BudgetWithCategory, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudgetWithCategory,
		selectBudgetsWithCategory+" WHERE b.month LIKE ?"+budgetOrder, domain.MonthKey(year, month)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to find budgets with category for %s: %w", domain.MonthKey(year, month), err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindBudgetsByCategory(ctx context.Context, categoryID int64) ([]domain.Budget, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudget, selectBudgets+" WHERE b.category_id = ?"+budgetOrder, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budgets of category %d: %w", categoryID, err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindBudgetsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Budget, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudget,
		selectBudgets+" WHERE b.start_date <= ? AND b.end_date >= ?"+budgetOrder,
		domain.FormatDate(end), domain.FormatDate(start))
	if err != nil {
		return nil, fmt.Errorf("failed to find budgets by date range: %w", err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindBudgetsByPeriod(ctx context.Context, period domain.BudgetPeriod) ([]domain.Budget, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudget, selectBudgets+" WHERE b.period = ?"+budgetOrder, string(period))
	if err != nil {
		return nil, fmt.Errorf("failed to find %s budgets: %w", period, err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindBudgetsByMonth(ctx context.Context, year, month int) ([]domain.Budget, error) {
	budgets, err := queryAll(ctx, r.exec, scanBudget,
		selectBudgets+" WHERE b.month LIKE ?"+budgetOrder, domain.MonthKey(year, month)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to find budgets for %s: %w", domain.MonthKey(year, month), err)
	}
	return budgets, nil
}

func (r *budgetRepository) FindActiveBudgets(ctx context.Context, day time.Time) ([]domain.Budget, error) {
	d := domain.FormatDate(day)
	budgets, err := queryAll(ctx, r.exec, scanBudget,
		selectBudgets+" WHERE b.start_date <= ? AND b.end_date >= ?"+budgetOrder, d, d)
	if err != nil {
		return nil, fmt.Errorf("failed to find budgets active on %s: %w", d, err)
	}
	return budgets, nil
}

func (r *budgetRepository) CountBudgets(ctx context.Context) (int64, error) {
	n, err := queryInt64(ctx, r.exec, "SELECT COUNT(*) FROM budgets")
	if err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return n, nil
}

func (r *budgetRepository) SaveBudget(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	b.Normalize()
	now := r.timestamp()
	res, err := r.exec.Exec(ctx, `INSERT INTO budgets
		(name, description, category_id, amount, period, start_date, end_date, month, is_budget_exceeded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.Description, b.CategoryID, b.Amount, string(b.Period),
		domain.FormatDate(b.StartDate), domain.FormatDate(b.EndDate), b.Month, b.IsBudgetExceeded, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert budget: %w", err)
	}
	return r.FindBudgetByID(ctx, res.LastInsertID)
}

func (r *budgetRepository) UpdateBudget(ctx context.Context, id int64, patch domain.BudgetPatch) (*domain.Budget, error) {
	if patch.IsEmpty() {
		return r.FindBudgetByID(ctx, id)
	}

	b := newUpdateBuilder("budgets", budgetUpdatableColumns)
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.CategoryID != nil {
		b.set("category_id", *patch.CategoryID)
	}
	if patch.Amount != nil {
		b.set("amount", *patch.Amount)
	}
	if patch.Period != nil {
		b.set("period", string(*patch.Period))
	}
	if patch.StartDate != nil {
		b.set("start_date", domain.FormatDate(*patch.StartDate))
	}
	if patch.EndDate != nil {
		b.set("end_date", domain.FormatDate(*patch.EndDate))
	}
	if patch.Month != nil {
		b.set("month", *patch.Month)
	}

	query, args, err := b.build(id, r.timestamp())
	if err != nil {
		return nil, err
	}
	if err := execAffectingOne(ctx, r.exec, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update budget %d: %w", id, err)
	}
	return r.FindBudgetByID(ctx, id)
}

func (r *budgetRepository) DeleteBudget(ctx context.Context, id int64) error {
	if err := execAffectingOne(ctx, r.exec, "DELETE FROM budgets WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete budget %d: %w", id, err)
	}
	return nil
}

func (r *budgetRepository) SetBudgetExceeded(ctx context.Context, id int64, exceeded bool) error {
	query, args, err := newUpdateBuilder("budgets", budgetUpdatableColumns).
		set("is_budget_exceeded", exceeded).
		build(id, r.timestamp())
	if err != nil {
		return err
	}
	if err := execAffectingOne(ctx, r.exec, query, args...); err != nil {
		return fmt.Errorf("failed to set exceeded flag on budget %d: %w", id, err)
	}
	return nil
}
