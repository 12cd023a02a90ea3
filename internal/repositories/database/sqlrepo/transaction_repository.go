package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const (
	transactionColumns = "t.id, t.name, t.description, t.amount, t.type, t.category_id, t.budget_id, t.account_id, t.date, t.created_at, t.updated_at"

	selectTransactions             = "SELECT " + transactionColumns + " FROM transactions t"
	selectTransactionsWithCategory = "SELECT " + transactionColumns + ", c.name, c.icon FROM transactions t JOIN categories c ON c.id = t.category_id"

	newestFirst = " ORDER BY t.date DESC, t.id DESC"
)

type transactionRepository struct {
	baseRepository
}

// NewTransactionRepository creates a transaction repository over exec.
func NewTransactionRepository(exec portsrepo.QueryExecutor) portsrepo.TransactionRepositoryFacade {
	return &transactionRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func scanTransaction(s rowScanner) (domain.Transaction, error) {
	tw, err := scanTransactionRow(s, false)
	return tw.Transaction, err
}

func scanTransactionWithCategory(s rowScanner) (domain.TransactionWithCategory, error) {
	return scanTransactionRow(s, true)
}

func scanTransactionRow(s rowScanner, withCategory bool) (domain.TransactionWithCategory, error) {
	var tw domain.TransactionWithCategory
	var txType, date, created, updated string
	var budgetID, accountID sql.NullInt64

	dest := []any{&tw.ID, &tw.Name, &tw.Description, &tw.Amount, &txType, &tw.CategoryID,
		&budgetID, &accountID, &date, &created, &updated}
	if withCategory {
		dest = append(dest, &tw.CategoryName, &tw.CategoryIcon)
	}
	if err := s.Scan(dest...); err != nil {
		return tw, err
	}

	tw.Type = domain.TransactionType(txType)
	tw.BudgetID = idPtr(budgetID)
	tw.AccountID = idPtr(accountID)
	tw.Amount = roundMoney(tw.Amount)

	d, err := domain.ParseDate(date)
	if err != nil {
		return tw, err
	}
	tw.Date = d

	ts, err := parseTimestamps(created, updated)
	if err != nil {
		return tw, err
	}
	tw.Timestamps = ts
	return tw, nil
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := queryOne(ctx, r.exec, scanTransaction, selectTransactions+" WHERE t.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := queryAll(ctx, r.exec, scanTransaction, selectTransactions+newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListTransactionsWithCategory(ctx context.Context) ([]domain.TransactionWithCategory, error) {
	txs, err := queryAll(ctx, r.exec, scanTransactionWithCategory, selectTransactionsWithCategory+newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions with category: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) FindTransactionWithCategory(ctx context.Context, id int64) (*domain.TransactionWithCategory, error) {
	t, err := queryOne(ctx, r.exec, scanTransactionWithCategory, selectTransactionsWithCategory+" WHERE t.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %d with category: %w", id, err)
	}
	return t, nil
}

func (r *transactionRepository) FindTransactionsByDateRangeWithCategory(ctx context.Context, start, end time.Time) ([]domain.TransactionWithCategory, error) {
	txs, err := queryAll(ctx, r.exec, scanTransactionWithCategory,
		selectTransactionsWithCategory+" WHERE t.date >= ? AND t.date <= ?"+newestFirst,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions with category by date range: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) FindTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	txs, err := queryAll(ctx, r.exec, scanTransaction,
		selectTransactions+" WHERE t.date >= ? AND t.date <= ?"+newestFirst,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions by date range: %w", err)
	}
	return txs, nil
}

// FindTransactionsByMonth filters with first-of-month <= date < first-of-next-month.
func (r *transactionRepository) FindTransactionsByMonth(ctx context.Context, year, month int) ([]domain.Transaction, error) {
	start, end := domain.MonthRange(year, month)
	txs, err := queryAll(ctx, r.exec, scanTransaction,
		selectTransactions+" WHERE t.date >= ? AND t.date < ?"+newestFirst,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions for %s: %w", domain.MonthKey(year, month), err)
	}
	return txs, nil
}

func (r *transactionRepository) FindTransactionsByCategory(ctx context.Context, categoryID int64) ([]domain.Transaction, error) {
	txs, err := queryAll(ctx, r.exec, scanTransaction, selectTransactions+" WHERE t.category_id = ?"+newestFirst, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions of category %d: %w", categoryID, err)
	}
	return txs, nil
}

func (r *transactionRepository) FindTransactionsByBudget(ctx context.Context, budgetID int64) ([]domain.Transaction, error) {
	txs, err := queryAll(ctx, r.exec, scanTransaction, selectTransactions+" WHERE t.budget_id = ?"+newestFirst, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions of budget %d: %w", budgetID, err)
	}
	return txs, nil
}

func (r *transactionRepository) FindRecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	txs, err := queryAll(ctx, r.exec, scanTransaction, selectTransactions+newestFirst+" LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) SumTransactions(ctx context.Context, filter domain.TransactionFilter) (decimal.Decimal, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.CategoryID > 0 {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if !filter.StartDate.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, domain.FormatDate(filter.StartDate))
	}
	if !filter.EndDate.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, domain.FormatDate(filter.EndDate))
	}

	query := "SELECT COALESCE(SUM(amount), 0) FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	total, err := queryDecimal(ctx, r.exec, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

func (r *transactionRepository) SummarizeByCategory(ctx context.Context, start, end time.Time) ([]domain.CategorySummary, error) {
	summaries, err := queryAll(ctx, r.exec, func(s rowScanner) (domain.CategorySummary, error) {
		var cs domain.CategorySummary
		var categoryType string
		err := s.Scan(&cs.CategoryID, &cs.CategoryName, &categoryType, &cs.Total, &cs.Count)
		cs.Type = domain.TransactionType(categoryType)
		cs.Total = roundMoney(cs.Total)
		return cs, err
	}, `SELECT c.id, c.name, c.type, COALESCE(SUM(t.amount), 0) AS total, COUNT(t.id)
		FROM transactions t JOIN categories c ON c.id = t.category_id
		WHERE t.date >= ? AND t.date <= ?
		GROUP BY c.id, c.name, c.type
		ORDER BY total DESC`, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions by category: %w", err)
	}
	return summaries, nil
}

func (r *transactionRepository) SummarizeByBudget(ctx context.Context, start, end time.Time) ([]domain.BudgetSummary, error) {
	summaries, err := queryAll(ctx, r.exec, func(s rowScanner) (domain.BudgetSummary, error) {
		var bs domain.BudgetSummary
		err := s.Scan(&bs.BudgetID, &bs.BudgetName, &bs.Total, &bs.Count)
		bs.Total = roundMoney(bs.Total)
		return bs, err
	}, `SELECT b.id, b.name, COALESCE(SUM(t.amount), 0) AS total, COUNT(t.id)
		FROM transactions t JOIN budgets b ON b.id = t.budget_id
		WHERE t.date >= ? AND t.date <= ?
		GROUP BY b.id, b.name
		ORDER BY total DESC`, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions by budget: %w", err)
	}
	return summaries, nil
}

func (r *transactionRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := queryInt64(ctx, r.exec, "SELECT COUNT(*) FROM transactions")
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (r *transactionRepository) SaveTransaction(ctx context.Context, t domain.Transaction) (*domain.Transaction, error) {
	now := r.timestamp()
	res, err := r.exec.Exec(ctx, `INSERT INTO transactions
		(name, description, amount, type, category_id, budget_id, account_id, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Amount, string(t.Type), t.CategoryID,
		nullableID(t.BudgetID), nullableID(t.AccountID), domain.FormatDate(t.Date), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return r.FindTransactionByID(ctx, res.LastInsertID)
}

func (r *transactionRepository) UpdateTransaction(ctx context.Context, id int64, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if patch.IsEmpty() {
		return r.FindTransactionByID(ctx, id)
	}

	b := newUpdateBuilder("transactions", transactionUpdatableColumns)
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Amount != nil {
		b.set("amount", *patch.Amount)
	}
	if patch.Type != nil {
		b.set("type", string(*patch.Type))
	}
	if patch.CategoryID != nil {
		b.set("category_id", *patch.CategoryID)
	}
	if patch.ClearBudget {
		b.set("budget_id", nil)
	} else if patch.BudgetID != nil {
		b.set("budget_id", *patch.BudgetID)
	}
	if patch.ClearAccount {
		b.set("account_id", nil)
	} else if patch.AccountID != nil {
		b.set("account_id", *patch.AccountID)
	}
	if patch.Date != nil {
		b.set("date", domain.FormatDate(*patch.Date))
	}

	query, args, err := b.build(id, r.timestamp())
	if err != nil {
		return nil, err
	}
	if err := execAffectingOne(ctx, r.exec, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	return r.FindTransactionByID(ctx, id)
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, id int64) error {
	if err := execAffectingOne(ctx, r.exec, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return nil
}
