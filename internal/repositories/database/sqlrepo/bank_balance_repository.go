package sqlrepo

import (
	"context"
	"fmt"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const bankBalanceColumns = "id, year, month, opening_balance, closing_balance, created_at, updated_at"

type bankBalanceRepository struct {
	baseRepository
}

// NewBankBalanceRepository creates a bank balance repository over exec.
func NewBankBalanceRepository(exec portsrepo.QueryExecutor) portsrepo.BankBalanceRepositoryFacade {
	return &bankBalanceRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.BankBalanceRepositoryFacade = (*bankBalanceRepository)(nil)

func scanBankBalance(s rowScanner) (domain.BankBalance, error) {
	var bb domain.BankBalance
	var created, updated string
	if err := s.Scan(&bb.ID, &bb.Year, &bb.Month, &bb.OpeningBalance, &bb.ClosingBalance, &created, &updated); err != nil {
		return bb, err
	}
	bb.OpeningBalance = roundMoney(bb.OpeningBalance)
	bb.ClosingBalance = roundMoney(bb.ClosingBalance)
	ts, err := parseTimestamps(created, updated)
	if err != nil {
		return bb, err
	}
	bb.Timestamps = ts
	return bb, nil
}

func (r *bankBalanceRepository) FindBankBalance(ctx context.Context, year, month int) (*domain.BankBalance, error) {
	bb, err := queryOne(ctx, r.exec, scanBankBalance,
		"SELECT "+bankBalanceColumns+" FROM bank_balances WHERE year = ? AND month = ?", year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank balance for %s: %w", domain.MonthKey(year, month), err)
	}
	return bb, nil
}

func (r *bankBalanceRepository) FindBankBalancesByYear(ctx context.Context, year int) ([]domain.BankBalance, error) {
	balances, err := queryAll(ctx, r.exec, scanBankBalance,
		"SELECT "+bankBalanceColumns+" FROM bank_balances WHERE year = ? ORDER BY month", year)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank balances for %d: %w", year, err)
	}
	return balances, nil
}

func (r *bankBalanceRepository) SaveBankBalance(ctx context.Context, bb domain.BankBalance) (*domain.BankBalance, error) {
	now := r.timestamp()
	_, err := r.exec.Exec(ctx, `INSERT INTO bank_balances
		(year, month, opening_balance, closing_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		bb.Year, bb.Month, bb.OpeningBalance, bb.ClosingBalance, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bank balance for %s: %w", domain.MonthKey(bb.Year, bb.Month), err)
	}
	return r.FindBankBalance(ctx, bb.Year, bb.Month)
}

// UpdateBankBalance keeps the stored value of any nil field through COALESCE.
func (r *bankBalanceRepository) UpdateBankBalance(ctx context.Context, year, month int, patch domain.BankBalancePatch) error {
	err := execAffectingOne(ctx, r.exec, `UPDATE bank_balances
		SET opening_balance = COALESCE(?, opening_balance),
			closing_balance = COALESCE(?, closing_balance),
			updated_at = ?
		WHERE year = ? AND month = ?`,
		nullableDecimal(patch.OpeningBalance), nullableDecimal(patch.ClosingBalance), r.timestamp(), year, month)
	if err != nil {
		return fmt.Errorf("failed to update bank balance for %s: %w", domain.MonthKey(year, month), err)
	}
	return nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
