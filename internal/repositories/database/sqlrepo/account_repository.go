package sqlrepo

import (
	"context"
	"fmt"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const accountColumns = "id, name, type, opening_balance, closing_balance, created_at, updated_at"

type accountRepository struct {
	baseRepository
}

// NewAccountRepository creates an account repository over exec.
func NewAccountRepository(exec portsrepo.QueryExecutor) portsrepo.AccountRepositoryFacade {
	return &accountRepository{baseRepository: newBaseRepository(exec)}
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func scanAccount(s rowScanner) (domain.Account, error) {
	var a domain.Account
	var accountType, created, updated string
	if err := s.Scan(&a.ID, &a.Name, &accountType, &a.OpeningBalance, &a.ClosingBalance, &created, &updated); err != nil {
		return a, err
	}
	a.Type = domain.AccountType(accountType)
	a.OpeningBalance = roundMoney(a.OpeningBalance)
	a.ClosingBalance = roundMoney(a.ClosingBalance)
	ts, err := parseTimestamps(created, updated)
	if err != nil {
		return a, err
	}
	a.Timestamps = ts
	return a, nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := queryOne(ctx, r.exec, scanAccount, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", id, err)
	}
	return a, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := queryAll(ctx, r.exec, scanAccount, "SELECT "+accountColumns+" FROM accounts ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, a domain.Account) (*domain.Account, error) {
	now := r.timestamp()
	res, err := r.exec.Exec(ctx, `INSERT INTO accounts
		(name, type, opening_balance, closing_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, string(a.Type), a.OpeningBalance, a.OpeningBalance, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}
	return r.FindAccountByID(ctx, res.LastInsertID)
}

func (r *accountRepository) UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	b := newUpdateBuilder("accounts", accountUpdatableColumns)
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Type != nil {
		b.set("type", string(*patch.Type))
	}
	if patch.OpeningBalance != nil {
		b.set("opening_balance", *patch.OpeningBalance)
	}
	if b.empty() {
		return r.FindAccountByID(ctx, id)
	}

	query, args, err := b.build(id, r.timestamp())
	if err != nil {
		return nil, err
	}
	if err := execAffectingOne(ctx, r.exec, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update account %d: %w", id, err)
	}
	return r.FindAccountByID(ctx, id)
}

func (r *accountRepository) DeleteAccount(ctx context.Context, id int64) error {
	if err := execAffectingOne(ctx, r.exec, "DELETE FROM accounts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	return nil
}

func (r *accountRepository) AdjustAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	err := execAffectingOne(ctx, r.exec,
		"UPDATE accounts SET closing_balance = closing_balance + ?, updated_at = ? WHERE id = ?",
		delta, r.timestamp(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of account %d: %w", id, err)
	}
	return nil
}
