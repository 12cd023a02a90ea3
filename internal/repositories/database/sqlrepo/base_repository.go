package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// timestampLayout is how created_at/updated_at are stored.
const timestampLayout = time.RFC3339Nano

// baseRepository carries the executor and clock shared by every repository.
type baseRepository struct {
	exec portsrepo.QueryExecutor
	now  func() time.Time
}

func newBaseRepository(exec portsrepo.QueryExecutor) baseRepository {
	return baseRepository{exec: exec, now: func() time.Time { return time.Now().UTC() }}
}

func (b baseRepository) timestamp() string {
	return b.now().Format(timestampLayout)
}

// rowScanner is satisfied by portsrepo.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func queryAll[T any](ctx context.Context, exec portsrepo.QueryExecutor, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// queryOne returns apperrors.ErrNotFound when the query yields no row.
func queryOne[T any](ctx context.Context, exec portsrepo.QueryExecutor, scan func(rowScanner) (T, error), query string, args ...any) (*T, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating rows: %w", err)
		}
		return nil, apperrors.ErrNotFound
	}
	item, err := scan(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	return &item, nil
}

func queryInt64(ctx context.Context, exec portsrepo.QueryExecutor, query string, args ...any) (int64, error) {
	n, err := queryOne(ctx, exec, func(s rowScanner) (int64, error) {
		var v int64
		err := s.Scan(&v)
		return v, err
	}, query, args...)
	if err != nil {
		return 0, err
	}
	return *n, nil
}

func queryDecimal(ctx context.Context, exec portsrepo.QueryExecutor, query string, args ...any) (decimal.Decimal, error) {
	d, err := queryOne(ctx, exec, func(s rowScanner) (decimal.Decimal, error) {
		var v decimal.Decimal
		err := s.Scan(&v)
		return v, err
	}, query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	return roundMoney(*d), nil
}

// roundMoney trims float noise that SQLite's REAL arithmetic can leave in sums.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// execAffectingOne fails with apperrors.ErrNotFound when no row was touched.
func execAffectingOne(ctx context.Context, exec portsrepo.QueryExecutor, query string, args ...any) error {
	res, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func parseTimestamps(created, updated string) (domain.Timestamps, error) {
	c, err := time.Parse(timestampLayout, created)
	if err != nil {
		return domain.Timestamps{}, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	u, err := time.Parse(timestampLayout, updated)
	if err != nil {
		return domain.Timestamps{}, fmt.Errorf("invalid updated_at %q: %w", updated, err)
	}
	return domain.Timestamps{CreatedAt: c, UpdatedAt: u}, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
