package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// querier is the part of *pgxpool.Pool and pgx.Tx the executor needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor runs statements against PostgreSQL through a pgx pool or an open pgx.Tx.
type Executor struct {
	db querier
}

var _ portsrepo.QueryExecutor = (*Executor)(nil)

// NewExecutor binds an executor to a pool. A nil pool yields an executor whose every
// call fails with apperrors.ErrNotInitialized.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	if pool == nil {
		return &Executor{}
	}
	return &Executor{db: pool}
}

func (e *Executor) Query(ctx context.Context, query string, args ...any) (portsrepo.Rows, error) {
	if e == nil || e.db == nil {
		return nil, apperrors.ErrNotInitialized
	}
	rows, err := e.db.Query(ctx, Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres query failed: %w", err)
	}
	return &pgxRows{rows: rows}, nil
}

// Exec runs a write statement. An INSERT without a RETURNING clause gets "RETURNING id"
// appended so LastInsertID is populated the same way SQLite does it.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (portsrepo.Result, error) {
	if e == nil || e.db == nil {
		return portsrepo.Result{}, apperrors.ErrNotInitialized
	}

	query = Rebind(query)
	if isInsert(query) {
		var id int64
		if err := e.db.QueryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return portsrepo.Result{}, translateError(err)
		}
		return portsrepo.Result{RowsAffected: 1, LastInsertID: id}, nil
	}

	tag, err := e.db.Exec(ctx, query, args...)
	if err != nil {
		return portsrepo.Result{}, translateError(err)
	}
	return portsrepo.Result{RowsAffected: tag.RowsAffected()}, nil
}

func (e *Executor) Dialect() portsrepo.Dialect {
	return Dialect{}
}

// Transaction runs fn inside a transaction. On an executor already bound to a
// transaction, pgx maps the nested Begin onto a savepoint.
func (e *Executor) Transaction(ctx context.Context, fn func(tx portsrepo.QueryExecutor) error) error {
	if e == nil || e.db == nil {
		return apperrors.ErrNotInitialized
	}
	return pgx.BeginFunc(ctx, e.db, func(tx pgx.Tx) error {
		return fn(&Executor{db: tx})
	})
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.Message)
	}
	return fmt.Errorf("postgres exec failed: %w", err)
}

func isInsert(query string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(trimmed, "INSERT") && !strings.Contains(trimmed, "RETURNING")
}

// Rebind rewrites '?' placeholders to PostgreSQL's $1..$n, leaving quoted literals alone.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// pgxRows adapts pgx.Rows, whose Close returns nothing, to the Rows port.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }

func (r *pgxRows) Close() error {
	r.rows.Close()
	return r.rows.Err()
}
