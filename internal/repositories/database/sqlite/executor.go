package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

// Executor runs statements against an embedded SQLite database.
type Executor struct {
	db *sql.DB
}

// NewExecutor binds an executor to an open SQLite handle. A nil handle yields an
// executor whose every call fails with apperrors.ErrNotInitialized.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

var _ portsrepo.QueryExecutor = (*Executor)(nil)
var _ portsrepo.QueryExecutor = (*txExecutor)(nil)

// sqlRunner is the part of *sql.DB and *sql.Tx the executors need.
type sqlRunner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (e *Executor) Query(ctx context.Context, query string, args ...any) (portsrepo.Rows, error) {
	if e == nil || e.db == nil {
		return nil, apperrors.ErrNotInitialized
	}
	return runQuery(ctx, e.db, query, args...)
}

func (e *Executor) Exec(ctx context.Context, query string, args ...any) (portsrepo.Result, error) {
	if e == nil || e.db == nil {
		return portsrepo.Result{}, apperrors.ErrNotInitialized
	}
	return runExec(ctx, e.db, query, args...)
}

func (e *Executor) Dialect() portsrepo.Dialect {
	return Dialect{}
}

// Transaction runs fn inside BEGIN/COMMIT. An error or panic from fn rolls back.
func (e *Executor) Transaction(ctx context.Context, fn func(tx portsrepo.QueryExecutor) error) (err error) {
	if e == nil || e.db == nil {
		return apperrors.ErrNotInitialized
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txExecutor{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txExecutor is an executor bound to an open transaction. Nested Transaction
// calls are mapped onto savepoints.
type txExecutor struct {
	tx    *sql.Tx
	depth int
}

func (t *txExecutor) Query(ctx context.Context, query string, args ...any) (portsrepo.Rows, error) {
	return runQuery(ctx, t.tx, query, args...)
}

func (t *txExecutor) Exec(ctx context.Context, query string, args ...any) (portsrepo.Result, error) {
	return runExec(ctx, t.tx, query, args...)
}

func (t *txExecutor) Dialect() portsrepo.Dialect {
	return Dialect{}
}

func (t *txExecutor) Transaction(ctx context.Context, fn func(tx portsrepo.QueryExecutor) error) error {
	t.depth++
	savepoint := fmt.Sprintf("sp_%d", t.depth)
	defer func() { t.depth-- }()

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	rollback := func() error {
		if _, err := t.tx.ExecContext(ctx, "ROLLBACK TO "+savepoint); err != nil {
			return err
		}
		_, err := t.tx.ExecContext(ctx, "RELEASE "+savepoint)
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = rollback()
			panic(p)
		}
	}()

	if err := fn(t); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint failed: %v)", err, rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE "+savepoint); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

func runQuery(ctx context.Context, r sqlRunner, query string, args ...any) (portsrepo.Rows, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	return rows, nil
}

func runExec(ctx context.Context, r sqlRunner, query string, args ...any) (portsrepo.Result, error) {
	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return portsrepo.Result{}, fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
		}
		return portsrepo.Result{}, fmt.Errorf("sqlite exec failed: %w", err)
	}
	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()
	return portsrepo.Result{RowsAffected: affected, LastInsertID: lastID}, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
