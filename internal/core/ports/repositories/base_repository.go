package repositories

import (
	"context"
)

// Rows is a forward-only cursor over a query result.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Result reports the outcome of a write statement.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// QueryExecutor is the single gateway to the store. SQL uses '?' placeholders;
// engine adapters rebind them as needed.
type QueryExecutor interface {
	// Query runs a statement that returns rows. Callers must close the rows.
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) (Result, error)

	// Transaction runs fn inside a transaction. It commits when fn returns nil and rolls
	// back on error or panic. Called on a transaction-bound executor it nests via a savepoint.
	Transaction(ctx context.Context, fn func(tx QueryExecutor) error) error

	// Dialect describes the engine behind the executor.
	Dialect() Dialect
}

// Dialect carries the engine-specific fragments the schema registry and lifecycle
// manager need. Everything else is written in the common SQL subset.
type Dialect interface {
	// Name identifies the engine, e.g. "sqlite" or "postgres".
	Name() string

	// AutoIncrementPK is the column definition of an auto-increment integer primary key.
	AutoIncrementPK() string

	// BoolType is the column type used for flags.
	BoolType() string

	// MoneyType is the column type used for amounts.
	MoneyType() string

	// TableExistsQuery returns one row when the table named by its single argument exists.
	TableExistsQuery() string

	// ListTablesQuery returns the name of every user table.
	ListTablesQuery() string

	// IsSystemTable reports whether the engine owns the table and it must never be dropped.
	IsSystemTable(name string) bool

	// DisableForeignKeys and EnableForeignKeys toggle enforcement. Empty means the engine has no toggle.
	DisableForeignKeys() string
	EnableForeignKeys() string

	// DropTable returns the statement dropping the named table if it exists.
	DropTable(name string) string
}

// UnitOfWork runs fn with every repository bound to one database transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos RepositoryProvider) error) error
}
