package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"github.com/SscSPs/finance_manager/internal/platform/config"
	platformdb "github.com/SscSPs/finance_manager/internal/platform/database"
	"github.com/SscSPs/finance_manager/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_manager/internal/repositories/database/sqlite"
	"github.com/SscSPs/finance_manager/internal/repositories/database/sqlrepo"
	"github.com/SscSPs/finance_manager/pkg/database"
	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
)

var resetRetryInterval = 500 * time.Millisecond

// openExecutor connects to the configured driver. The returned func releases the handle.
func openExecutor(ctx context.Context, cfg *config.Config) (portsrepo.QueryExecutor, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.PgMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewExecutor(pool), func() { database.ClosePgxPool(pool) }, nil
	default:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return sqlite.NewExecutor(db), func() { database.CloseSQLiteDB(db) }, nil
	}
}

func newManager(exec portsrepo.QueryExecutor, cfg *config.Config) *platformdb.Manager {
	return platformdb.NewManager(exec, sqlrepo.NewCategoryRepository,
		platformdb.WithClearData(cfg.ClearData),
		platformdb.WithLogger(logger),
	)
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create missing tables and seed default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			exec, closeDB, err := openExecutor(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := newManager(exec, cfg).Initialize(ctx); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			logger.Info("Database initialized", slog.String("driver", cfg.DBDriver))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var attempts uint64

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table, recreate the schema and reseed defaults",
		Long: `Drop every table, recreate the schema and reseed default categories in one transaction.
All stored transactions, budgets, accounts and bank balances are lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if attempts == 0 {
				return fmt.Errorf("--attempts must be at least 1")
			}
			ctx := cmd.Context()
			exec, closeDB, err := openExecutor(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			return resetWithRetry(ctx, newManager(exec, cfg), attempts)
		},
	}

	cmd.Flags().Uint64Var(&attempts, "attempts", 3, "number of reset attempts before giving up")
	return cmd
}

// resetWithRetry retries failed resets with exponential backoff. A busy manager is
// retried too; context cancellation stops immediately.
func resetWithRetry(ctx context.Context, manager interface{ Reset(context.Context) error }, attempts uint64) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = resetRetryInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := manager.Reset(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		level := slog.LevelWarn
		if errors.Is(err, apperrors.ErrBusy) {
			level = slog.LevelInfo
		}
		logger.Log(ctx, level, "Reset attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, attempts-1), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return fmt.Errorf("reset failed after %d attempt(s): %w", attempt, err)
	}
	logger.Info("Database reset", slog.Int("attempts", attempt))
	return nil
}
