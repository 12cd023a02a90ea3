package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/SscSPs/finance_manager/internal/apperrors"
	"github.com/SscSPs/finance_manager/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
	"golang.org/x/sync/singleflight"
)

// CategoryRepoFactory binds a category repository to an executor, usually a
// transaction-scoped one.
type CategoryRepoFactory func(exec portsrepo.QueryExecutor) portsrepo.CategoryRepositoryFacade

// Manager owns schema creation, default data and full resets.
type Manager struct {
	exec            portsrepo.QueryExecutor
	registry        *Registry
	newCategoryRepo CategoryRepoFactory
	defaults        []domain.Category
	clearData       bool
	logger          *slog.Logger

	group       singleflight.Group
	initialized atomic.Bool
	resetting   atomic.Bool
}

// ManagerOption is a function that configures a Manager
type ManagerOption func(*Manager)

// WithClearData drops every table before the first initialization.
func WithClearData(clear bool) ManagerOption {
	return func(m *Manager) {
		m.clearData = clear
	}
}

// WithRegistry replaces the default finance schema.
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithDefaultCategories replaces the categories seeded into an empty table.
func WithDefaultCategories(defaults []domain.Category) ManagerOption {
	return func(m *Manager) {
		m.defaults = defaults
	}
}

// WithLogger sets the logger used for lifecycle progress.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a lifecycle manager over exec.
func NewManager(exec portsrepo.QueryExecutor, newCategoryRepo CategoryRepoFactory, opts ...ManagerOption) *Manager {
	m := &Manager{
		exec:            exec,
		registry:        DefaultRegistry(),
		newCategoryRepo: newCategoryRepo,
		defaults:        domain.DefaultCategories,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsInitialized reports whether an Initialize or Reset has completed.
func (m *Manager) IsInitialized() bool {
	return m.initialized.Load()
}

// Initialize prepares the store: optional wipe, create missing tables, seed
// defaults into an empty categories table. Concurrent callers share one run and
// later calls return immediately. A failed run leaves the manager uninitialized
// so the next call retries.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.initialized.Load() {
		return nil
	}

	_, err, shared := m.group.Do("initialize", func() (any, error) {
		if m.initialized.Load() {
			return nil, nil
		}
		if err := m.initialize(ctx); err != nil {
			return nil, err
		}
		m.initialized.Store(true)
		return nil, nil
	})
	if shared {
		m.logger.Debug("Joined in-flight database initialization")
	}
	return err
}

func (m *Manager) initialize(ctx context.Context) error {
	if m.clearData {
		m.logger.Warn("DATA_CLEAR is set, dropping all tables")
		if err := m.dropAllTables(ctx); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	err := m.exec.Transaction(ctx, func(tx portsrepo.QueryExecutor) error {
		if err := m.createMissingTables(ctx, tx); err != nil {
			return err
		}
		return m.seedDefaults(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m.logger.Info("Database initialized", slog.String("dialect", m.exec.Dialect().Name()))
	return nil
}

// Reset drops every registered table, recreates the schema and reseeds defaults
// inside one transaction. A second Reset while one is running fails with apperrors.ErrBusy.
func (m *Manager) Reset(ctx context.Context) error {
	if !m.resetting.CompareAndSwap(false, true) {
		return apperrors.ErrBusy
	}
	defer m.resetting.Store(false)

	dialect := m.exec.Dialect()
	// SQLite ignores the foreign key pragma inside a transaction, so toggle around it.
	if err := m.execIfSet(ctx, m.exec, dialect.DisableForeignKeys()); err != nil {
		return fmt.Errorf("failed to disable foreign keys: %w", err)
	}
	defer func() {
		if err := m.execIfSet(ctx, m.exec, dialect.EnableForeignKeys()); err != nil {
			m.logger.Error("Failed to re-enable foreign keys after reset", slog.String("error", err.Error()))
		}
	}()

	err := m.exec.Transaction(ctx, func(tx portsrepo.QueryExecutor) error {
		for _, t := range m.registry.DropOrder() {
			if _, err := tx.Exec(ctx, dialect.DropTable(t.Name)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", t.Name, err)
			}
		}
		if err := m.createMissingTables(ctx, tx); err != nil {
			return err
		}
		return m.seedDefaults(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}

	m.initialized.Store(true)
	m.logger.Info("Database reset completed")
	return nil
}

func (m *Manager) dropAllTables(ctx context.Context) error {
	dialect := m.exec.Dialect()

	names, err := m.listTables(ctx)
	if err != nil {
		return err
	}

	if err := m.execIfSet(ctx, m.exec, dialect.DisableForeignKeys()); err != nil {
		return fmt.Errorf("failed to disable foreign keys: %w", err)
	}
	var dropErr error
	for _, name := range names {
		if dialect.IsSystemTable(name) {
			continue
		}
		if _, err := m.exec.Exec(ctx, dialect.DropTable(name)); err != nil {
			dropErr = fmt.Errorf("failed to drop table %s: %w", name, err)
			break
		}
		m.logger.Debug("Dropped table", slog.String("table", name))
	}
	if err := m.execIfSet(ctx, m.exec, dialect.EnableForeignKeys()); err != nil {
		return errors.Join(dropErr, fmt.Errorf("failed to enable foreign keys: %w", err))
	}
	return dropErr
}

func (m *Manager) listTables(ctx context.Context) ([]string, error) {
	rows, err := m.exec.Query(ctx, m.exec.Dialect().ListTablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (m *Manager) createMissingTables(ctx context.Context, exec portsrepo.QueryExecutor) error {
	dialect := exec.Dialect()
	for _, t := range m.registry.CreationOrder() {
		exists, err := tableExists(ctx, exec, t.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := exec.Exec(ctx, t.Create(dialect)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
		m.logger.Debug("Created table", slog.String("table", t.Name))
	}
	return nil
}

func tableExists(ctx context.Context, exec portsrepo.QueryExecutor, name string) (bool, error) {
	rows, err := exec.Query(ctx, exec.Dialect().TableExistsQuery(), name)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	defer rows.Close()
	exists := rows.Next()
	return exists, rows.Err()
}

// seedDefaults inserts the default categories when the table is empty,
// skipping any default whose name is already taken.
func (m *Manager) seedDefaults(ctx context.Context, exec portsrepo.QueryExecutor) error {
	repo := m.newCategoryRepo(exec)

	count, err := repo.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeded := 0
	for _, c := range m.defaults {
		_, err := repo.FindCategoryByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to look up default category %q: %w", c.Name, err)
		}
		if _, err := repo.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("failed to seed default category %q: %w", c.Name, err)
		}
		seeded++
	}
	m.logger.Info("Seeded default categories", slog.Int("count", seeded))
	return nil
}

func (m *Manager) execIfSet(ctx context.Context, exec portsrepo.QueryExecutor, stmt string) error {
	if stmt == "" {
		return nil
	}
	_, err := exec.Exec(ctx, stmt)
	return err
}
