package database

import (
	"fmt"

	portsrepo "github.com/SscSPs/finance_manager/internal/core/ports/repositories"
)

// Table declares one persisted table. Create renders its DDL for a dialect and
// DependsOn names the tables its foreign keys reference.
type Table struct {
	Name      string
	DependsOn []string
	Create    func(d portsrepo.Dialect) string
}

// Registry is the ordered set of tables owned by the application.
type Registry struct {
	tables []Table
	byName map[string]Table
}

// NewRegistry builds a registry and rejects unknown or cyclic dependencies.
func NewRegistry(tables ...Table) (*Registry, error) {
	r := &Registry{byName: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("table %q registered twice", t.Name)
		}
		r.byName[t.Name] = t
	}
	for _, t := range tables {
		for _, dep := range t.DependsOn {
			if _, ok := r.byName[dep]; !ok {
				return nil, fmt.Errorf("table %q depends on unknown table %q", t.Name, dep)
			}
		}
	}

	ordered, err := topoSort(tables, r.byName)
	if err != nil {
		return nil, err
	}
	r.tables = ordered
	return r, nil
}

// CreationOrder lists tables so that every table follows the tables it references.
func (r *Registry) CreationOrder() []Table {
	out := make([]Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// DropOrder is CreationOrder reversed.
func (r *Registry) DropOrder() []Table {
	out := make([]Table, len(r.tables))
	for i, t := range r.tables {
		out[len(r.tables)-1-i] = t
	}
	return out
}

// Names lists the registered table names in creation order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		names = append(names, t.Name)
	}
	return names
}

func topoSort(tables []Table, byName map[string]Table) ([]Table, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(tables))
	ordered := make([]Table, 0, len(tables))

	var visit func(t Table) error
	visit = func(t Table) error {
		switch state[t.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle through table %q", t.Name)
		}
		state[t.Name] = visiting
		for _, dep := range t.DependsOn {
			if err := visit(byName[dep]); err != nil {
				return err
			}
		}
		state[t.Name] = done
		ordered = append(ordered, t)
		return nil
	}

	// Registration order breaks ties so the output is stable.
	for _, t := range tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// DefaultRegistry returns the finance schema: categories, accounts, budgets,
// transactions and bank_balances.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Table{Name: "categories", Create: createCategories},
		Table{Name: "accounts", Create: createAccounts},
		Table{Name: "budgets", DependsOn: []string{"categories"}, Create: createBudgets},
		Table{Name: "transactions", DependsOn: []string{"categories", "budgets", "accounts"}, Create: createTransactions},
		Table{Name: "bank_balances", Create: createBankBalances},
	)
	if err != nil {
		panic(err)
	}
	return r
}

func createCategories(d portsrepo.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
	id %s,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	icon TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	is_default %s NOT NULL DEFAULT %s,
	is_active %s NOT NULL DEFAULT %s,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`, d.AutoIncrementPK(), d.BoolType(), boolLiteral(d, false), d.BoolType(), boolLiteral(d, true))
}

func createAccounts(d portsrepo.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS accounts (
	id %s,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('bank', 'cash', 'credit', 'investment', 'other')),
	opening_balance %s NOT NULL DEFAULT 0,
	closing_balance %s NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`, d.AutoIncrementPK(), d.MoneyType(), d.MoneyType())
}

func createBudgets(d portsrepo.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS budgets (
	id %s,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category_id BIGINT NOT NULL REFERENCES categories (id),
	amount %s NOT NULL CHECK (amount > 0),
	period TEXT NOT NULL CHECK (period IN ('daily', 'weekly', 'monthly', 'yearly')),
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	month TEXT NOT NULL,
	is_budget_exceeded %s NOT NULL DEFAULT %s,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`, d.AutoIncrementPK(), d.MoneyType(), d.BoolType(), boolLiteral(d, false))
}

func createTransactions(d portsrepo.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transactions (
	id %s,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount %s NOT NULL CHECK (amount > 0),
	type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	category_id BIGINT NOT NULL REFERENCES categories (id),
	budget_id BIGINT REFERENCES budgets (id) ON DELETE SET NULL,
	account_id BIGINT REFERENCES accounts (id) ON DELETE SET NULL,
	date TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`, d.AutoIncrementPK(), d.MoneyType())
}

func createBankBalances(d portsrepo.Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bank_balances (
	id %s,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
	opening_balance %s NOT NULL DEFAULT 0,
	closing_balance %s NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (year, month)
)`, d.AutoIncrementPK(), d.MoneyType(), d.MoneyType())
}

func boolLiteral(d portsrepo.Dialect, v bool) string {
	if d.BoolType() == "BOOLEAN" {
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	if v {
		return "1"
	}
	return "0"
}
