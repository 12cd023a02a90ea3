package sqlrepo

import (
	"fmt"
	"strings"
)

// Columns that may be written through an UPDATE, per table. id and created_at
// are never listed.
var (
	categoryUpdatableColumns    = []string{"name", "type", "icon", "color", "description", "sort_order", "is_active"}
	transactionUpdatableColumns = []string{"name", "description", "amount", "type", "category_id", "budget_id", "account_id", "date"}
	budgetUpdatableColumns      = []string{"name", "description", "category_id", "amount", "period", "start_date", "end_date", "month", "is_budget_exceeded"}
	accountUpdatableColumns     = []string{"name", "type", "opening_balance"}
)

// updateBuilder renders "UPDATE t SET a = ?, ... WHERE id = ?" from allow-listed columns.
type updateBuilder struct {
	table   string
	allowed map[string]struct{}
	sets    []string
	args    []any
	err     error
}

func newUpdateBuilder(table string, allowed []string) *updateBuilder {
	m := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		m[c] = struct{}{}
	}
	return &updateBuilder{table: table, allowed: m}
}

// set records column = value. A column outside the allow-list poisons the builder.
func (b *updateBuilder) set(column string, value any) *updateBuilder {
	if b.err != nil {
		return b
	}
	if _, ok := b.allowed[column]; !ok {
		b.err = fmt.Errorf("column %q is not updatable on %s", column, b.table)
		return b
	}
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
	return b
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build appends updated_at and the id predicate.
func (b *updateBuilder) build(id int64, updatedAt string) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	sets := append(append([]string{}, b.sets...), "updated_at = ?")
	args := append(append([]any{}, b.args...), updatedAt, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", b.table, strings.Join(sets, ", "))
	return query, args, nil
}
