package pgsql

import (
	"fmt"
	"strings"
)

// Dialect is the PostgreSQL flavor of the schema and catalog fragments.
type Dialect struct{}

func (Dialect) Name() string            { return "postgres" }
func (Dialect) AutoIncrementPK() string { return "BIGSERIAL PRIMARY KEY" }
func (Dialect) BoolType() string        { return "BOOLEAN" }
func (Dialect) MoneyType() string       { return "NUMERIC(14,2)" }

func (Dialect) TableExistsQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?"
}

func (Dialect) ListTablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'"
}

func (Dialect) IsSystemTable(name string) bool {
	return strings.HasPrefix(name, "pg_") || name == "schema_migrations"
}

// PostgreSQL has no session-wide foreign key switch; DropTable cascades instead.
func (Dialect) DisableForeignKeys() string { return "" }
func (Dialect) EnableForeignKeys() string  { return "" }

func (Dialect) DropTable(name string) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s" CASCADE`, name)
}
