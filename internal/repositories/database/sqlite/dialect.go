package sqlite

import (
	"fmt"
	"strings"
)

// Dialect is the SQLite flavor of the schema and catalog fragments.
type Dialect struct{}

func (Dialect) Name() string            { return "sqlite" }
func (Dialect) AutoIncrementPK() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }
func (Dialect) BoolType() string        { return "INTEGER" }
func (Dialect) MoneyType() string       { return "NUMERIC" }

func (Dialect) TableExistsQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
}

func (Dialect) ListTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table'"
}

// IsSystemTable covers sqlite_sequence and the other sqlite_ internal tables.
func (Dialect) IsSystemTable(name string) bool {
	return strings.HasPrefix(name, "sqlite_")
}

func (Dialect) DisableForeignKeys() string { return "PRAGMA foreign_keys = OFF" }
func (Dialect) EnableForeignKeys() string  { return "PRAGMA foreign_keys = ON" }

func (Dialect) DropTable(name string) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, name)
}
