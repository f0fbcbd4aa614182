package dbx

import (
	"fmt"
	"regexp"
)

// Dialect selects the SQL driver and the placeholder style used by the
// repositories. Queries are always written with PostgreSQL $N placeholders.
type Dialect string

const (
	// DialectPostgres runs on PostgreSQL through pgx's database/sql driver.
	DialectPostgres Dialect = "pgx"
	// DialectSQLite runs on the embedded pure-Go SQLite driver.
	DialectSQLite Dialect = "sqlite"
)

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

// ParseDialect validates a configured driver name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectPostgres, DialectSQLite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// DriverName is the name the driver registers with database/sql.
func (d Dialect) DriverName() string {
	return string(d)
}

// GooseDialect is the dialect name understood by goose.
func (d Dialect) GooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// MigrationsDir is the embedded directory holding this dialect's migrations.
func (d Dialect) MigrationsDir() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Rebind rewrites $N placeholders into the dialect's native form.
// Every $N must appear once and in ascending order.
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	return dollarPlaceholder.ReplaceAllString(query, "?")
}
