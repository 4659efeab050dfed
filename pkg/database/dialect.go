package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Driver identifies the SQL engine behind a Store.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

func ParseDriver(name string) (Driver, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(name))) {
	case "", DriverSQLite:
		return DriverSQLite, nil
	case DriverPostgres, "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported store driver %q", name)
	}
}

// gooseDialect is the goose dialect name for d.
func (d Driver) gooseDialect() string {
	if d == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Rebind rewrites '?' placeholders into the numbered form Postgres expects.
// Queries are written once with '?' and must not contain a literal question mark.
func (d Driver) Rebind(query string) string {
	if d != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
