// Package schema reads table definitions from a live database.
//
// An [Inspector] lists tables with their columns, primary keys and foreign
// keys. Three dialects are supported, each through its database/sql driver:
//
//	sqlite    modernc.org/sqlite      (pure Go, file paths or "file:...?mode=memory")
//	postgres  github.com/lib/pq       (current_schema() of the connection)
//	mysql     github.com/go-sql-driver/mysql (DATABASE() of the connection)
//
// The result feeds package tables, which turns it into a diagram.
package schema

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// Dialect names.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// Table is a database table.
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// Column is a table column.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
}

// ForeignKey links a column to a column of another (or the same) table.
type ForeignKey struct {
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}

// Column returns the column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeys returns the names of the primary key columns in column order.
func (t Table) PrimaryKeys() []string {
	var out []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c.Name)
		}
	}
	return out
}

// Inspector reads table definitions.
type Inspector interface {
	// Tables returns the tables in name order. A non-empty filter restricts
	// the result to those tables; unknown names are a NOT_FOUND error.
	Tables(ctx context.Context, filter ...string) ([]Table, error)
	// Close closes the underlying database handle.
	Close() error
}

// NormalizeDialect maps driver aliases ("sqlite3", "pg", "postgresql",
// "mariadb") to a dialect name.
func NormalizeDialect(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported database %q (want sqlite, postgres or mysql)", name)
	}
}

// Open connects to dsn with the driver for dialect and checks the connection.
func Open(ctx context.Context, dialect, dsn string) (Inspector, error) {
	name, err := NormalizeDialect(dialect)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty data source name")
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s database", name)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to %s database", name)
	}
	return NewInspector(db, name)
}

// NewInspector wraps an open database handle. The inspector owns db and
// closes it in Close.
func NewInspector(db *sql.DB, dialect string) (Inspector, error) {
	name, err := NormalizeDialect(dialect)
	if err != nil {
		return nil, err
	}
	return &inspector{db: db, q: dialects[name]}, nil
}
