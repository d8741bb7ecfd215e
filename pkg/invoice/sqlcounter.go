package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// ErrUnknownBackend is returned for an unsupported numbering backend.
var ErrUnknownBackend = errors.New("unknown numbering backend")

// Dialect selects the SQL driver and placeholder style of a SQLCounter.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const createCountersTable = `CREATE TABLE IF NOT EXISTS invoice_counters (
	prefix TEXT PRIMARY KEY,
	value  BIGINT NOT NULL
)`

// SQLCounter is a durable NumberingSource backed by the invoice_counters
// table. Each Next call consumes a number.
type SQLCounter struct {
	db      *sql.DB
	dialect Dialect
	prefix  string
}

// OpenSQLCounter opens dsn with the driver matching dialect.
func OpenSQLCounter(dialect Dialect, dsn, prefix string) (*SQLCounter, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s counter: %w", dialect, err)
	}
	return NewSQLCounter(db, dialect, prefix), nil
}

// NewSQLCounter wraps an already opened database.
func NewSQLCounter(db *sql.DB, dialect Dialect, prefix string) *SQLCounter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SQLCounter{db: db, dialect: dialect, prefix: prefix}
}

// Init creates the counter table if needed.
func (c *SQLCounter) Init(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, createCountersTable); err != nil {
		return fmt.Errorf("creating invoice_counters: %w", err)
	}
	return nil
}

// Next increments the prefix's counter and returns the formatted number.
func (c *SQLCounter) Next(ctx context.Context) (string, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, c.upsertQuery(), c.prefix).Scan(&n); err != nil {
		return "", fmt.Errorf("incrementing invoice counter: %w", err)
	}
	return FormatNumber(c.prefix, n), nil
}

// Close releases the database.
func (c *SQLCounter) Close() error {
	return c.db.Close()
}

func (c *SQLCounter) upsertQuery() string {
	placeholder := "?"
	if c.dialect == DialectPostgres {
		placeholder = "$1"
	}
	return strings.Join([]string{
		"INSERT INTO invoice_counters (prefix, value) VALUES (" + placeholder + ", 1)",
		"ON CONFLICT (prefix) DO UPDATE SET value = invoice_counters.value + 1",
		"RETURNING value",
	}, " ")
}
