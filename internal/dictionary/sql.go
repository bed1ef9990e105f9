package dictionary

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Dialect selects placeholder style.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource reads and seeds a dictionary table:
//
//	dictionary_entries(position INTEGER PRIMARY KEY, name TEXT UNIQUE, volume REAL)
type SQLSource struct {
	db      DB
	dialect Dialect
	table   string
}

// NewSQLSource creates a SQL dictionary source. The table name must be a plain identifier.
func NewSQLSource(db DB, dialect Dialect, table string) (*SQLSource, error) {
	if table == "" {
		table = "dictionary_entries"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid dictionary table name %q", table)
	}
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return &SQLSource{db: db, dialect: dialect, table: table}, nil
}

// OpenDB opens a database handle for the dialect. sqlite takes a file path, postgres a DSN.
func OpenDB(dialect Dialect, dsn string) (*sql.DB, error) {
	driver := "sqlite3"
	if dialect == DialectPostgres {
		driver = "postgres"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Load reads all rows ordered by position.
func (s *SQLSource) Load(ctx context.Context) (*Dictionary, error) {
	query := fmt.Sprintf(`SELECT name, volume FROM %s ORDER BY position`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dictionary: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Volume); err != nil {
			return nil, fmt.Errorf("scan dictionary row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary rows: %w", err)
	}

	return New(entries)
}

// EnsureSchema creates the dictionary table if it does not exist.
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			volume DOUBLE PRECISION NOT NULL CHECK (volume > 0)
		)
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create dictionary table: %w", err)
	}
	return nil
}

// Replace deletes the table contents and writes every entry of d in order.
// progress, when non-nil, is called after each row.
func (s *SQLSource) Replace(ctx context.Context, d *Dictionary, progress func(done int)) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clear dictionary table: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (position, name, volume) VALUES (%s, %s, %s)`,
		s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3))
	for i, e := range d.Entries() {
		if _, err := s.db.ExecContext(ctx, insert, i+1, e.Name, e.Volume); err != nil {
			return fmt.Errorf("insert %q: %w", e.Name, err)
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return nil
}

func (s *SQLSource) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
