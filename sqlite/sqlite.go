// Package sqlite provides a schema-flexible document store on SQLite.
//
// Every collection is a table holding a 16-byte binary primary key and a
// JSON document. Natural keys are enforced by unique expression indexes
// over document fields, so uniqueness holds across processes sharing the
// same database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fwojciec/harvest"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	// Logger receives lookup failures that are reported to callers as
	// "not found". Defaults to discarding output.
	Logger *slog.Logger
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{
		path:   path,
		Logger: slog.New(slog.DiscardHandler),
	}
}

// Open opens the database connection.
// Collections are created lazily on first use.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait on lock contention from other processes instead of failing
	// immediately with "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// CollectionSpec describes a collection and the indexes provisioned with it.
type CollectionSpec struct {
	Name string

	// Unique lists natural keys. Each key is a set of document fields whose
	// combined values must be unique across the collection.
	Unique [][]string

	// Indexes lists non-unique lookup indexes.
	Indexes [][]string
}

var collectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Collections returns the names of all provisioned collections.
func (db *DB) Collections(ctx context.Context) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// EnsureCollection creates the collection and its indexes if absent.
// Losing a creation race to another connection or process is not an error;
// any other provisioning failure is returned as ECONFIG.
func (db *DB) EnsureCollection(ctx context.Context, spec CollectionSpec) error {
	if !collectionNameRe.MatchString(spec.Name) {
		return harvest.Errorf(harvest.ECONFIG, "invalid collection name %q", spec.Name)
	}

	exists, err := db.hasCollection(ctx, spec.Name)
	if err != nil {
		return harvest.WrapError(harvest.ECONFIG, err, "checking collection %q", spec.Name)
	}
	if exists {
		return nil
	}

	if err := db.createCollection(ctx, spec); err != nil {
		if exists, _ := db.hasCollection(ctx, spec.Name); exists {
			return nil
		}
		return harvest.WrapError(harvest.ECONFIG, err, "creating collection %q", spec.Name)
	}
	return nil
}

func (db *DB) hasCollection(ctx context.Context, name string) (bool, error) {
	var n int
	err := db.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	return n > 0, err
}

// createCollection creates the table and indexes in one transaction so a
// half-provisioned collection is never visible.
func (db *DB) createCollection(ctx context.Context, spec CollectionSpec) error {
	stmts := []string{fmt.Sprintf(`
		CREATE TABLE %q (
			id BLOB PRIMARY KEY CHECK (typeof(id) = 'blob' AND length(id) = 16),
			doc TEXT NOT NULL CHECK (json_valid(doc))
		)`, spec.Name)}

	for _, fields := range spec.Unique {
		stmt, err := indexStatement(spec.Name, fields, true)
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}
	for _, fields := range spec.Indexes {
		stmt, err := indexStatement(spec.Name, fields, false)
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func indexStatement(table string, fields []string, unique bool) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("index on %q has no fields", table)
	}
	exprs := make([]string, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		expr, err := fieldExpr(f)
		if err != nil {
			return "", err
		}
		exprs[i] = expr
		names[i] = strings.NewReplacer(".", "_", "$", "").Replace(f)
	}

	kind, suffix := "INDEX", "idx"
	if unique {
		kind, suffix = "UNIQUE INDEX", "uq"
	}
	name := fmt.Sprintf("%s_%s_%s", table, suffix, strings.Join(names, "_"))
	return fmt.Sprintf("CREATE %s %q ON %q (%s)", kind, name, table, strings.Join(exprs, ", ")), nil
}
