// Package storage provides the SQLite persistence layer for the dashboard's
// liked brands.
//
// It manages the database connection, embedded schema migrations, and the
// liked_brands queries. The database uses WAL journal mode and a single
// connection, so every write is serialized.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

// Store wraps a SQL database connection and provides typed query methods
// for liked brands.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// OpenDatabase opens (or creates) the liked-brands database at path. Parent
// directories are created when missing; ":memory:" opens a private in-memory
// database.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %q: %w", dir, err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %q: %w", path, err)
	}

	slog.Info("opened sqlite database", "path", path)
	return db, nil
}

// Open opens the database at path, applies pending migrations, and returns
// a ready Store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one embedded NNN_description.sql file.
type migration struct {
	version int
	name    string
}

// Migrate applies every embedded migration newer than the ones recorded in
// schema_migrations and returns the versions it applied, in order. Each
// migration runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) ([]int, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return nil, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := schemaVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	pending, err := loadMigrations()
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, m := range pending {
		if m.version <= current {
			continue
		}

		body, err := migrationsFS.ReadFile(path.Join("migrations", m.name))
		if err != nil {
			return applied, fmt.Errorf("reading migration %q: %w", m.name, err)
		}
		if err := applyMigration(ctx, db, m.version, string(body)); err != nil {
			return applied, fmt.Errorf("applying migration %s: %w", m.name, err)
		}

		slog.Info("applied migration", "version", m.version, "file", m.name)
		applied = append(applied, m.version)
	}

	return applied, nil
}

// SchemaVersion returns the highest applied migration version, or 0 for a
// fresh database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return schemaVersion(ctx, s.db)
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return int(v.Int64), nil
}

// loadMigrations lists the embedded migration files sorted by version.
// Files without a numeric prefix are ignored.
func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var out []migration
	for _, name := range names {
		base := path.Base(name)
		if v := parseVersion(base); v > 0 {
			out = append(out, migration{version: v, name: base})
		}
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

// parseVersion extracts the numeric prefix of "001_liked_brands.sql".
func parseVersion(filename string) int {
	prefix, _, ok := strings.Cut(filename, "_")
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}

func applyMigration(ctx context.Context, db *sql.DB, version int, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("executing migration SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES (?)`, version,
	); err != nil {
		return fmt.Errorf("recording migration version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// parseTime parses the datetime formats SQLite and the driver produce. It
// returns the zero time when nothing matches.
func parseTime(s string) time.Time {
	for _, layout := range []string{
		time.DateTime,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
