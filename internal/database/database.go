package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Driver names a supported database engine.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

// ParseDriver accepts the engine names used in configuration.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown database driver %q", s)
}

// Placeholder returns the bind parameter style the engine expects.
func (d Driver) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

func (d Driver) sqlDriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Driver) gooseDialect() goose.Dialect {
	if d == Postgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

func (d Driver) migrationsFS() (fs.FS, error) {
	return fs.Sub(migrations, "migrations/"+string(d))
}

type config struct {
	migrate     bool
	busyTimeout int
}

// Option customises Open.
type Option func(*config)

// WithoutMigrations skips running migrations after the connection is established.
func WithoutMigrations() Option { return func(c *config) { c.migrate = false } }

// WithBusyTimeout sets the SQLite busy_timeout in milliseconds. Ignored for PostgreSQL.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// Open connects to the database identified by dsn, verifies the connection and
// brings the schema up to date.
func Open(ctx context.Context, driver Driver, dsn string, opts ...Option) (*sql.DB, error) {
	cfg := config{migrate: true, busyTimeout: 5000}
	for _, o := range opts {
		o(&cfg)
	}

	db, err := sql.Open(driver.sqlDriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if driver == SQLite {
		if err := configureSQLite(ctx, db, dsn, cfg); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if cfg.migrate {
		if _, err := Migrate(ctx, db, driver); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return db, nil
}

func configureSQLite(ctx context.Context, db *sql.DB, dsn string, cfg config) error {
	// Pragmas are per connection, and every pooled connection to :memory:
	// would see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("exec %q: %w", p, err)
		}
	}
	return nil
}

// Truncate removes every row from the given tables.
func Truncate(ctx context.Context, db *sql.DB, driver Driver, tables ...string) error {
	for _, table := range tables {
		stmt := "DELETE FROM " + table
		if driver == Postgres {
			stmt = "TRUNCATE " + table
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
