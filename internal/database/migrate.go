package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func newProvider(db *sql.DB, driver Driver) (*goose.Provider, error) {
	fsys, err := driver.migrationsFS()
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	p, err := goose.NewProvider(driver.gooseDialect(), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Migrate applies all pending migrations and returns the versions it applied.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) ([]int64, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// Rollback reverts the most recently applied migration. It returns 0 when
// nothing was applied.
func Rollback(ctx context.Context, db *sql.DB, driver Driver) (int64, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}
	current, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	if current == 0 {
		return 0, nil
	}
	result, err := p.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose down: %w", err)
	}
	return result.Source.Version, nil
}

// MigrationState is one row of the migration status report.
type MigrationState struct {
	Version int64
	Path    string
	Applied bool
}

func MigrationStatus(ctx context.Context, db *sql.DB, driver Driver) ([]MigrationState, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]MigrationState, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationState{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
