// Package db owns the ownership-network schema.
//
// Migration files live in internal/db/migrations/ and are embedded via
// //go:embed. RunMigrations applies pending migrations with goose
// (github.com/pressly/goose/v3), which tracks state in goose_db_version.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/dbpool"
)

// RunMigrations applies all pending migrations from the provided filesystem.
// The fsys should contain goose-annotated SQL files (e.g. "00001_schema.sql").
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	provider, closeDB, err := newProvider(pool, fsys)
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}

// MigrationStatus reports the applied state of every known migration.
func MigrationStatus(ctx context.Context, pool *dbpool.Pool, fsys fs.FS) ([]*goose.MigrationStatus, error) {
	provider, closeDB, err := newProvider(pool, fsys)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	status, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}

	return status, nil
}

// newProvider opens a database/sql handle through the pgx stdlib driver,
// which goose requires, and builds a provider over fsys.
func newProvider(pool *dbpool.Pool, fsys fs.FS) (*goose.Provider, func(), error) {
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("opening sql.DB for migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		sqlDB.Close() //nolint:errcheck // best-effort close on setup failure.

		return nil, nil, fmt.Errorf("creating goose provider: %w", err)
	}

	return provider, func() { sqlDB.Close() }, nil //nolint:errcheck // read-only handle.
}
