package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/db"
	"github.com/3GHCRE/atlas-sub000/internal/db/migrations"
	"github.com/3GHCRE/atlas-sub000/internal/dbpool"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, 4)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// insertID runs an INSERT ... RETURNING id and registers a delete of that row.
func insertID(t *testing.T, env *testEnv, table, query string, args ...any) int64 {
	t.Helper()

	ctx := context.Background()

	var id int64
	if err := env.pool.QueryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		t.Fatalf("inserting into %s: %v", table, err)
	}

	t.Cleanup(func() {
		env.pool.Exec(context.Background(), "DELETE FROM "+table+" WHERE id = $1", id) //nolint:errcheck // best-effort cleanup
	})

	return id
}
