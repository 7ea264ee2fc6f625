// Package store provides PostgreSQL data access for the ownership network.
//
// Stores embed shared helpers (Pool, logger) via the Base struct. Every query
// runs under withTimeout and every driver error passes through classify, so
// callers only ever see the sentinels from the models package for the
// conditions they act on.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/dbpool"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// classify maps driver errors onto the models sentinels. A missing row
// becomes ErrNodeNotFound; a lost or refused connection becomes
// ErrStoreUnavailable unless the caller's context ended first. Everything
// else is returned unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return models.ErrNodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case unavailable(err):
		return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	default:
		return err
	}
}

// unavailable reports whether err means the database cannot serve queries at
// all, as opposed to one query failing.
func unavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception; 57P0x is shutdown or recovery.
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P0") ||
			pgErr.Code == "53300" // too_many_connections
	}

	return false
}
