package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/config"
	"github.com/3GHCRE/atlas-sub000/internal/db"
	"github.com/3GHCRE/atlas-sub000/internal/db/migrations"
	"github.com/3GHCRE/atlas-sub000/internal/dbpool"
	"github.com/3GHCRE/atlas-sub000/internal/metrics"
	"github.com/3GHCRE/atlas-sub000/internal/service"
	"github.com/3GHCRE/atlas-sub000/internal/store"
	"github.com/3GHCRE/atlas-sub000/internal/traverse"
)

// app holds the wired components shared by the serve and mcp commands.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	pool    *dbpool.Pool
	store   *store.OwnershipStore
	network *service.NetworkService
}

// loadConfig reads the environment and builds the logger.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, cfg.NewLogger(), nil
}

// newApp connects to the database, applies migrations when enabled and wires
// store, engine and service.
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), int32(cfg.DBMaxConns)) //nolint:gosec // bounded by config validation.
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	if err := prometheus.Register(metrics.NewPoolCollector(pool.Stats)); err != nil {
		log.WithError(err).Warn("pool metrics not registered")
	}

	st := store.NewOwnershipStore(pool, log, cfg.TraverseNeighborLimit)

	engine := traverse.NewEngine(traverse.NewResolver(st), log, traverse.Options{
		Concurrency:   cfg.TraverseConcurrency,
		NeighborLimit: cfg.TraverseNeighborLimit,
		MaxNodes:      cfg.TraverseMaxNodes,
	})

	log.WithFields(logrus.Fields{
		"version":        config.Version,
		"schema_version": db.SchemaVersion(),
		"concurrency":    cfg.TraverseConcurrency,
		"neighbor_limit": cfg.TraverseNeighborLimit,
		"max_nodes":      cfg.TraverseMaxNodes,
		"timeout":        cfg.TraverseTimeout.String(),
	}).Info("atlas initialised")

	return &app{
		cfg:     cfg,
		log:     log,
		pool:    pool,
		store:   st,
		network: service.NewNetworkService(engine, st, log, cfg.TraverseTimeout),
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}
