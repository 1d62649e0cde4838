package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/travilink/trip-scheduler/internal/config"
	"github.com/travilink/trip-scheduler/internal/repo"
	"github.com/travilink/trip-scheduler/migrations"
)

// stores bundles the repositories the services run on, plus whatever
// connections back them.
type stores struct {
	trips     repo.TripRepo
	sequences repo.SequenceRepo
	roster    repo.RosterRepo

	closers []func()
}

// Close releases connections in reverse order of opening.
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		st.trips = repo.NewMemoryTripRepo()
		st.sequences = repo.NewMemorySequenceRepo()
		st.roster = repo.NewMemoryRosterRepo(nil, nil)
		log.Warn("using in-memory storage; trips are lost on restart")

	default:
		// New does not open connections; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}
		st.closers = append(st.closers, pool.Close)

		if err := pool.Ping(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.Info("database connection established")

		if cfg.MigrateOnStart {
			if err := migrate(ctx, pool, log); err != nil {
				st.Close()
				return nil, err
			}
		}

		st.trips = repo.NewTripRepo(pool)
		st.sequences = repo.NewSequenceRepo(pool)
		st.roster = repo.NewRosterRepo(pool)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		st.closers = append(st.closers, func() { _ = client.Close() })

		if err := client.Ping(ctx).Err(); err != nil {
			st.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		st.sequences = repo.NewRedisSequenceRepo(client, "")
		log.Info("trip id counters backed by redis", "addr", opts.Addr)
	}

	return st, nil
}

// migrate applies pending goose migrations through a database/sql view of
// the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
	}
	return nil
}
