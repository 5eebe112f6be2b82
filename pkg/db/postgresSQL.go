package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"itams/pkg/config"
)

// Connect opens the pool, pings it and applies pending migrations unless
// APPLY_SCHEMA_ON_START=false.
func Connect(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	log.Info().Msg("connected to PostgreSQL")

	if cfg.MigrateOnStart {
		migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
		defer cancelMigrate()
		if err := Migrate(migrateCtx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("schema migrations applied")
	}

	return pool, nil
}
