package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialchef/sous/internal/utils"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	return pgxpool.NewWithConfig(ctx, config)
}

// Connect opens a pool and waits until Postgres answers a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	_, err = utils.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("Postgres not ready", "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, utils.StartupRetryConfig())
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
