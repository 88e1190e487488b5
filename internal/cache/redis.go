package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/socialchef/sous/internal/utils"
)

// Connect opens a traced Redis client and waits until the server answers
// a ping. A bare host:port is accepted like the asynq connection string.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Warn("Failed to instrument Redis tracing", "error", err)
	}

	_, err = utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		res, err := client.Ping(ctx).Result()
		if err != nil {
			slog.Warn("Redis not ready", "error", err)
		}
		return res, err
	}, utils.StartupRetryConfig())
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
