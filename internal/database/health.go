package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const healthCheckTimeout = 2 * time.Second

// CheckHealth pings the pool with a short timeout, for readiness probes.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	return pool.Ping(ctx)
}
