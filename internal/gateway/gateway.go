// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

/*
Package gateway implements the backend-as-a-service contract the controllers
depend on, backed by PostgreSQL and Redis.

Architecture:

  - Service: Single entry point owning the connection pool, the Redis client
    and the token signer. It satisfies both catalog.Gateway and
    identity.Gateway.
  - Records: Book rows live in catalog.book; accounts and profiles live in
    the users schema. Profile rows are created by a database trigger on
    account inserts, which is why they appear asynchronously.
  - Sessions: Access tokens are signed JWTs whose jti doubles as the Redis
    session key. Deleting the key revokes the token before its expiry.

The gateway enforces storage-level constraints only (uniqueness, foreign
keys). Input validation such as rating bounds belongs to the controllers.
*/
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookhaven/bookhaven/internal/platform/postgres"
	"github.com/bookhaven/bookhaven/internal/platform/redis"
	"github.com/bookhaven/bookhaven/internal/platform/sec"
)

// Service is the concrete gateway implementation.
type Service struct {
	pool   *pgxpool.Pool
	rdb    *goredis.Client
	tokens *sec.TokenService
	logger *slog.Logger
}

// New constructs a [Service] over an established pool and Redis client.
func New(pool *pgxpool.Pool, rdb *goredis.Client, tokens *sec.TokenService, logger *slog.Logger) *Service {
	return &Service{
		pool:   pool,
		rdb:    rdb,
		tokens: tokens,
		logger: logger,
	}
}

/*
Ping verifies that both storage backends are reachable.

Description: Used by the catalog controller's connectivity gate and by the
readiness probe. Either backend failing makes the whole gateway unreachable.

Returns:
  - error: The first backend failure encountered
*/
func (service *Service) Ping(ctx context.Context) error {
	if err := postgres.Ping(ctx, service.pool); err != nil {
		return fmt.Errorf("gateway_postgres_unreachable: %w", err)
	}
	if err := redis.Ping(ctx, service.rdb); err != nil {
		return fmt.Errorf("gateway_redis_unreachable: %w", err)
	}
	return nil
}
