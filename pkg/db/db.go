/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package db is the Postgres persistence layer: devices, alarms, the
// time-series metric tables and hardware inventory, over a pgx pool.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/netmon/pkg/config"
	"github.com/carverauto/netmon/pkg/logger"
)

// DB wraps the shared connection pool. Safe for concurrent use.
type DB struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// New dials the configured Postgres instance and verifies connectivity.
func New(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("db: parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("db: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("pool_size", cfg.PoolSize).
		Msg("database connected")

	return &DB{pool: pool, log: log}, nil
}

// NewWithPool wraps an already-dialed pool.
func NewWithPool(pool *pgxpool.Pool, log logger.Logger) *DB {
	return &DB{pool: pool, log: log}
}

// Ping verifies the pool is still healthy.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the pool.
func (d *DB) Close() {
	d.pool.Close()
}
