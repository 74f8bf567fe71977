// Package postgres persists room graph documents in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roomgraph/internal/config"
)

// Pool wraps a pgx connection pool with health checking.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg and verifies it answers.
//
// Precondition: cfg must pass config validation.
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Pool{pool: pool}, nil
}

// Health pings the database, failing after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Monitor runs Health every interval until ctx is done, logging failures.
// It blocks; run it as a lifecycle service.
func (p *Pool) Monitor(ctx context.Context, interval, timeout time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Health(ctx, timeout); err != nil {
				logger.Warn("database health check failed", zap.Error(err))
			}
		}
	}
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
