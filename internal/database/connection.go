// Package database provides PostgreSQL access for the goUserRegistry service:
// the connection pool, the users repository and the migration runner.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/chybatronik/goUserRegistry/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewConnectionPool creates a new PostgreSQL connection pool.
func NewConnectionPool(appConfig *config.Config) (*pgxpool.Pool, error) {
	ctx := context.Background()

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		appConfig.Database.Host,
		appConfig.Database.Port,
		appConfig.Database.User,
		appConfig.Database.Password,
		appConfig.Database.Database,
		appConfig.Database.SSLMode)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(appConfig.Database.MaxConns)
	poolConfig.MinConns = int32(appConfig.Database.MinConns)

	// Proactive connection validation and recycling.
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return pool, nil
}

// ValidateConnection checks if database connection is working.
func ValidateConnection(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return pool.Ping(ctx)
}
