package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"courseware/internal/config"

	"github.com/avast/retry-go/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

func ConnectPostgres(cfg *config.Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zap.S().Fatalf("sql.Open failed: %v", err)
	}

	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		retry.Attempts(10),
		retry.Delay(3*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(n uint, err error) {
			zap.S().Warnf("Attempt %d: PostgreSQL not reachable: %v", n+1, err)
		}),
	)
	if err != nil {
		zap.S().Fatalf("PostgreSQL unreachable after 10 attempts: %v", err)
	}

	zap.S().Info("✅ PostgreSQL connected")
	return db
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
