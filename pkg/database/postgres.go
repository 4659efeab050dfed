package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"probul-backend/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openPostgres connects to a Postgres server through the pgx database/sql driver.
func openPostgres(ctx context.Context, config utils.DatabaseConfig) (*sql.DB, error) {
	// Build connection string
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s connect_timeout=5",
		config.User, config.Password, config.Name, config.Host, config.Port)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Pool configuration
	maxConns := int(config.MaxConns)
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	return db, nil
}
