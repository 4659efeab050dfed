package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"probul-backend/internal/data/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// goose keeps its FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// migrate materialises the schema. Already applied versions are skipped, so
// running it against a loaded snapshot is a no-op.
func migrate(ctx context.Context, db *sql.DB, driver Driver, log *zap.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(log.With(zap.String("component", "goose"))))
	if err := goose.SetDialect(driver.gooseDialect()); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := gooseUp(ctx, db, string(driver)); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
