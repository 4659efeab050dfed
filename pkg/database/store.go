package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Querier is the storage contract repositories are written against.
// Both *Store and the handle passed into Tx implement it.
type Querier interface {
	// Get runs query and scans the first row into dest. It reports false when nothing matched.
	Get(ctx context.Context, query string, args []any, dest ...any) (bool, error)
	// All runs query and calls scan once per returned row.
	All(ctx context.Context, query string, args []any, scan func(Scanner) error) error
	// Run executes a mutating statement. On a Store the whole dataset is persisted before it returns.
	Run(ctx context.Context, query string, args ...any) (sql.Result, error)
	// Tx runs fn atomically. Nested calls join the outer transaction.
	Tx(ctx context.Context, fn func(q Querier) error) error
}

// Store owns the single dataset image. Writes are serialised behind one lock
// and every committed mutation is followed by a full snapshot persist.
type Store struct {
	db       *sql.DB
	driver   Driver
	snapshot *snapshotter
	mu       sync.RWMutex
	log      *zap.Logger
}

// Open creates the store for config, loads any existing snapshot and applies
// the schema. Nothing else may touch the store before Open returns.
func Open(ctx context.Context, config utils.DatabaseConfig, log *zap.Logger) (*Store, error) {
	driver, err := ParseDriver(config.Driver)
	if err != nil {
		return nil, err
	}

	log = log.With(zap.String("component", "store"), zap.String("driver", string(driver)))

	var (
		db   *sql.DB
		snap *snapshotter
	)
	switch driver {
	case DriverPostgres:
		db, err = openPostgres(ctx, config)
	default:
		db, err = openSQLite(ctx)
		if err == nil {
			snap = newSnapshotter(db, config.Path)
		}
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: driver, snapshot: snap, log: log}

	if snap != nil {
		loaded, err := snap.load(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		if loaded {
			log.Info("Existing dataset loaded", zap.String("path", config.Path))
		} else {
			log.Info("New dataset created", zap.String("path", config.Path))
		}
	}

	if err := migrate(ctx, db, driver, log); err != nil {
		db.Close()
		return nil, err
	}

	s.persist()
	return s, nil
}

func (s *Store) Driver() Driver {
	return s.driver
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close flushes a final snapshot and releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist()
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return get(ctx, s.db, s.driver, query, args, dest)
}

func (s *Store) All(ctx context.Context, query string, args []any, scan func(Scanner) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return all(ctx, s.db, s.driver, query, args, scan)
}

func (s *Store) Run(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.driver.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	s.persist()
	return res, nil
}

// Tx begins a transaction, runs fn and commits on success or rolls back on
// error or panic. The dataset is persisted once, after a successful commit.
func (s *Store) Tx(ctx context.Context, fn func(q Querier) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
			return
		}
		if err = sqlTx.Commit(); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
			return
		}
		s.persist()
	}()

	err = fn(&tx{tx: sqlTx, driver: s.driver})
	return err
}

// persist writes the whole dataset out. Failures are logged, never returned:
// the in-memory state already reflects the mutation. Callers hold s.mu.
func (s *Store) persist() {
	if s.snapshot == nil {
		return
	}
	if err := s.snapshot.save(context.Background()); err != nil {
		s.log.Error("Failed to persist dataset", zap.Error(err))
	}
}

// tx is the Querier handed to Store.Tx callbacks.
type tx struct {
	tx     *sql.Tx
	driver Driver
}

func (t *tx) Get(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	return get(ctx, t.tx, t.driver, query, args, dest)
}

func (t *tx) All(ctx context.Context, query string, args []any, scan func(Scanner) error) error {
	return all(ctx, t.tx, t.driver, query, args, scan)
}

func (t *tx) Run(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.driver.Rebind(query), args...)
}

func (t *tx) Tx(ctx context.Context, fn func(q Querier) error) error {
	return fn(t)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func get(ctx context.Context, q queryer, driver Driver, query string, args []any, dest []any) (bool, error) {
	err := q.QueryRowContext(ctx, driver.Rebind(query), args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func all(ctx context.Context, q queryer, driver Driver, query string, args []any, scan func(Scanner) error) error {
	rows, err := q.QueryContext(ctx, driver.Rebind(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
