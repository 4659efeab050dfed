package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openSQLite opens a private in-memory database. A single connection is kept
// alive for the life of the store since closing it would drop the data.
func openSQLite(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:probul-%s?mode=memory&cache=shared", uuid.NewString())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// snapshotter mirrors the in-memory dataset to a single file on disk.
type snapshotter struct {
	db   *sql.DB
	path string
}

func newSnapshotter(db *sql.DB, path string) *snapshotter {
	return &snapshotter{db: db, path: path}
}

// load copies every table and index of an existing snapshot into memory.
// It reports false when there is no snapshot yet.
func (s *snapshotter) load(ctx context.Context) (bool, error) {
	if s.path == "" {
		return false, nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat snapshot %s: %w", s.path, err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE "+quoteLiteral(s.path)+" AS disk"); err != nil {
		return false, fmt.Errorf("attach snapshot %s: %w", s.path, err)
	}
	defer conn.ExecContext(context.Background(), "DETACH DATABASE disk")

	type object struct {
		kind, name, ddl string
	}
	var objects []object

	rows, err := conn.QueryContext(ctx, `
		SELECT type, name, sql
		FROM disk.sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END
	`)
	if err != nil {
		return false, fmt.Errorf("read snapshot schema: %w", err)
	}
	for rows.Next() {
		var o object
		if err := rows.Scan(&o.kind, &o.name, &o.ddl); err != nil {
			rows.Close()
			return false, fmt.Errorf("scan snapshot schema: %w", err)
		}
		objects = append(objects, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate snapshot schema: %w", err)
	}

	for _, o := range objects {
		if _, err := conn.ExecContext(ctx, o.ddl); err != nil {
			return false, fmt.Errorf("recreate %s %s: %w", o.kind, o.name, err)
		}
		if o.kind != "table" {
			continue
		}
		copyRows := fmt.Sprintf("INSERT INTO main.%[1]s SELECT * FROM disk.%[1]s", quoteIdent(o.name))
		if _, err := conn.ExecContext(ctx, copyRows); err != nil {
			return false, fmt.Errorf("copy table %s: %w", o.name, err)
		}
	}

	// keep AUTOINCREMENT counters so ids of deleted rows are never handed out again
	var sequences int
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM disk.sqlite_master WHERE name = 'sqlite_sequence'`,
	).Scan(&sequences); err != nil {
		return false, fmt.Errorf("inspect snapshot sequences: %w", err)
	}
	if sequences > 0 {
		if _, err := conn.ExecContext(ctx, `DELETE FROM main.sqlite_sequence`); err != nil {
			return false, fmt.Errorf("reset sequences: %w", err)
		}
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO main.sqlite_sequence (name, seq) SELECT name, seq FROM disk.sqlite_sequence`,
		); err != nil {
			return false, fmt.Errorf("copy sequences: %w", err)
		}
	}

	return true, nil
}

// save writes the dataset to a temp file next to the target and renames it
// into place, so readers of the file never observe a half-written image.
func (s *snapshotter) save(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	tmp := s.path + ".tmp-" + uuid.NewString()
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO "+quoteLiteral(tmp)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export dataset: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
