package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"probul-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	s, err := Open(context.Background(), utils.DatabaseConfig{Driver: "sqlite", Path: path}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func countPending(t *testing.T, q Querier) int {
	t.Helper()

	var n int
	_, err := q.Get(context.Background(), `SELECT COUNT(*) FROM pending_users`, nil, &n)
	require.NoError(t, err)
	return n
}

func insertPending(ctx context.Context, q Querier, email string) error {
	_, err := q.Run(ctx,
		`INSERT INTO pending_users (email, full_name, phone, password, created_at) VALUES (?, ?, ?, ?, ?)`,
		email, "A", "555", "hash", 1,
	)
	return err
}

func TestOpen_CreatesSchemaAndSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probul.db")
	s := openTestStore(t, path)
	defer s.Close()

	_, err := os.Stat(path)
	require.NoError(t, err, "initial snapshot must be written")

	for _, table := range []string{"users", "pending_users", "otp_codes"} {
		var name string
		found, err := s.Get(context.Background(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, []any{table}, &name)
		require.NoError(t, err)
		assert.True(t, found, "table %s missing", table)
	}
}

func TestRun_PersistsBeforeReturn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "probul.db")

	s := openTestStore(t, path)
	require.NoError(t, insertPending(ctx, s, "a@b.com"))

	// Reopen from the file without closing the first store: the row must
	// already be on disk because Run persisted synchronously.
	reopened := openTestStore(t, path)
	defer reopened.Close()
	defer s.Close()

	assert.Equal(t, 1, countPending(t, reopened))
}

func TestOpen_IsIdempotentAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "probul.db")

	s := openTestStore(t, path)
	require.NoError(t, insertPending(ctx, s, "a@b.com"))
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	require.NoError(t, insertPending(ctx, s, "c@d.com"))
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()
	assert.Equal(t, 2, countPending(t, s))
}

func TestOpen_KeepsAutoincrementCounters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "probul.db")

	s := openTestStore(t, path)
	for i := 0; i < 3; i++ {
		_, err := s.Run(ctx, `INSERT INTO otp_codes (email, code, type, expires_at) VALUES (?, ?, ?, ?)`,
			"a@b.com", "123456", "register", 1)
		require.NoError(t, err)
	}
	_, err := s.Run(ctx, `DELETE FROM otp_codes`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()

	_, err = s.Run(ctx, `INSERT INTO otp_codes (email, code, type, expires_at) VALUES (?, ?, ?, ?)`,
		"a@b.com", "654321", "register", 1)
	require.NoError(t, err)

	var id int64
	_, err = s.Get(ctx, `SELECT id FROM otp_codes`, nil, &id)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestGet_NoRowsReportsNotFound(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "probul.db"))
	defer s.Close()

	var email string
	found, err := s.Get(context.Background(), `SELECT email FROM pending_users WHERE email = ?`, []any{"x@y.com"}, &email)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAll_ScansEveryRow(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "probul.db"))
	defer s.Close()

	for _, e := range []string{"a@b.com", "c@d.com", "e@f.com"} {
		require.NoError(t, insertPending(ctx, s, e))
	}

	var emails []string
	err := s.All(ctx, `SELECT email FROM pending_users ORDER BY email`, nil, func(row Scanner) error {
		var e string
		if err := row.Scan(&e); err != nil {
			return err
		}
		emails = append(emails, e)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com", "c@d.com", "e@f.com"}, emails)
}

func TestTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "probul.db")
	s := openTestStore(t, path)
	defer s.Close()

	boom := errors.New("boom")
	err := s.Tx(ctx, func(q Querier) error {
		require.NoError(t, insertPending(ctx, q, "a@b.com"))
		require.Equal(t, 1, countPending(t, q))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countPending(t, s))
}

func TestTx_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "probul.db"))
	defer s.Close()

	assert.Panics(t, func() {
		_ = s.Tx(ctx, func(q Querier) error {
			_ = insertPending(ctx, q, "a@b.com")
			panic("kaboom")
		})
	})
	assert.Equal(t, 0, countPending(t, s))
}

func TestTx_CommitsAndPersistsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "probul.db")
	s := openTestStore(t, path)

	err := s.Tx(ctx, func(q Querier) error {
		if err := insertPending(ctx, q, "a@b.com"); err != nil {
			return err
		}
		// nested Tx joins the outer transaction
		return q.Tx(ctx, func(inner Querier) error {
			return insertPending(ctx, inner, "c@d.com")
		})
	})
	require.NoError(t, err)

	reopened := openTestStore(t, path)
	defer reopened.Close()
	defer s.Close()
	assert.Equal(t, 2, countPending(t, reopened))
}

func TestRun_ConcurrentWritersAreSerialised(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "probul.db"))
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Run(ctx, `INSERT INTO otp_codes (email, code, type, expires_at) VALUES (?, ?, ?, ?)`,
				"a@b.com", "000000", "register", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int
	_, err := s.Get(ctx, `SELECT COUNT(*) FROM otp_codes`, nil, &n)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestPersist_FailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openTestStore(t, filepath.Join(dir, "probul.db"))
	defer s.Close()

	// point the snapshot at a path whose parent is a regular file
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	s.snapshot.path = filepath.Join(blocker, "probul.db")

	require.NoError(t, insertPending(ctx, s, "a@b.com"))
	assert.Equal(t, 1, countPending(t, s))
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM otp_codes WHERE email = ? AND type = ? AND used = 0`

	assert.Equal(t, q, DriverSQLite.Rebind(q))
	assert.Equal(t,
		`SELECT * FROM otp_codes WHERE email = $1 AND type = $2 AND used = 0`,
		DriverPostgres.Rebind(q))
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d)

	d, err = ParseDriver("Postgres")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)

	_, err = ParseDriver("mysql")
	assert.Error(t, err)
}
