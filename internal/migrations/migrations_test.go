package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestUp_CreatesTablesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "brimon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(ctx, db))
	require.NoError(t, Up(ctx, db))

	for _, name := range []string{"goose_db_version", "users", "metadata", "projects", "tasks", "orders"} {
		assert.True(t, tableExists(t, db, name), name)
	}
}

func TestUp_UsernameKeyUnique(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "brimon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Up(ctx, db))

	_, err = db.Exec(`INSERT INTO users (id, username, username_key, display_name, role) VALUES ('1', 'daniel', 'daniel', 'Daniel', 'employee')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, username, username_key, display_name, role) VALUES ('2', 'DANIEL', 'daniel', 'Daniel 2', 'employee')`)
	require.Error(t, err)

	// ключ без свёртки в SQL, так что другой ключ проходит
	_, err = db.Exec(`INSERT INTO users (id, username, username_key, display_name, role) VALUES ('3', 'DANIEL', 'DANIEL', 'Daniel 3', 'employee')`)
	require.NoError(t, err)
}
