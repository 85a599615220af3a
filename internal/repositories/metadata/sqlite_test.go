package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func TestLookup_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Lookup(context.Background(), common.SessionMetadataKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestPut_ReplacesToken(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, common.SessionMetadataKey, "eyJ.first"))
	require.NoError(t, r.Put(ctx, common.SessionMetadataKey, "eyJ.second"))

	v, ok, err := r.Lookup(ctx, common.SessionMetadataKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyJ.second", v)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRemove(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Put(ctx, common.SessionMetadataKey, "eyJ.token"))

	removed, err := r.Remove(ctx, common.SessionMetadataKey)
	require.NoError(t, err)
	assert.True(t, removed)

	// второй раз удалять нечего
	removed, err = r.Remove(ctx, common.SessionMetadataKey)
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok, err := r.Lookup(ctx, common.SessionMetadataKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosedDB_WrapsErrors(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, _, err := r.Lookup(context.Background(), "session")
	require.ErrorContains(t, err, "failed to read session")

	err = r.Put(context.Background(), "session", "x")
	require.ErrorContains(t, err, "failed to store session")

	_, err = r.Remove(context.Background(), "session")
	require.ErrorContains(t, err, "failed to remove session")
}
