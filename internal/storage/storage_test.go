package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInitDatabase_FileIsReopenable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "brimon.db")

	s, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	seeded, err := SeedInitialData(ctx, s.DB, s.Repos, now)
	require.NoError(t, err)
	require.True(t, seeded)
	require.NoError(t, s.Close())

	s, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	list, err := s.Repos.Users(s.DB).List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(seedUsers))
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := migrateUp
	t.Cleanup(func() { migrateUp = orig })

	boom := errors.New("boom")
	migrateUp = func(ctx context.Context, db *sql.DB) error { return boom }

	_, err := InitDatabase(context.Background(), ":memory:")
	require.ErrorIs(t, err, boom)
}

func TestSeedInitialData(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seeded, err := SeedInitialData(ctx, s.DB, s.Repos, now)
	require.NoError(t, err)
	assert.True(t, seeded)

	list, err := s.Repos.Users(s.DB).List(ctx)
	require.NoError(t, err)
	roles := map[string]models.Role{}
	for _, u := range list {
		roles[u.Username] = u.Role
		assert.Equal(t, "he", u.Lang)
		assert.False(t, u.HasCredentials(), "credentials are derived by the auth service")
	}
	assert.Equal(t, map[string]models.Role{
		"avri":   models.RoleAdmin,
		"daniel": models.RoleEmployee,
		"sasha":  models.RoleEmployee,
		"mathy":  models.RoleEmployee,
		"morine": models.RoleOrdersManager,
		"noumi":  models.RoleOrdersManager,
		"yair":   models.RoleMiniAdmin,
		"itamar": models.RoleMiniAdmin,
	}, roles)

	taskList, err := s.Repos.Tasks(s.DB).List(ctx)
	require.NoError(t, err)
	require.Len(t, taskList, 1)
	assert.Equal(t, []string{"daniel"}, taskList[0].Assignees)

	projectList, err := s.Repos.Projects(s.DB).List(ctx)
	require.NoError(t, err)
	require.Len(t, projectList, 1)
	assert.Equal(t, projectList[0].ID, taskList[0].ProjectID)

	// второй запуск ничего не меняет
	seeded, err = SeedInitialData(ctx, s.DB, s.Repos, now)
	require.NoError(t, err)
	assert.False(t, seeded)
	list, err = s.Repos.Users(s.DB).List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(seedUsers))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newStore(t)
	_, err := SeedInitialData(ctx, src.DB, src.Repos, now)
	require.NoError(t, err)
	require.NoError(t, src.Repos.Orders(src.DB).Add(ctx, &models.Order{
		ID: "o1", Title: "Glue", Date: now, Status: models.OrderPending, RequestedBy: "daniel",
	}))

	doc, err := ExportDocument(ctx, src.DB, src.Repos, now)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentVersion, doc.Meta.Version)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	back, err := ReadDocument(&buf)
	require.NoError(t, err)

	dst := newStore(t)
	require.NoError(t, dst.Repos.Metadata(dst.DB).Put(ctx, common.SessionMetadataKey, "keep"))
	require.NoError(t, ImportDocument(ctx, dst.DB, dst.Repos, back))

	again, err := ExportDocument(ctx, dst.DB, dst.Repos, now)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, again); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	session, ok, err := dst.Repos.Metadata(dst.DB).Lookup(ctx, common.SessionMetadataKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep", session)
}

func TestExportDocument_EmptyStoreHasArrays(t *testing.T) {
	s := newStore(t)
	doc, err := ExportDocument(context.Background(), s.DB, s.Repos, now)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	assert.Contains(t, buf.String(), `"users": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestImportDocument_InvalidLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := SeedInitialData(ctx, s.DB, s.Repos, now)
	require.NoError(t, err)

	bad := &models.Document{
		Meta: models.Meta{Version: 1},
		Users: []models.User{
			{ID: "1", Username: "a", DisplayName: "A", Role: models.RoleAdmin},
			{ID: "2", Username: "A", DisplayName: "A2", Role: models.RoleAdmin},
		},
	}
	err = ImportDocument(ctx, s.DB, s.Repos, bad)
	require.ErrorIs(t, err, common.ErrValidation)

	list, err := s.Repos.Users(s.DB).List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(seedUsers))
}

func TestImportDocument_RejectsNewerVersion(t *testing.T) {
	s := newStore(t)
	err := ImportDocument(context.Background(), s.DB, s.Repos, &models.Document{Meta: models.Meta{Version: 99}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document version")
}

func TestReadDocument_Garbage(t *testing.T) {
	_, err := ReadDocument(strings.NewReader("{not json"))
	require.ErrorContains(t, err, "failed to decode document")
}
