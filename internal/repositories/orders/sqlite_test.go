package orders

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/migrations"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/google/go-cmp/cmp"
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

var day = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func sampleOrder(id string, date time.Time) *models.Order {
	return &models.Order{
		ID:          id,
		Title:       "Plywood 18mm",
		Description: "20 sheets",
		Date:        date,
		Status:      models.OrderPending,
		RequestedBy: "daniel",
		IsUrgent:    true,
	}
}

func TestAddGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := sampleOrder("o1", day)
	require.NoError(t, r.Add(ctx, want))

	got, err := r.Get(ctx, "o1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	_, err = r.Get(ctx, "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, sampleOrder("old", day)))
	require.NoError(t, r.Add(ctx, sampleOrder("new", day.Add(24*time.Hour))))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
}

func TestUpdate_StatusArrivalNotes(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sampleOrder("o1", day)))

	status := models.OrderInSearch
	arrival := day.Add(72 * time.Hour)
	notes := "supplier B"
	got, err := r.Update(ctx, "o1", models.OrderPatch{Status: &status, ArrivalDate: &arrival, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.OrderInSearch, got.Status)

	stored, err := r.Get(ctx, "o1")
	require.NoError(t, err)
	require.NotNil(t, stored.ArrivalDate)
	assert.True(t, arrival.Equal(*stored.ArrivalDate))
	assert.Equal(t, "supplier B", stored.Notes)
	assert.Equal(t, "Plywood 18mm", stored.Title)

	_, err = r.Update(ctx, "o1", models.OrderPatch{ClearArrivalDate: true})
	require.NoError(t, err)
	stored, err = r.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, stored.ArrivalDate)
}

func TestUpdate_Errors(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, sampleOrder("o1", day)))

	bogus := models.OrderStatus("lost")
	_, err := r.Update(ctx, "o1", models.OrderPatch{Status: &bogus})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = r.Update(ctx, "nope", models.OrderPatch{})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
