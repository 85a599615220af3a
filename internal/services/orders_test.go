package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T, policy authz.Policy) *orderService {
	t.Helper()
	s := newStore(t)
	os := NewOrderService(s.DB, s.Repos, policy, logging.Discard()).(*orderService)
	os.now = fixedClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	return os
}

func status(s models.OrderStatus) *models.OrderStatus { return &s }

func TestOrderService_CreateAndList(t *testing.T) {
	svc := newOrderService(t, authz.PolicyStrict)
	ctx := context.Background()

	o, err := svc.Create(ctx, sasha, NewOrder{Title: "Drill bits", IsUrgent: true})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "sasha", o.RequestedBy)

	_, err = svc.Create(ctx, daniel, NewOrder{Title: "Gloves"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, daniel, NewOrder{Title: ""})
	require.ErrorIs(t, err, common.ErrValidation)

	all, err := svc.List(ctx, avri, authz.All)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, sasha, authz.All)
	require.ErrorIs(t, err, common.ErrAccessDenied)

	mine, err := svc.List(ctx, sasha, authz.Mine)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Drill bits", mine[0].Title)

	managed, err := svc.List(ctx, morine, authz.All)
	require.NoError(t, err)
	assert.Len(t, managed, 2)

	_, err = svc.Get(ctx, sasha, all[0].ID)
	if all[0].RequestedBy == "sasha" {
		require.NoError(t, err)
	} else {
		require.ErrorIs(t, err, common.ErrAccessDenied)
	}
}

func TestOrderService_StrictWorkflow(t *testing.T) {
	svc := newOrderService(t, authz.PolicyStrict)
	ctx := context.Background()

	o, err := svc.Create(ctx, daniel, NewOrder{Title: "Cement"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, morine, o.ID, OrderUpdate{Status: status(models.OrderCompleted)})
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	for _, next := range []models.OrderStatus{models.OrderInSearch, models.OrderOrdered, models.OrderInProgress, models.OrderCompleted} {
		got, err := svc.Update(ctx, morine, o.ID, OrderUpdate{Status: status(next)})
		require.NoError(t, err, next)
		assert.Equal(t, next, got.Status)
	}

	_, err = svc.Update(ctx, morine, o.ID, OrderUpdate{Status: status(models.OrderCancelled)})
	require.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestOrderService_FreeWorkflowAllowsSkip(t *testing.T) {
	svc := newOrderService(t, authz.PolicyFree)
	ctx := context.Background()

	o, err := svc.Create(ctx, daniel, NewOrder{Title: "Cement"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, morine, o.ID, OrderUpdate{Status: status(models.OrderCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)
}

func TestOrderService_ArrivalAndNotes(t *testing.T) {
	svc := newOrderService(t, authz.PolicyStrict)
	ctx := context.Background()

	o, err := svc.Create(ctx, daniel, NewOrder{Title: "Tiles"})
	require.NoError(t, err)

	arrival := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	notes := "supplier called"
	got, err := svc.Update(ctx, avri, o.ID, OrderUpdate{ArrivalDate: &arrival, Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, got.ArrivalDate)
	assert.True(t, arrival.Equal(*got.ArrivalDate))
	assert.Equal(t, models.OrderPending, got.Status)

	_, err = svc.Update(ctx, daniel, o.ID, OrderUpdate{Notes: &notes})
	require.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = svc.Update(ctx, morine, "missing", OrderUpdate{Notes: &notes})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
