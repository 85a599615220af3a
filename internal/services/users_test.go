package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	a, s := newSeededAuth(t)
	svc := NewUserService(s.DB, s.Repos, a, logging.Discard())
	ctx := context.Background()

	_, err := svc.List(ctx, daniel)
	require.ErrorIs(t, err, common.ErrAccessDenied)

	list, err := svc.List(ctx, yair)
	require.NoError(t, err)
	assert.Len(t, list, 8)

	created, err := svc.Create(ctx, avri, "noa", "Noa", models.RoleEmployee, []byte("pw"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, morine, "eve", "Eve", models.RoleAdmin, []byte("pw"))
	require.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = svc.Create(ctx, avri, "NOA", "Noa 2", models.RoleEmployee, []byte("pw"))
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	name := "Noa Levi"
	role := models.RoleOrdersManager
	updated, err := svc.Update(ctx, avri, created.ID, UserUpdate{DisplayName: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Noa Levi", updated.DisplayName)
	assert.Equal(t, models.RoleOrdersManager, updated.Role)
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)

	blank := " "
	_, err = svc.Update(ctx, avri, created.ID, UserUpdate{DisplayName: &blank})
	require.ErrorIs(t, err, common.ErrValidation)

	bad := models.Role("owner")
	_, err = svc.Update(ctx, avri, created.ID, UserUpdate{Role: &bad})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Update(ctx, sasha, created.ID, UserUpdate{DisplayName: &name})
	require.ErrorIs(t, err, common.ErrAccessDenied)
}
