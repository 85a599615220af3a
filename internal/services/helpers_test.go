package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/config"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
	"github.com/stretchr/testify/require"
)

var (
	avri   = authz.Caller{Username: "avri", Role: models.RoleAdmin}
	yair   = authz.Caller{Username: "yair", Role: models.RoleMiniAdmin}
	daniel = authz.Caller{Username: "daniel", Role: models.RoleEmployee}
	sasha  = authz.Caller{Username: "sasha", Role: models.RoleEmployee}
	morine = authz.Caller{Username: "morine", Role: models.RoleOrdersManager}
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionSecret = "test-secret"
	return cfg
}

// newStore returns an in-memory store holding the default seed data.
func newStore(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()

	s, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = storage.SeedInitialData(ctx, s.DB, s.Repos, time.Now())
	require.NoError(t, err)
	return s
}

// newSeededAuth returns an auth service whose users all have the default
// password.
func newSeededAuth(t *testing.T) (*authService, *storage.Store) {
	t.Helper()
	s := newStore(t)
	a := NewAuthService(s.DB, s.Repos, testConfig(), logging.Discard()).(*authService)

	_, err := a.SeedDefaultCredentials(context.Background(), []byte(common.DefaultSeedPassword))
	require.NoError(t, err)
	return a, s
}

// fixedClock returns a clock that advances by one minute on every call.
func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Minute)
		return cur
	}
}
