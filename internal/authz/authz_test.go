package authz

import (
	"testing"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccessScope_Table(t *testing.T) {
	want := map[models.Role][]Scope{
		models.RoleAdmin:         allScopes,
		models.RoleMiniAdmin:     allScopes,
		models.RoleEmployee:      {ScopeDashboard, ScopeMyTasks, ScopeProjects, ScopeMyOrders},
		models.RoleOrdersManager: {ScopeDashboard, ScopeMyOrders, ScopeAllOrders, ScopeOrderMgmt},
	}
	for role, scopes := range want {
		assert.Equal(t, scopes, Scopes(role), role)
	}

	assert.False(t, CanAccessScope("root", ScopeDashboard))
	assert.Empty(t, Scopes(""))
}

func TestMiniAdminMatchesAdmin(t *testing.T) {
	for _, s := range allScopes {
		assert.Equal(t, CanAccessScope(models.RoleAdmin, s), CanAccessScope(models.RoleMiniAdmin, s), s)
	}
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Assignees: []string{"daniel"}},
		{ID: "t2", Assignees: []string{"sasha", "daniel"}},
		{ID: "t3"},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func taskID(t models.Task) string   { return t.ID }
func orderID(o models.Order) string { return o.ID }

func TestFilterTasksForRole(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		user    string
		scope   ListScope
		want    []string
		wantErr bool
	}{
		{"employee mine", models.RoleEmployee, "daniel", Mine, []string{"t1", "t2"}, false},
		{"employee mine none assigned", models.RoleEmployee, "mathy", Mine, []string{}, false},
		{"employee all denied", models.RoleEmployee, "daniel", All, nil, true},
		{"admin all", models.RoleAdmin, "avri", All, []string{"t1", "t2", "t3"}, false},
		{"mini admin all", models.RoleMiniAdmin, "yair", All, []string{"t1", "t2", "t3"}, false},
		{"orders manager mine denied", models.RoleOrdersManager, "morine", Mine, nil, true},
		{"unknown scope denied", models.RoleAdmin, "avri", "everything", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterTasksForRole(tt.role, tt.user, sampleTasks(), tt.scope)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrAccessDenied)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got, taskID))
		})
	}
}

func TestFilterTasksForRole_DoesNotAliasInput(t *testing.T) {
	in := sampleTasks()
	got, err := FilterTasksForRole(models.RoleAdmin, "avri", in, All)
	require.NoError(t, err)
	got[0].ID = "changed"
	assert.Equal(t, "t1", in[0].ID)
}

func TestFilterOrdersForRole_AvriAndSasha(t *testing.T) {
	orders := []models.Order{
		{ID: "o1", RequestedBy: "sasha"},
		{ID: "o2", RequestedBy: "daniel"},
		{ID: "o3", RequestedBy: "avri"},
	}

	all, err := FilterOrdersForRole(models.RoleAdmin, "avri", orders, All)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2", "o3"}, ids(all, orderID))

	_, err = FilterOrdersForRole(models.RoleEmployee, "sasha", orders, All)
	require.ErrorIs(t, err, common.ErrAccessDenied)

	mine, err := FilterOrdersForRole(models.RoleEmployee, "Sasha", orders, Mine)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, ids(mine, orderID))

	managed, err := FilterOrdersForRole(models.RoleOrdersManager, "morine", orders, All)
	require.NoError(t, err)
	assert.Len(t, managed, 3)
}

func TestCanSee(t *testing.T) {
	task := &models.Task{ID: "t1", Assignees: []string{"daniel"}}
	assert.True(t, CanSeeTask(Caller{"daniel", models.RoleEmployee}, task))
	assert.False(t, CanSeeTask(Caller{"sasha", models.RoleEmployee}, task))
	assert.True(t, CanSeeTask(Caller{"avri", models.RoleAdmin}, task))
	assert.False(t, CanSeeTask(Caller{"daniel", models.RoleOrdersManager}, task))

	order := &models.Order{ID: "o1", RequestedBy: "daniel"}
	assert.True(t, CanSeeOrder(Caller{"daniel", models.RoleEmployee}, order))
	assert.False(t, CanSeeOrder(Caller{"sasha", models.RoleEmployee}, order))
	assert.True(t, CanSeeOrder(Caller{"morine", models.RoleOrdersManager}, order))
}

func TestCanEditTaskFields(t *testing.T) {
	assert.False(t, CanEditTaskFields(models.RoleEmployee, false))
	assert.True(t, CanEditTaskFields(models.RoleEmployee, true))
	assert.True(t, CanEditTaskFields(models.RoleAdmin, false))
	assert.True(t, CanEditTaskFields(models.RoleMiniAdmin, false))
}

func TestStatusTransition_Strict(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderPending, models.OrderInSearch, true},
		{models.OrderInSearch, models.OrderOrdered, true},
		{models.OrderOrdered, models.OrderInProgress, true},
		{models.OrderInProgress, models.OrderCompleted, true},
		{models.OrderPending, models.OrderCompleted, false},
		{models.OrderOrdered, models.OrderPending, false},
		{models.OrderOrdered, models.OrderCancelled, true},
		{models.OrderPending, models.OrderRefused, true},
		{models.OrderCompleted, models.OrderCancelled, false},
		{models.OrderRefused, models.OrderPending, false},
		{models.OrderPending, "lost", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := StatusTransition(tt.from, tt.to, models.RoleOrdersManager, PolicyStrict)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			require.ErrorIs(t, err, common.ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

// Skipping straight from pending to completed is refused under the
// default policy and allowed under the free one.
func TestStatusTransition_PendingToCompleted(t *testing.T) {
	_, err := StatusTransition(models.OrderPending, models.OrderCompleted, models.RoleOrdersManager, PolicyStrict)
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := StatusTransition(models.OrderPending, models.OrderCompleted, models.RoleOrdersManager, PolicyFree)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got)

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)
}

func TestStatusTransition_FreeStillStopsAtTerminal(t *testing.T) {
	_, err := StatusTransition(models.OrderCompleted, models.OrderPending, models.RoleAdmin, PolicyFree)
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := StatusTransition(models.OrderOrdered, models.OrderPending, models.RoleAdmin, PolicyFree)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got)
}

func TestStatusTransition_SameStatusIsNoop(t *testing.T) {
	got, err := StatusTransition(models.OrderCompleted, models.OrderCompleted, models.RoleOrdersManager, PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got)
}

func TestStatusTransition_EmployeeDenied(t *testing.T) {
	_, err := StatusTransition(models.OrderPending, models.OrderInSearch, models.RoleEmployee, PolicyFree)
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t,
		[]models.OrderStatus{models.OrderInSearch, models.OrderRefused, models.OrderCancelled},
		NextStatuses(models.OrderPending, PolicyStrict))
	assert.Empty(t, NextStatuses(models.OrderCompleted, PolicyFree))
	assert.Len(t, NextStatuses(models.OrderPending, PolicyFree), len(models.OrderStatuses)-1)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("free")
	require.NoError(t, err)
	assert.Equal(t, PolicyFree, p)
	assert.Equal(t, "free", p.String())

	_, err = ParsePolicy("chaos")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseListScope(t *testing.T) {
	s, ok := ParseListScope(" ALL ")
	assert.True(t, ok)
	assert.Equal(t, All, s)
	_, ok = ParseListScope("some")
	assert.False(t, ok)
}
