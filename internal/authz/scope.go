package authz

import (
	"github.com/dmitrijs2005/brimon/internal/models"
)

// Scope names a view or a capability.
type Scope string

const (
	ScopeDashboard  Scope = "dashboard"
	ScopeMyTasks    Scope = "my-tasks"
	ScopeAllTasks   Scope = "all-tasks"
	ScopeProjects   Scope = "projects"
	ScopeMyOrders   Scope = "my-orders"
	ScopeAllOrders  Scope = "all-orders"
	ScopeUsers      Scope = "users"
	ScopeTaskCreate Scope = "task:create"
	ScopeTaskEdit   Scope = "task:edit"
	ScopeOrderMgmt  Scope = "order:manage"
)

// allScopes fixes the menu order.
var allScopes = []Scope{
	ScopeDashboard, ScopeMyTasks, ScopeAllTasks, ScopeProjects,
	ScopeMyOrders, ScopeAllOrders, ScopeUsers,
	ScopeTaskCreate, ScopeTaskEdit, ScopeOrderMgmt,
}

func set(scopes ...Scope) map[Scope]struct{} {
	m := make(map[Scope]struct{}, len(scopes))
	for _, s := range scopes {
		m[s] = struct{}{}
	}
	return m
}

var table = map[models.Role]map[Scope]struct{}{
	models.RoleAdmin:     set(allScopes...),
	models.RoleMiniAdmin: set(allScopes...),
	models.RoleEmployee: set(
		ScopeDashboard, ScopeMyTasks, ScopeProjects, ScopeMyOrders,
	),
	models.RoleOrdersManager: set(
		ScopeDashboard, ScopeMyOrders, ScopeAllOrders, ScopeOrderMgmt,
	),
}

// CanAccessScope reports whether role holds scope. Unknown roles hold
// nothing.
func CanAccessScope(role models.Role, scope Scope) bool {
	_, ok := table[role][scope]
	return ok
}

// Scopes lists the scopes role holds, in menu order.
func Scopes(role models.Role) []Scope {
	var out []Scope
	for _, s := range allScopes {
		if CanAccessScope(role, s) {
			out = append(out, s)
		}
	}
	return out
}

// Caller identifies who is asking.
type Caller struct {
	Username string
	Role     models.Role
}

// CallerOf builds a Caller from a user record.
func CallerOf(u *models.User) Caller {
	return Caller{Username: u.Username, Role: u.Role}
}

func (c Caller) Can(scope Scope) bool {
	return CanAccessScope(c.Role, scope)
}
