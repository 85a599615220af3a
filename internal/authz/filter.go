package authz

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
)

// ListScope selects between the caller's own records and all records.
type ListScope string

const (
	Mine ListScope = "mine"
	All  ListScope = "all"
)

func ParseListScope(s string) (ListScope, bool) {
	switch ListScope(strings.ToLower(strings.TrimSpace(s))) {
	case Mine:
		return Mine, true
	case All:
		return All, true
	}
	return "", false
}

func denied(what string, role models.Role, scope ListScope) error {
	return fmt.Errorf("%w: %s %s for role %q", common.ErrAccessDenied, scope, what, role)
}

// FilterTasksForRole returns the tasks role may list under scope. Mine
// keeps tasks assigned to username and needs my-tasks; All needs
// all-tasks. A refusal is ErrAccessDenied, never an empty result.
func FilterTasksForRole(role models.Role, username string, tasks []models.Task, scope ListScope) ([]models.Task, error) {
	switch scope {
	case Mine:
		if !CanAccessScope(role, ScopeMyTasks) {
			return nil, denied("tasks", role, scope)
		}
		out := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.AssignedTo(username) {
				out = append(out, t)
			}
		}
		return out, nil
	case All:
		if !CanAccessScope(role, ScopeAllTasks) {
			return nil, denied("tasks", role, scope)
		}
		return append([]models.Task(nil), tasks...), nil
	}
	return nil, denied("tasks", role, scope)
}

// FilterOrdersForRole returns the orders role may list under scope. Mine
// keeps orders requested by username; All needs all-orders.
func FilterOrdersForRole(role models.Role, username string, orders []models.Order, scope ListScope) ([]models.Order, error) {
	switch scope {
	case Mine:
		if !CanAccessScope(role, ScopeMyOrders) {
			return nil, denied("orders", role, scope)
		}
		out := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if strings.EqualFold(o.RequestedBy, username) {
				out = append(out, o)
			}
		}
		return out, nil
	case All:
		if !CanAccessScope(role, ScopeAllOrders) {
			return nil, denied("orders", role, scope)
		}
		return append([]models.Order(nil), orders...), nil
	}
	return nil, denied("orders", role, scope)
}

// CanSeeTask reports whether c may open t at all.
func CanSeeTask(c Caller, t *models.Task) bool {
	if c.Can(ScopeAllTasks) {
		return true
	}
	return c.Can(ScopeMyTasks) && t.AssignedTo(c.Username)
}

// CanSeeOrder reports whether c may open o at all.
func CanSeeOrder(c Caller, o *models.Order) bool {
	if c.Can(ScopeAllOrders) {
		return true
	}
	return c.Can(ScopeMyOrders) && strings.EqualFold(o.RequestedBy, c.Username)
}

// CanEditTaskFields reports whether role may change fields other than
// status and comments. Everyone may fill in a new task; on an existing task
// only task:edit roles may.
func CanEditTaskFields(role models.Role, isNewTask bool) bool {
	if isNewTask {
		return true
	}
	return CanAccessScope(role, ScopeTaskEdit)
}
