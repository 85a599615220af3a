package services

import (
	"context"
	"database/sql"
	"sort"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
)

// RecentLimit is how many tasks and orders the dashboard lists.
const RecentLimit = 5

// Dashboard summarizes what the caller can see.
type Dashboard struct {
	OpenTasks    int
	Orders       int
	RecentTasks  []models.Task
	RecentOrders []models.Order
}

type DashboardService interface {
	Summary(ctx context.Context, caller authz.Caller) (*Dashboard, error)
}

type dashboardService struct {
	db    *sql.DB
	repos storage.Manager
}

func NewDashboardService(db *sql.DB, m storage.Manager) DashboardService {
	return &dashboardService{db: db, repos: m}
}

// widest picks All when the caller may use it, else Mine, else nothing.
func widest(c authz.Caller, all, mine authz.Scope) (authz.ListScope, bool) {
	switch {
	case c.Can(all):
		return authz.All, true
	case c.Can(mine):
		return authz.Mine, true
	}
	return "", false
}

func (s *dashboardService) Summary(ctx context.Context, caller authz.Caller) (*Dashboard, error) {
	d := &Dashboard{}

	if scope, ok := widest(caller, authz.ScopeAllTasks, authz.ScopeMyTasks); ok {
		all, err := s.repos.Tasks(s.db).List(ctx)
		if err != nil {
			return nil, err
		}
		tasks, err := authz.FilterTasksForRole(caller.Role, caller.Username, all, scope)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if t.Status.Open() {
				d.OpenTasks++
			}
		}
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
		d.RecentTasks = tasks[:min(RecentLimit, len(tasks))]
	}

	if scope, ok := widest(caller, authz.ScopeAllOrders, authz.ScopeMyOrders); ok {
		all, err := s.repos.Orders(s.db).List(ctx)
		if err != nil {
			return nil, err
		}
		orders, err := authz.FilterOrdersForRole(caller.Role, caller.Username, all, scope)
		if err != nil {
			return nil, err
		}
		d.Orders = len(orders)
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })
		d.RecentOrders = orders[:min(RecentLimit, len(orders))]
	}

	return d, nil
}
