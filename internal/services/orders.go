package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
	"github.com/google/uuid"
)

// NewOrder holds the fields of an order request being created.
type NewOrder struct {
	Title       string
	Description string
	IsUrgent    bool
}

// OrderUpdate is a change made by an order manager. Nil fields are left as
// is; ClearArrivalDate removes the arrival date.
type OrderUpdate struct {
	Status           *models.OrderStatus
	ArrivalDate      *time.Time
	ClearArrivalDate bool
	Notes            *string
}

type OrderService interface {
	List(ctx context.Context, caller authz.Caller, scope authz.ListScope) ([]models.Order, error)
	Get(ctx context.Context, caller authz.Caller, id string) (*models.Order, error)
	Create(ctx context.Context, caller authz.Caller, in NewOrder) (*models.Order, error)
	Update(ctx context.Context, caller authz.Caller, id string, upd OrderUpdate) (*models.Order, error)
}

type orderService struct {
	db     *sql.DB
	repos  storage.Manager
	policy authz.Policy
	log    logging.Logger
	now    func() time.Time
}

// NewOrderService constructs an OrderService checking status moves under
// policy.
func NewOrderService(db *sql.DB, m storage.Manager, policy authz.Policy, log logging.Logger) OrderService {
	return &orderService{db: db, repos: m, policy: policy, log: log.With("component", "orders"), now: time.Now}
}

func (s *orderService) List(ctx context.Context, caller authz.Caller, scope authz.ListScope) ([]models.Order, error) {
	all, err := s.repos.Orders(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.FilterOrdersForRole(caller.Role, caller.Username, all, scope)
}

func (s *orderService) Get(ctx context.Context, caller authz.Caller, id string) (*models.Order, error) {
	o, err := s.repos.Orders(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeOrder(caller, o) {
		return nil, fmt.Errorf("%w: order %s", common.ErrAccessDenied, id)
	}
	return o, nil
}

func (s *orderService) Create(ctx context.Context, caller authz.Caller, in NewOrder) (*models.Order, error) {
	if !caller.Can(authz.ScopeMyOrders) {
		return nil, fmt.Errorf("%w: role %q cannot request orders", common.ErrAccessDenied, caller.Role)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	o := &models.Order{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        s.now().UTC(),
		Status:      models.OrderPending,
		RequestedBy: caller.Username,
		IsUrgent:    in.IsUrgent,
	}
	if err := s.repos.Orders(s.db).Add(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "order requested", "id", o.ID, "by", caller.Username, "urgent", o.IsUrgent)
	return o, nil
}

func (s *orderService) Update(ctx context.Context, caller authz.Caller, id string, upd OrderUpdate) (*models.Order, error) {
	if !caller.Can(authz.ScopeOrderMgmt) {
		return nil, fmt.Errorf("%w: role %q cannot manage orders", common.ErrAccessDenied, caller.Role)
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Orders(tx)
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		patch := models.OrderPatch{
			ArrivalDate:      upd.ArrivalDate,
			ClearArrivalDate: upd.ClearArrivalDate,
			Notes:            upd.Notes,
		}
		if upd.Status != nil {
			next, err := authz.StatusTransition(current.Status, *upd.Status, caller.Role, s.policy)
			if err != nil {
				return err
			}
			patch.Status = &next
		}

		order, err = repo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "order updated", "id", id, "status", order.Status, "by", caller.Username)
	return order, nil
}
