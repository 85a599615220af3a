package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/services"
)

const orderUsage = "order show <id> | order new | order status <id> <status> | order arrival <id> <YYYY-MM-DD|none> | order notes <id> [text]"

// Orders lists orders: "orders [mine|all]".
func (a *App) Orders(ctx context.Context, args []string) error {
	scope, _, err := parseListArgs(args, a.defaultScope(authz.ScopeAllOrders))
	if err != nil {
		return err
	}
	list, err := a.orders.List(ctx, a.caller(), scope)
	if err != nil {
		return err
	}
	return printOrders(a.out, list)
}

// Order runs an order subcommand.
func (a *App) Order(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(orderUsage)
	}
	sub, rest := strings.ToLower(args[0]), args[1:]

	if sub == "new" {
		return a.newOrder(ctx)
	}
	if len(rest) == 0 {
		return usageError(orderUsage)
	}
	id := rest[0]

	switch sub {
	case "show":
		o, err := a.orders.Get(ctx, a.caller(), id)
		if err != nil {
			return err
		}
		if err := printOrder(a.out, o); err != nil {
			return err
		}
		if a.caller().Can(authz.ScopeOrderMgmt) {
			a.printf("Next: %s\n", joinStatuses(authz.NextStatuses(o.Status, a.policy)))
		}
		return nil

	case "status":
		if len(rest) < 2 {
			return usageError("order status <id> <status>")
		}
		return a.setOrderStatus(ctx, id, models.OrderStatus(strings.ToLower(rest[1])))

	case "arrival":
		if len(rest) < 2 {
			return usageError("order arrival <id> <YYYY-MM-DD|none>")
		}
		var upd services.OrderUpdate
		if strings.EqualFold(rest[1], "none") {
			upd.ClearArrivalDate = true
		} else {
			d, err := parseDate(rest[1])
			if err != nil {
				return err
			}
			upd.ArrivalDate = &d
		}
		o, err := a.orders.Update(ctx, a.caller(), id, upd)
		if err != nil {
			return err
		}
		a.printf("Order %s arrival: %s\n", o.ID, formatOptionalDate(o.ArrivalDate))
		return nil

	case "notes":
		notes := strings.Join(rest[1:], " ")
		if notes == "" {
			var err error
			if notes, err = a.prompt("Notes"); err != nil {
				return err
			}
		}
		if _, err := a.orders.Update(ctx, a.caller(), id, services.OrderUpdate{Notes: &notes}); err != nil {
			return err
		}
		a.printf("Notes saved\n")
		return nil
	}
	return usageError(orderUsage)
}

func (a *App) newOrder(ctx context.Context) error {
	if !a.caller().Can(authz.ScopeMyOrders) {
		return fmt.Errorf("%w: create order", common.ErrAccessDenied)
	}

	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	description, err := a.prompt("Description")
	if err != nil {
		return err
	}
	urgent, err := GetYesNo(a.scanner, "Urgent?", a.out)
	if err != nil {
		return err
	}

	o, err := a.orders.Create(ctx, a.caller(), services.NewOrder{
		Title:       title,
		Description: description,
		IsUrgent:    urgent,
	})
	if err != nil {
		return err
	}
	a.printf("Order %s created (%s)\n", o.ID, o.Status)
	return nil
}

// setOrderStatus applies a status change. A rejected move lists the
// statuses the order can go to instead.
func (a *App) setOrderStatus(ctx context.Context, id string, st models.OrderStatus) error {
	o, err := a.orders.Update(ctx, a.caller(), id, services.OrderUpdate{Status: &st})
	if errors.Is(err, common.ErrInvalidTransition) {
		if cur, getErr := a.orders.Get(ctx, a.caller(), id); getErr == nil {
			return fmt.Errorf("%w (allowed: %s)", err, joinStatuses(authz.NextStatuses(cur.Status, a.policy)))
		}
	}
	if err != nil {
		return err
	}
	a.printf("Order %s is now %s\n", o.ID, o.Status)
	return nil
}

func joinStatuses(list []models.OrderStatus) string {
	if len(list) == 0 {
		return "none"
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
