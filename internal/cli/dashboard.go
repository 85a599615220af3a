package cli

import (
	"context"
)

func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.dashboard.Summary(ctx, a.caller())
	if err != nil {
		return err
	}

	a.printf("Open tasks: %d\n", d.OpenTasks)
	a.printf("Orders: %d\n", d.Orders)
	if len(d.RecentTasks) > 0 {
		a.printf("\nRecent tasks:\n")
		if err := printTasks(a.out, d.RecentTasks); err != nil {
			return err
		}
	}
	if len(d.RecentOrders) > 0 {
		a.printf("\nRecent orders:\n")
		if err := printOrders(a.out, d.RecentOrders); err != nil {
			return err
		}
	}
	return nil
}
