package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/export"
	"github.com/dmitrijs2005/brimon/internal/services"
)

const exportUsage = "export tasks|orders [mine|all] [csv|xlsx]"

// Export writes the caller's view of tasks or orders to a file under the
// configured export directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(exportUsage)
	}
	kind := strings.ToLower(args[0])

	var (
		allScope authz.Scope
		scope    authz.ListScope
		format   = export.FormatCSV
	)
	switch kind {
	case "tasks":
		allScope = authz.ScopeAllTasks
	case "orders":
		allScope = authz.ScopeAllOrders
	default:
		return usageError(exportUsage)
	}
	scope = a.defaultScope(allScope)

	for _, arg := range args[1:] {
		if s, ok := authz.ParseListScope(arg); ok {
			scope = s
			continue
		}
		f, err := export.ParseFormat(arg)
		if err != nil {
			return usageError(exportUsage)
		}
		format = f
	}

	var table export.Table
	if kind == "tasks" {
		list, err := a.tasks.List(ctx, a.caller(), scope, services.TaskFilter{})
		if err != nil {
			return err
		}
		table = export.TasksTable(list)
	} else {
		list, err := a.orders.List(ctx, a.caller(), scope)
		if err != nil {
			return err
		}
		table = export.OrdersTable(list)
	}

	path, err := export.ToFile(a.config.ExportDir, kind, format, table, a.now())
	if err != nil {
		return err
	}
	a.log.Info(ctx, "records exported", "kind", kind, "scope", scope, "rows", len(table.Rows), "path", path)
	a.printf("Exported to %s\n", path)
	return nil
}
