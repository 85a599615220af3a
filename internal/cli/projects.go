package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
)

func (a *App) Projects(ctx context.Context) error {
	list, err := a.projects.List(ctx, a.caller())
	if err != nil {
		return err
	}
	return printProjects(a.out, list)
}

// Project runs "project new".
func (a *App) Project(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.ToLower(args[0]) != "new" {
		return usageError("project new")
	}

	name, err := a.prompt("Project name")
	if err != nil {
		return err
	}
	startText, err := a.prompt("Start date (YYYY-MM-DD, empty for today)")
	if err != nil {
		return err
	}
	var start time.Time
	if startText != "" {
		if start, err = parseDate(startText); err != nil {
			return err
		}
	}
	endText, err := a.prompt("End date (YYYY-MM-DD, optional)")
	if err != nil {
		return err
	}
	end, err := parseOptionalDate(endText)
	if err != nil {
		return err
	}

	p, err := a.projects.Create(ctx, a.caller(), name, start, end)
	if err != nil {
		return err
	}
	a.printf("Project %s created (%s)\n", p.Name, p.ID)
	return nil
}

// resolveProject finds a project by id or name. An empty ref picks the
// first project listed.
func (a *App) resolveProject(ctx context.Context, ref string) (*models.Project, error) {
	list, err := a.projects.List(ctx, a.caller())
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	for i := range list {
		if ref == "" || list[i].ID == ref || strings.EqualFold(list[i].Name, ref) {
			return &list[i], nil
		}
	}
	if ref == "" {
		return nil, fmt.Errorf("no projects yet: %w", common.ErrorNotFound)
	}
	return nil, fmt.Errorf("project %q: %w", ref, common.ErrorNotFound)
}
