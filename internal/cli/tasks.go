package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/services"
)

const taskUsage = "task show <id> | task new | task edit <id> | task status <id> <status> | task comment <id> [text] | task delete <id>"

// parseTaskStatus accepts "in_progress" for "in progress" so the status
// fits in a single command token.
func parseTaskStatus(s string) (models.TaskStatus, error) {
	st := models.TaskStatus(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown task status %q", common.ErrValidation, s)
	}
	return st, nil
}

// parseListArgs splits "mine|all" and key=value filters. def is used when
// no scope token is given.
func parseListArgs(args []string, def authz.ListScope) (authz.ListScope, map[string]string, error) {
	scope := def
	opts := make(map[string]string)
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok {
			opts[strings.ToLower(k)] = v
			continue
		}
		s, ok := authz.ParseListScope(arg)
		if !ok {
			return "", nil, usageError("expected mine or all, got " + arg)
		}
		scope = s
	}
	return scope, opts, nil
}

// defaultScope lists everything for callers who may see everything.
func (a *App) defaultScope(all authz.Scope) authz.ListScope {
	if a.caller().Can(all) {
		return authz.All
	}
	return authz.Mine
}

// Tasks lists tasks: "tasks [mine|all] [status=<status>] [project=<id>]".
func (a *App) Tasks(ctx context.Context, args []string) error {
	scope, opts, err := parseListArgs(args, a.defaultScope(authz.ScopeAllTasks))
	if err != nil {
		return err
	}

	var filter services.TaskFilter
	if s, ok := opts["status"]; ok {
		if filter.Status, err = parseTaskStatus(s); err != nil {
			return err
		}
	}
	filter.ProjectID = opts["project"]

	list, err := a.tasks.List(ctx, a.caller(), scope, filter)
	if err != nil {
		return err
	}
	return printTasks(a.out, list)
}

// Task runs a task subcommand.
func (a *App) Task(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(taskUsage)
	}
	sub, rest := strings.ToLower(args[0]), args[1:]

	if sub == "new" {
		return a.newTask(ctx)
	}
	if len(rest) == 0 {
		return usageError(taskUsage)
	}
	id := rest[0]

	switch sub {
	case "show":
		t, err := a.tasks.Get(ctx, a.caller(), id)
		if err != nil {
			return err
		}
		return printTask(a.out, t)

	case "edit":
		return a.editTask(ctx, id)

	case "status":
		if len(rest) < 2 {
			return usageError("task status <id> <status>")
		}
		st, err := parseTaskStatus(strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		t, err := a.tasks.Update(ctx, a.caller(), id, services.TaskUpdate{Status: &st})
		if err != nil {
			return err
		}
		a.printf("Task %s is now %s\n", t.ID, t.Status)
		return nil

	case "comment":
		text := strings.Join(rest[1:], " ")
		if text == "" {
			var err error
			if text, err = a.prompt("Comment"); err != nil {
				return err
			}
		}
		if strings.TrimSpace(text) == "" {
			return usageError("task comment <id> <text>")
		}
		if _, err := a.tasks.Update(ctx, a.caller(), id, services.TaskUpdate{Comment: text}); err != nil {
			return err
		}
		a.printf("Comment added\n")
		return nil

	case "delete":
		if err := a.tasks.Delete(ctx, a.caller(), id); err != nil {
			return err
		}
		a.printf("Task %s deleted\n", id)
		return nil
	}
	return usageError(taskUsage)
}

func (a *App) newTask(ctx context.Context) error {
	if !a.caller().Can(authz.ScopeTaskCreate) {
		return fmt.Errorf("%w: create task", common.ErrAccessDenied)
	}

	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	description, err := a.prompt("Description")
	if err != nil {
		return err
	}
	projectRef, err := a.prompt("Project (id or name, empty for the first one)")
	if err != nil {
		return err
	}
	project, err := a.resolveProject(ctx, projectRef)
	if err != nil {
		return err
	}
	hoursText, err := a.prompt("Planned hours")
	if err != nil {
		return err
	}
	hours, err := parseHours(hoursText)
	if err != nil {
		return err
	}
	assignees, err := a.prompt("Assignees (comma separated usernames)")
	if err != nil {
		return err
	}

	t, err := a.tasks.Create(ctx, a.caller(), services.NewTask{
		ProjectID:    project.ID,
		Title:        title,
		Description:  description,
		PlannedHours: hours,
		Assignees:    splitList(assignees),
	})
	if err != nil {
		return err
	}
	a.printf("Task %s created (%s)\n", t.ID, t.Status)
	return nil
}

// editTask prompts for every editable field, showing the current value.
// An empty answer keeps the field.
func (a *App) editTask(ctx context.Context, id string) error {
	if !authz.CanEditTaskFields(a.user.Role, false) {
		return fmt.Errorf("%w: edit task", common.ErrAccessDenied)
	}
	t, err := a.tasks.Get(ctx, a.caller(), id)
	if err != nil {
		return err
	}

	var upd services.TaskUpdate

	if s, err := a.prompt(fmt.Sprintf("Title [%s]", t.Title)); err != nil {
		return err
	} else if s != "" {
		upd.Title = &s
	}
	if s, err := a.prompt(fmt.Sprintf("Description [%s]", t.Description)); err != nil {
		return err
	} else if s != "" {
		upd.Description = &s
	}
	if s, err := a.prompt(fmt.Sprintf("Planned hours [%g]", t.PlannedHours)); err != nil {
		return err
	} else if s != "" {
		h, err := parseHours(s)
		if err != nil {
			return err
		}
		upd.PlannedHours = &h
	}
	if s, err := a.prompt(fmt.Sprintf("Assignees [%s] (- for nobody)", strings.Join(t.Assignees, ","))); err != nil {
		return err
	} else if s != "" {
		list := []string{}
		if s != "-" {
			list = splitList(s)
		}
		upd.Assignees = &list
	}

	updated, err := a.tasks.Update(ctx, a.caller(), id, upd)
	if err != nil {
		return err
	}
	a.printf("Task %s updated (%s)\n", updated.ID, updated.Status)
	return nil
}
