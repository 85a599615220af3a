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

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	Status    models.TaskStatus
	ProjectID string
}

func (f TaskFilter) match(t *models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	return true
}

// NewTask holds the fields of a task being created.
type NewTask struct {
	ProjectID    string
	Title        string
	Description  string
	PlannedHours float64
	Assignees    []string
}

// TaskUpdate holds a change to an existing task. Nil fields are left as is.
// Status and Comment are open to anyone who can see the task; the other
// fields need task:edit.
type TaskUpdate struct {
	ProjectID    *string
	Title        *string
	Description  *string
	PlannedHours *float64
	Assignees    *[]string
	Status       *models.TaskStatus
	Comment      string
}

type TaskService interface {
	List(ctx context.Context, caller authz.Caller, scope authz.ListScope, filter TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, caller authz.Caller, id string) (*models.Task, error)
	Create(ctx context.Context, caller authz.Caller, in NewTask) (*models.Task, error)
	Update(ctx context.Context, caller authz.Caller, id string, upd TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, caller authz.Caller, id string) error
}

type taskService struct {
	db    *sql.DB
	repos storage.Manager
	log   logging.Logger
	now   func() time.Time
}

func NewTaskService(db *sql.DB, m storage.Manager, log logging.Logger) TaskService {
	return &taskService{db: db, repos: m, log: log.With("component", "tasks"), now: time.Now}
}

func (s *taskService) List(ctx context.Context, caller authz.Caller, scope authz.ListScope, filter TaskFilter) ([]models.Task, error) {
	all, err := s.repos.Tasks(s.db).List(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := authz.FilterTasksForRole(caller.Role, caller.Username, all, scope)
	if err != nil {
		return nil, err
	}

	out := visible[:0]
	for i := range visible {
		if filter.match(&visible[i]) {
			out = append(out, visible[i])
		}
	}
	return out, nil
}

func (s *taskService) Get(ctx context.Context, caller authz.Caller, id string) (*models.Task, error) {
	t, err := s.repos.Tasks(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeTask(caller, t) {
		return nil, fmt.Errorf("%w: task %s", common.ErrAccessDenied, id)
	}
	return t, nil
}

// checkAssignees resolves usernames to their stored spelling and rejects
// unknown ones.
func (s *taskService) checkAssignees(ctx context.Context, tx dbx.DBTX, names []string) ([]string, error) {
	repo := s.repos.Users(tx)
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		u, err := repo.FindByUsername(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown assignee %q", common.ErrValidation, n)
		}
		if !seen[u.Username] {
			seen[u.Username] = true
			out = append(out, u.Username)
		}
	}
	return out, nil
}

func (s *taskService) Create(ctx context.Context, caller authz.Caller, in NewTask) (*models.Task, error) {
	if !caller.Can(authz.ScopeTaskCreate) {
		return nil, fmt.Errorf("%w: role %q cannot create tasks", common.ErrAccessDenied, caller.Role)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		assignees, err := s.checkAssignees(ctx, tx, in.Assignees)
		if err != nil {
			return err
		}
		if in.ProjectID != "" {
			if _, err := s.repos.Projects(tx).Get(ctx, in.ProjectID); err != nil {
				return fmt.Errorf("%w: unknown project %q", common.ErrValidation, in.ProjectID)
			}
		}

		now := s.now().UTC()
		task = &models.Task{
			ID:           uuid.NewString(),
			ProjectID:    in.ProjectID,
			Title:        title,
			Description:  strings.TrimSpace(in.Description),
			PlannedHours: in.PlannedHours,
			Assignees:    assignees,
			Status:       models.InitialTaskStatus(assignees),
			TimeLog:      []models.TimeLogEntry{{Type: "plan", By: caller.Username, Hours: in.PlannedHours, At: now}},
			Comments:     []models.Comment{},
			CreatedAt:    now,
		}
		return s.repos.Tasks(tx).Add(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "task created", "id", task.ID, "by", caller.Username)
	return task, nil
}

func statusChangeText(from, to models.TaskStatus) string {
	return fmt.Sprintf("status change: %s → %s", from, to)
}

func (s *taskService) Update(ctx context.Context, caller authz.Caller, id string, upd TaskUpdate) (*models.Task, error) {
	patch := models.TaskPatch{
		ProjectID:    upd.ProjectID,
		Title:        upd.Title,
		Description:  upd.Description,
		PlannedHours: upd.PlannedHours,
		Assignees:    upd.Assignees,
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Tasks(tx)
		t, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !authz.CanSeeTask(caller, t) {
			return fmt.Errorf("%w: task %s", common.ErrAccessDenied, id)
		}
		if patch.Fields() && !authz.CanEditTaskFields(caller.Role, false) {
			return fmt.Errorf("%w: role %q may change only status and comments", common.ErrAccessDenied, caller.Role)
		}

		if patch.Assignees != nil {
			names, err := s.checkAssignees(ctx, tx, *patch.Assignees)
			if err != nil {
				return err
			}
			patch.Assignees = &names
		}

		now := s.now().UTC()
		comments := append([]models.Comment(nil), t.Comments...)
		if upd.Status != nil && *upd.Status != t.Status {
			if !upd.Status.Valid() {
				return fmt.Errorf("%w: unknown task status %q", common.ErrValidation, *upd.Status)
			}
			comments = append(comments, models.Comment{By: caller.Username, Text: statusChangeText(t.Status, *upd.Status), At: now})
			patch.Status = upd.Status
		}
		if text := strings.TrimSpace(upd.Comment); text != "" {
			comments = append(comments, models.Comment{By: caller.Username, Text: text, At: now})
		}
		if len(comments) != len(t.Comments) {
			patch.Comments = &comments
		}

		if patch.PlannedHours != nil && *patch.PlannedHours != t.PlannedHours {
			t.TimeLog = append(t.TimeLog, models.TimeLogEntry{Type: "plan", By: caller.Username, Hours: *patch.PlannedHours, At: now})
		}

		patch.Apply(t)
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "task updated", "id", id, "by", caller.Username)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, caller authz.Caller, id string) error {
	if !caller.Can(authz.ScopeTaskCreate) {
		return fmt.Errorf("%w: role %q cannot delete tasks", common.ErrAccessDenied, caller.Role)
	}
	if err := s.repos.Tasks(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "task deleted", "id", id, "by", caller.Username)
	return nil
}
