package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
)

const selectTask = `SELECT id, project_id, title, description, planned_hours, status,
	assignees, time_log, comments, created_at FROM tasks`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                            models.Task
		status, created              string
		assignees, timeLog, comments string
	)
	err := s.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.PlannedHours, &status,
		&assignees, &timeLog, &comments, &created)
	if err != nil {
		return nil, err
	}
	t.Status = models.TaskStatus(status)

	if err := json.Unmarshal([]byte(assignees), &t.Assignees); err != nil {
		return nil, fmt.Errorf("failed to decode assignees: %w", err)
	}
	if err := json.Unmarshal([]byte(timeLog), &t.TimeLog); err != nil {
		return nil, fmt.Errorf("failed to decode time log: %w", err)
	}
	if err := json.Unmarshal([]byte(comments), &t.Comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	if t.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	return &t, nil
}

// encodeList renders a slice as JSON, writing nil as [].
func encodeList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeColumns(t *models.Task) (assignees, timeLog, comments string, err error) {
	if assignees, err = encodeList(t.Assignees); err != nil {
		return
	}
	if timeLog, err = encodeList(t.TimeLog); err != nil {
		return
	}
	comments, err = encodeList(t.Comments)
	return
}

// List returns every task, oldest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var result []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTask+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task[%s]: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	assignees, timeLog, comments, err := encodeColumns(task)
	if err != nil {
		return fmt.Errorf("failed to encode task[%s]: %w", task.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, description, planned_hours, status,
			assignees, time_log, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.ProjectID, task.Title, task.Description, task.PlannedHours, string(task.Status),
		assignees, timeLog, comments, dbx.FormatTime(task.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add task[%s]: %w", task.ID, err)
	}
	return nil
}

// Update overwrites the stored task with the same id. CreatedAt is kept.
func (r *SQLiteRepository) Update(ctx context.Context, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	assignees, timeLog, comments, err := encodeColumns(task)
	if err != nil {
		return fmt.Errorf("failed to encode task[%s]: %w", task.ID, err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET project_id = ?, title = ?, description = ?, planned_hours = ?, status = ?,
			assignees = ?, time_log = ?, comments = ?
		WHERE id = ?
	`, task.ProjectID, task.Title, task.Description, task.PlannedHours, string(task.Status),
		assignees, timeLog, comments, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task[%s]: %w", task.ID, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task[%s]: %w", id, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}
