package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
)

const selectProject = `SELECT id, name, start_at, end_at, created_at FROM projects`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*models.Project, error) {
	var (
		p              models.Project
		start, created string
		end            sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &start, &end, &created); err != nil {
		return nil, err
	}

	var err error
	if p.Start, err = dbx.ParseTime(start); err != nil {
		return nil, err
	}
	if p.End, err = dbx.ParseNullTime(end); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, selectProject+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var result []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProject+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project[%s]: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, project *models.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, start_at, end_at, created_at) VALUES (?, ?, ?, ?, ?)
	`, project.ID, project.Name, dbx.FormatTime(project.Start), dbx.NullTime(project.End),
		dbx.FormatTime(project.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add project[%s]: %w", project.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	return nil
}
