package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/storage"
	"github.com/google/uuid"
)

type ProjectService interface {
	List(ctx context.Context, caller authz.Caller) ([]models.Project, error)
	Create(ctx context.Context, caller authz.Caller, name string, start time.Time, end *time.Time) (*models.Project, error)
}

type projectService struct {
	db    *sql.DB
	repos storage.Manager
	log   logging.Logger
	now   func() time.Time
}

func NewProjectService(db *sql.DB, m storage.Manager, log logging.Logger) ProjectService {
	return &projectService{db: db, repos: m, log: log.With("component", "projects"), now: time.Now}
}

func (s *projectService) List(ctx context.Context, caller authz.Caller) ([]models.Project, error) {
	if !caller.Can(authz.ScopeProjects) {
		return nil, fmt.Errorf("%w: role %q cannot view projects", common.ErrAccessDenied, caller.Role)
	}
	return s.repos.Projects(s.db).List(ctx)
}

// Create adds a project. A zero start means now.
func (s *projectService) Create(ctx context.Context, caller authz.Caller, name string, start time.Time, end *time.Time) (*models.Project, error) {
	if !caller.Can(authz.ScopeTaskCreate) {
		return nil, fmt.Errorf("%w: role %q cannot create projects", common.ErrAccessDenied, caller.Role)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", common.ErrValidation)
	}

	now := s.now().UTC()
	if start.IsZero() {
		start = now
	}
	if end != nil && end.Before(start) {
		return nil, fmt.Errorf("%w: project ends before it starts", common.ErrValidation)
	}

	p := &models.Project{ID: uuid.NewString(), Name: name, Start: start.UTC(), End: end, CreatedAt: now}
	if err := s.repos.Projects(s.db).Add(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "project created", "id", p.ID, "name", p.Name, "by", caller.Username)
	return p, nil
}
