// Package projects is the SQLite store for projects.
package projects

import (
	"context"

	"github.com/dmitrijs2005/brimon/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Clear(ctx context.Context) error
}
