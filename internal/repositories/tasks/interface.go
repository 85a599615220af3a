// Package tasks is the SQLite store for tasks. Assignees, the time log and
// comments are kept as JSON text columns.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/brimon/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Add(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
