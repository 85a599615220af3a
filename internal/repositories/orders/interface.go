// Package orders is the SQLite store for material order requests.
package orders

import (
	"context"

	"github.com/dmitrijs2005/brimon/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Add(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	Clear(ctx context.Context) error
}
