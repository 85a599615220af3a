package users

import (
	"context"

	"github.com/dmitrijs2005/brimon/internal/models"
)

// Repository persists user accounts. Username lookups ignore case.
// Missing users are reported as common.ErrUserNotFound.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Add(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Clear(ctx context.Context) error
}
