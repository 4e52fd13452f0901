package users

import (
	"context"

	"github.com/weatherdesk/weatherdesk/internal/server/models"
)

// Repository persists user accounts. Lookups return common.ErrNotFound when
// no row matches; Create returns common.ErrDuplicateEmail when the email is
// already taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
