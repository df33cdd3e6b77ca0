package secrets

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository stores envelope-encrypted service passwords. All reads and
// mutations are owner-scoped; a row belonging to another account behaves as
// if it did not exist.
type Repository interface {
	Create(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	GetByID(ctx context.Context, id int64, userID int64) (*models.Secret, error)
	List(ctx context.Context, userID int64) ([]*models.Secret, error)
	ListExpiring(ctx context.Context, userID int64) ([]*models.Secret, error)
	Update(ctx context.Context, secret *models.Secret) error
	Delete(ctx context.Context, id int64, userID int64) error
	Upsert(ctx context.Context, secret *models.Secret) error
}
