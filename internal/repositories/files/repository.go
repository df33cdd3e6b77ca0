package files

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository stores encrypted vault files. Ciphertext is nullable in the
// row: when a blob store is configured the bytes live there under StorageKey
// and the row keeps only metadata and the nonce.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64, userID int64) (*models.File, error)
	List(ctx context.Context, userID int64) ([]*models.File, error)
	Delete(ctx context.Context, id int64, userID int64) error
	Upsert(ctx context.Context, file *models.File) error
}
