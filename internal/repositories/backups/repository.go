package backups

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository is the append-only snapshot store. A snapshot is written before
// every update and delete; restore reads one back by ID. Listing is scoped
// to one owner; snapshots of other accounts are never visible.
type Repository interface {
	Create(ctx context.Context, entry *models.BackupEntry) error
	GetByID(ctx context.Context, id int64) (*models.BackupEntry, error)
	List(ctx context.Context, userID int64, tableName string, recordID int64) ([]*models.BackupEntry, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]*models.BackupEntry, error)
}
