package audit

import (
	"context"
	"time"

	"github.com/dsavel/passvault/internal/models"
)

// Filter narrows audit ledger queries. Zero-valued fields are ignored.
type Filter struct {
	UserID    int64
	TableName string
	Action    string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// Repository is the append-only change ledger. Entries are written in the
// same transaction as the mutation they describe and are never updated.
type Repository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter Filter) ([]*models.AuditEntry, error)
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}
