package alerts

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository covers derived expiration alerts and the notifications raised
// from them. Alerts are rebuilt wholesale on each evaluation pass, so the
// write surface is delete-all plus insert.
type Repository interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
	Create(ctx context.Context, alert *models.ExpirationAlert) (*models.ExpirationAlert, error)
	List(ctx context.Context, userID int64) ([]*models.ExpirationAlert, error)
	Delete(ctx context.Context, id int64, userID int64) error

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64, userID int64) error
}
