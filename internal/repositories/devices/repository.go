package devices

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository covers device registrations and the per-login access trail.
type Repository interface {
	CreateDevice(ctx context.Context, device *models.ConnectedDevice) (*models.ConnectedDevice, error)
	ListDevices(ctx context.Context, userID int64) ([]*models.ConnectedDevice, error)
	UpdateDeviceStatus(ctx context.Context, id int64, userID int64, status string) error
	TouchDevice(ctx context.Context, userID int64, deviceName string) error
	DeleteDevice(ctx context.Context, id int64, userID int64) error
	UpsertDevice(ctx context.Context, device *models.ConnectedDevice) error

	CreateAccessLog(ctx context.Context, log *models.AccessLog) error
	ListAccessLogs(ctx context.Context, userID int64, limit int) ([]*models.AccessLog, error)
}
