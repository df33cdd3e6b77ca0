package shares

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository covers both sharing channels: QR code records and secure-link
// share records.
type Repository interface {
	CreateQRCode(ctx context.Context, qr *models.QRCode) (*models.QRCode, error)
	ListQRCodes(ctx context.Context, userID int64) ([]*models.QRCode, error)
	DeleteQRCode(ctx context.Context, id int64, userID int64) error
	UpsertQRCode(ctx context.Context, qr *models.QRCode) error

	CreateShare(ctx context.Context, share *models.SharedPassword) (*models.SharedPassword, error)
	ListShares(ctx context.Context, userID int64) ([]*models.SharedPassword, error)
	UpdateShareStatus(ctx context.Context, id int64, userID int64, status string) error
	DeleteShare(ctx context.Context, id int64, userID int64) error
	UpsertShare(ctx context.Context, share *models.SharedPassword) error
}
