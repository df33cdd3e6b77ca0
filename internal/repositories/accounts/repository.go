package accounts

import (
	"context"

	"github.com/dsavel/passvault/internal/models"
)

// Repository covers the account aggregate: the users row, the wrapped
// encryption key, and the profile, settings and preferences rows that are
// provisioned alongside it.
type Repository interface {
	CreateUser(ctx context.Context, account *models.Account) (*models.Account, error)
	GetUserByUsername(ctx context.Context, username string) (*models.Account, error)
	GetUserByID(ctx context.Context, id int64) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error

	CreateKey(ctx context.Context, key *models.AccountKey) error
	GetKey(ctx context.Context, userID int64) (*models.AccountKey, error)
	UpdateKey(ctx context.Context, key *models.AccountKey) error

	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error

	CreateSettings(ctx context.Context, settings *models.Settings) error
	GetSettings(ctx context.Context, userID int64) (*models.Settings, error)
	UpsertSettings(ctx context.Context, settings *models.Settings) error

	CreatePreferences(ctx context.Context, prefs *models.Preferences) error
	GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error)
	UpsertPreferences(ctx context.Context, prefs *models.Preferences) error
}
