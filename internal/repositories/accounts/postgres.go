package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.Email, account.PasswordHash).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE username = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE id = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	query :=
		`UPDATE users SET password_hash = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, hash, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) CreateKey(ctx context.Context, key *models.AccountKey) error {
	query :=
		`INSERT INTO account_keys (user_id, salt, wrapped_key, nonce)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, key.UserID, key.Salt, key.WrappedKey, key.Nonce)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetKey(ctx context.Context, userID int64) (*models.AccountKey, error) {
	query :=
		`SELECT user_id, salt, wrapped_key, nonce FROM account_keys
		 WHERE user_id = $1
		 `

	key := &models.AccountKey{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&key.UserID, &key.Salt, &key.WrappedKey, &key.Nonce)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return key, nil
}

func (r *PostgresRepository) UpdateKey(ctx context.Context, key *models.AccountKey) error {
	query :=
		`UPDATE account_keys SET salt = $1, wrapped_key = $2, nonce = $3
		 WHERE user_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, key.Salt, key.WrappedKey, key.Nonce, key.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO user_profiles (user_id, full_name, phone)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, profile.UserID, profile.FullName, profile.Phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	query :=
		`SELECT p.user_id, u.username, u.email, p.full_name, p.phone
		 FROM user_profiles p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = $1
		 `

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Username, &profile.Email, &profile.FullName, &profile.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO user_profiles (user_id, full_name, phone)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   phone = EXCLUDED.phone
		 `

	_, err := r.db.ExecContext(ctx, query, profile.UserID, profile.FullName, profile.Phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateSettings(ctx context.Context, settings *models.Settings) error {
	query :=
		`INSERT INTO user_settings (user_id, dark_mode, notifications_enabled)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, settings.UserID, settings.DarkMode, settings.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	query :=
		`SELECT user_id, dark_mode, notifications_enabled FROM user_settings
		 WHERE user_id = $1
		 `

	settings := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID, &settings.DarkMode, &settings.NotificationsEnabled)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return settings, nil
}

func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings *models.Settings) error {
	query :=
		`INSERT INTO user_settings (user_id, dark_mode, notifications_enabled)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		   dark_mode = EXCLUDED.dark_mode,
		   notifications_enabled = EXCLUDED.notifications_enabled
		 `

	_, err := r.db.ExecContext(ctx, query, settings.UserID, settings.DarkMode, settings.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreatePreferences(ctx context.Context, prefs *models.Preferences) error {
	query :=
		`INSERT INTO user_preferences
		   (user_id, password_length, auto_lock_timeout, require_uppercase,
		    require_numbers, require_special_chars, default_sharing_method, password_check_interval)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID, prefs.PasswordLength, prefs.AutoLockTimeout, prefs.RequireUppercase,
		prefs.RequireNumbers, prefs.RequireSpecialChars, prefs.DefaultSharingMethod, prefs.PasswordCheckInterval)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	query :=
		`SELECT user_id, password_length, auto_lock_timeout, require_uppercase,
		        require_numbers, require_special_chars, default_sharing_method, password_check_interval
		 FROM user_preferences
		 WHERE user_id = $1
		 `

	prefs := &models.Preferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.PasswordLength, &prefs.AutoLockTimeout, &prefs.RequireUppercase,
		&prefs.RequireNumbers, &prefs.RequireSpecialChars, &prefs.DefaultSharingMethod, &prefs.PasswordCheckInterval)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return prefs, nil
}

func (r *PostgresRepository) UpsertPreferences(ctx context.Context, prefs *models.Preferences) error {
	query :=
		`INSERT INTO user_preferences
		   (user_id, password_length, auto_lock_timeout, require_uppercase,
		    require_numbers, require_special_chars, default_sharing_method, password_check_interval)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		   password_length = EXCLUDED.password_length,
		   auto_lock_timeout = EXCLUDED.auto_lock_timeout,
		   require_uppercase = EXCLUDED.require_uppercase,
		   require_numbers = EXCLUDED.require_numbers,
		   require_special_chars = EXCLUDED.require_special_chars,
		   default_sharing_method = EXCLUDED.default_sharing_method,
		   password_check_interval = EXCLUDED.password_check_interval
		 `

	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID, prefs.PasswordLength, prefs.AutoLockTimeout, prefs.RequireUppercase,
		prefs.RequireNumbers, prefs.RequireSpecialChars, prefs.DefaultSharingMethod, prefs.PasswordCheckInterval)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
