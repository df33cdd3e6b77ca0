package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/dsavel/passvault/internal/auth"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/credential"
	"github.com/dsavel/passvault/internal/cryptox"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// Session is the result of a successful authentication: a signed token for
// subsequent calls plus the unwrapped data key, which lives only in memory.
type Session struct {
	Token   string
	UserID  int64
	DataKey []byte
}

// Register creates an account with its wrapped data key, profile, settings
// and preferences in one transaction, and audits the signup. A username or
// email collision yields ErrDuplicateIdentity.
func (s *Vault) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", common.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := credential.Hash(password)
	if err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	dataKey := cryptox.NewDataKey()
	defer common.WipeByteArray(dataKey)

	kek := cryptox.DeriveKEK([]byte(password), salt)
	defer common.WipeByteArray(kek)

	wrapped, nonce, err := cryptox.WrapKey(kek, dataKey)
	if err != nil {
		return nil, err
	}

	account := &models.Account{Username: username, Email: email, PasswordHash: hash}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		if _, err := repo.CreateUser(ctx, account); err != nil {
			return mapStoreError(err)
		}
		if err := repo.CreateKey(ctx, &models.AccountKey{
			UserID: account.ID, Salt: salt, WrappedKey: wrapped, Nonce: nonce,
		}); err != nil {
			return err
		}
		if err := repo.CreateProfile(ctx, &models.Profile{UserID: account.ID}); err != nil {
			return err
		}
		if err := repo.CreateSettings(ctx, models.DefaultSettings(account.ID)); err != nil {
			return err
		}
		if err := repo.CreatePreferences(ctx, models.DefaultPreferences(account.ID)); err != nil {
			return err
		}

		return s.recordInsert(ctx, tx, models.TableUsers, account.ID, account.ID, account)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account registered", "user_id", account.ID, "username", username)
	return account, nil
}

// validatePassword enforces the login-password policy: at least 8 characters
// with an uppercase letter and a digit. The policy applies to the credential
// only; stored secrets are scored, not rejected.
func validatePassword(password string) error {
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len(password) < 8 || !upper || !digit {
		return fmt.Errorf("%w: use at least 8 characters with an uppercase letter and a digit", common.ErrWeakPassword)
	}
	return nil
}

// Authenticate verifies the credentials, unwraps the account's data key and
// issues a session token whose lifetime follows the auto-lock preference.
//
// An unknown username yields ErrNotFound, which is distinct from a password
// mismatch: this is a personal vault, not a multi-tenant service, and the
// caller is told to register rather than left guessing. A stored hash that
// fails its structural check yields ErrCorruptCredential; that account must
// be re-registered.
func (s *Vault) Authenticate(ctx context.Context, username, password, deviceName string) (*Session, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := credential.Verify(password, account.PasswordHash); err != nil {
		return nil, err
	}

	key, err := repo.GetKey(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	kek := cryptox.DeriveKEK([]byte(password), key.Salt)
	defer common.WipeByteArray(kek)

	dataKey, err := cryptox.UnwrapKey(kek, key.WrappedKey, key.Nonce)
	if err != nil {
		return nil, err
	}

	ttl := s.config.SessionTTL
	if prefs, err := repo.GetPreferences(ctx, account.ID); err == nil && prefs.AutoLockTimeout > 0 {
		ttl = time.Duration(prefs.AutoLockTimeout) * time.Minute
	}

	token, err := auth.GenerateToken(account.ID, []byte(s.config.SecretKey), ttl)
	if err != nil {
		return nil, err
	}

	devRepo := s.repos.Devices(s.db)
	if err := devRepo.CreateAccessLog(ctx, &models.AccessLog{
		UserID:     account.ID,
		DeviceName: deviceName,
	}); err != nil {
		s.log.Warn(ctx, "failed to write access log", "error", err)
	}
	if deviceName != "" {
		if err := devRepo.TouchDevice(ctx, account.ID, deviceName); err != nil {
			s.log.Warn(ctx, "failed to touch device", "error", err)
		}
	}

	s.log.Info(ctx, "authentication succeeded", "user_id", account.ID)
	return &Session{Token: token, UserID: account.ID, DataKey: dataKey}, nil
}

// VerifySession validates a session token and returns the account ID.
func (s *Vault) VerifySession(token string) (int64, error) {
	return auth.GetUserIDFromToken(token, []byte(s.config.SecretKey))
}

// Unlock re-derives the data key from the password for operations that need
// plaintext access after the login session was established.
func (s *Vault) Unlock(ctx context.Context, userID int64, password string) ([]byte, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := credential.Verify(password, account.PasswordHash); err != nil {
		return nil, err
	}

	key, err := repo.GetKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	kek := cryptox.DeriveKEK([]byte(password), key.Salt)
	defer common.WipeByteArray(kek)

	return cryptox.UnwrapKey(kek, key.WrappedKey, key.Nonce)
}

// ChangePassword re-hashes the login credential and re-wraps the data key
// under a KEK derived from the new password. Stored secrets are untouched:
// they are encrypted with the data key, not the password.
func (s *Vault) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := credential.Verify(oldPassword, account.PasswordHash); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	key, err := repo.GetKey(ctx, userID)
	if err != nil {
		return err
	}

	oldKek := cryptox.DeriveKEK([]byte(oldPassword), key.Salt)
	defer common.WipeByteArray(oldKek)

	dataKey, err := cryptox.UnwrapKey(oldKek, key.WrappedKey, key.Nonce)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(dataKey)

	newHash, err := credential.Hash(newPassword)
	if err != nil {
		return err
	}

	newSalt := cryptox.NewSalt()
	newKek := cryptox.DeriveKEK([]byte(newPassword), newSalt)
	defer common.WipeByteArray(newKek)

	wrapped, nonce, err := cryptox.WrapKey(newKek, dataKey)
	if err != nil {
		return err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repos.Accounts(tx)
		if err := txRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
			return err
		}
		if err := txRepo.UpdateKey(ctx, &models.AccountKey{
			UserID: userID, Salt: newSalt, WrappedKey: wrapped, Nonce: nonce,
		}); err != nil {
			return err
		}

		details := []byte(`{"changed":"password"}`)
		return s.repos.Audit(tx).Create(ctx, &models.AuditEntry{
			TableName:     models.TableUsers,
			Action:        models.ActionUpdate,
			RecordID:      userID,
			UserID:        userID,
			ChangeDetails: details,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// GetProfile returns the account's profile.
func (s *Vault) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.repos.Accounts(s.db).GetProfile(ctx, userID)
}

// UpdateProfile snapshots the current profile, applies the new values and
// audits the field diff, all in one transaction.
func (s *Vault) UpdateProfile(ctx context.Context, userID int64, profile *models.Profile) error {
	profile.UserID = userID

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		old, err := repo.GetProfile(ctx, userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if old != nil {
			if err := s.backupSnapshot(ctx, tx, models.TableProfiles, userID, userID, old); err != nil {
				return err
			}
		}

		if err := repo.UpsertProfile(ctx, profile); err != nil {
			return err
		}

		if old == nil {
			return s.recordInsert(ctx, tx, models.TableProfiles, userID, userID, profile)
		}
		return s.recordUpdate(ctx, tx, models.TableProfiles, userID, userID, old, profile)
	})
}

// GetSettings returns the account's settings.
func (s *Vault) GetSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	return s.repos.Accounts(s.db).GetSettings(ctx, userID)
}

// UpdateSettings snapshots, upserts and audits the settings change.
func (s *Vault) UpdateSettings(ctx context.Context, userID int64, settings *models.Settings) error {
	settings.UserID = userID

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		old, err := repo.GetSettings(ctx, userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if old != nil {
			if err := s.backupSnapshot(ctx, tx, models.TableSettings, userID, userID, old); err != nil {
				return err
			}
		}

		if err := repo.UpsertSettings(ctx, settings); err != nil {
			return err
		}

		if old == nil {
			return s.recordInsert(ctx, tx, models.TableSettings, userID, userID, settings)
		}
		return s.recordUpdate(ctx, tx, models.TableSettings, userID, userID, old, settings)
	})
}

// GetPreferences returns the account's password-policy preferences.
func (s *Vault) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	return s.repos.Accounts(s.db).GetPreferences(ctx, userID)
}

// UpdatePreferences validates, snapshots, upserts and audits the
// preferences change.
func (s *Vault) UpdatePreferences(ctx context.Context, userID int64, prefs *models.Preferences) error {
	prefs.UserID = userID

	if prefs.PasswordLength < 4 || prefs.PasswordLength > 128 {
		return fmt.Errorf("%w: password length must be between 4 and 128", common.ErrValidation)
	}
	if prefs.AutoLockTimeout <= 0 {
		return fmt.Errorf("%w: auto-lock timeout must be positive", common.ErrValidation)
	}
	if prefs.DefaultSharingMethod != models.SharingMethodQRCode && prefs.DefaultSharingMethod != models.SharingMethodSecureLink {
		return fmt.Errorf("%w: unknown sharing method %q", common.ErrValidation, prefs.DefaultSharingMethod)
	}

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		old, err := repo.GetPreferences(ctx, userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if old != nil {
			if err := s.backupSnapshot(ctx, tx, models.TablePreferences, userID, userID, old); err != nil {
				return err
			}
		}

		if err := repo.UpsertPreferences(ctx, prefs); err != nil {
			return err
		}

		if old == nil {
			return s.recordInsert(ctx, tx, models.TablePreferences, userID, userID, prefs)
		}
		return s.recordUpdate(ctx, tx, models.TablePreferences, userID, userID, old, prefs)
	})
}
