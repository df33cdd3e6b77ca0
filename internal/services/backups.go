package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// ListBackups returns the snapshot history of one of the caller's entities,
// most recent first. Snapshots of other accounts are never visible.
func (s *Vault) ListBackups(ctx context.Context, userID int64, tableName string, recordID int64) ([]*models.BackupEntry, error) {
	return s.repos.Backups(s.db).List(ctx, userID, tableName, recordID)
}

// ListRecentBackups returns the caller's newest snapshots across all
// entities.
func (s *Vault) ListRecentBackups(ctx context.Context, userID int64, limit int) ([]*models.BackupEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repos.Backups(s.db).ListRecent(ctx, userID, limit)
}

// BackupAccountData snapshots the account's profile, settings and
// preferences in one transaction, giving an explicit restore point ahead of
// risky changes. Rows that do not exist yet are skipped. Returns how many
// snapshots were written.
func (s *Vault) BackupAccountData(ctx context.Context, userID int64) (int, error) {
	var written int

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		written = 0
		repo := s.repos.Accounts(tx)

		if profile, err := repo.GetProfile(ctx, userID); err == nil {
			if err := s.backupSnapshot(ctx, tx, models.TableProfiles, userID, userID, profile); err != nil {
				return err
			}
			written++
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		if settings, err := repo.GetSettings(ctx, userID); err == nil {
			if err := s.backupSnapshot(ctx, tx, models.TableSettings, userID, userID, settings); err != nil {
				return err
			}
			written++
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		if prefs, err := repo.GetPreferences(ctx, userID); err == nil {
			if err := s.backupSnapshot(ctx, tx, models.TablePreferences, userID, userID, prefs); err != nil {
				return err
			}
			written++
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "account data backed up", "user_id", userID, "snapshots", written)
	return written, nil
}

// Restore overwrites an entity's current state with a stored snapshot,
// dispatching on the snapshot's table name. The snapshot must belong to the
// calling account; a foreign snapshot behaves as if it did not exist.
//
// A restore is itself a mutation of live state but is deliberately not
// audited or re-backed-up: the snapshot already exists, and replaying it
// must stay idempotent.
func (s *Vault) Restore(ctx context.Context, userID int64, backupID int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	entry, err := s.repos.Backups(s.db).GetByID(ctx, backupID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return common.ErrNotFoundOrUnauthorized
	}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.restoreEntry(ctx, tx, userID, entry)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "snapshot restored", "user_id", userID, "backup_id", backupID, "table", entry.TableName)
	return nil
}

// restoreEntry dispatches a snapshot to the owning repository. Every branch
// checks the snapshot's user_id before writing anything.
func (s *Vault) restoreEntry(ctx context.Context, tx dbx.DBTX, userID int64, entry *models.BackupEntry) error {
	switch entry.TableName {

	case models.TableProfiles:
		profile := &models.Profile{}
		if err := json.Unmarshal(entry.Data, profile); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if profile.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Accounts(tx).UpsertProfile(ctx, profile)

	case models.TableSettings:
		settings := &models.Settings{}
		if err := json.Unmarshal(entry.Data, settings); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if settings.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Accounts(tx).UpsertSettings(ctx, settings)

	case models.TablePreferences:
		prefs := &models.Preferences{}
		if err := json.Unmarshal(entry.Data, prefs); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if prefs.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Accounts(tx).UpsertPreferences(ctx, prefs)

	case models.TablePasswords:
		snap := &secretSnapshot{}
		if err := json.Unmarshal(entry.Data, snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if snap.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Secrets(tx).Upsert(ctx, snap.toModel())

	case models.TableFileVault:
		snap := &fileSnapshot{}
		if err := json.Unmarshal(entry.Data, snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if snap.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Files(tx).Upsert(ctx, snap.toModel())

	case models.TableQRCodes:
		qr := &models.QRCode{}
		if err := json.Unmarshal(entry.Data, qr); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if qr.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Shares(tx).UpsertQRCode(ctx, qr)

	case models.TableSharedPasswords:
		share := &models.SharedPassword{}
		if err := json.Unmarshal(entry.Data, share); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if share.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Shares(tx).UpsertShare(ctx, share)

	case models.TableDevices:
		device := &models.ConnectedDevice{}
		if err := json.Unmarshal(entry.Data, device); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if device.UserID != userID {
			return common.ErrNotFoundOrUnauthorized
		}
		return s.repos.Devices(tx).UpsertDevice(ctx, device)

	default:
		return fmt.Errorf("%w: no restore handler for table %q", common.ErrValidation, entry.TableName)
	}
}
