package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsavel/passvault/internal/blob"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/cryptox"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// AddFile encrypts the content with the account's data key and stores it.
// With a blob store configured the ciphertext goes there and the row keeps
// only metadata; otherwise the ciphertext is stored inline.
func (s *Vault) AddFile(ctx context.Context, userID int64, dataKey []byte, fileName string, content []byte) (*models.File, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrValidation)
	}

	ciphertext, nonce, err := cryptox.Encrypt(dataKey, content)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:        userID,
		FileName:      fileName,
		Nonce:         nonce,
		PlaintextSize: int64(len(content)),
	}

	if s.blobs != nil {
		key := blob.NewStorageKey(userID)
		if err := s.blobs.Put(ctx, key, ciphertext); err != nil {
			return nil, err
		}
		file.StorageKey = key
	} else {
		file.Ciphertext = ciphertext
	}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Files(tx).Create(ctx, file); err != nil {
			return mapStoreError(err)
		}
		return s.recordInsert(ctx, tx, models.TableFileVault, file.ID, userID, file)
	})
	if err != nil {
		// The row never landed; don't leave the blob orphaned.
		if file.StorageKey != "" {
			if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
				s.log.Warn(ctx, "failed to delete orphaned blob", "key", file.StorageKey, "error", delErr)
			}
		}
		return nil, err
	}

	s.log.Info(ctx, "file added", "user_id", userID, "file_id", file.ID, "size", file.PlaintextSize)
	return file, nil
}

// GetFile fetches and decrypts one file's content.
func (s *Vault) GetFile(ctx context.Context, userID int64, dataKey []byte, id int64) (*models.File, []byte, error) {
	file, err := s.repos.Files(s.db).GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFoundOrUnauthorized
		}
		return nil, nil, err
	}

	ciphertext := file.Ciphertext
	if file.StorageKey != "" {
		if s.blobs == nil {
			return nil, nil, fmt.Errorf("%w: file is offloaded but no blob store is configured", common.ErrInternal)
		}
		ciphertext, err = s.blobs.Get(ctx, file.StorageKey)
		if err != nil {
			return nil, nil, err
		}
	}

	plaintext, err := cryptox.Decrypt(dataKey, ciphertext, file.Nonce)
	if err != nil {
		return nil, nil, err
	}

	return file, plaintext, nil
}

// ListFiles returns the owner's file metadata.
func (s *Vault) ListFiles(ctx context.Context, userID int64) ([]*models.File, error) {
	return s.repos.Files(s.db).List(ctx, userID)
}

// DeleteFile removes a file row after snapshotting it, then best-effort
// deletes the offloaded blob once the transaction has committed.
func (s *Vault) DeleteFile(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	var storageKey string

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Files(tx)

		old, err := repo.GetByID(ctx, id, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFoundOrUnauthorized
			}
			return err
		}
		storageKey = old.StorageKey

		if err := s.backupSnapshot(ctx, tx, models.TableFileVault, id, userID, snapshotFile(old)); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id, userID); err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, models.TableFileVault, id, userID, old)
	})
	if err != nil {
		return err
	}

	if storageKey != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, storageKey); err != nil {
			s.log.Warn(ctx, "failed to delete blob for removed file", "key", storageKey, "error", err)
		}
	}

	s.log.Info(ctx, "file deleted", "user_id", userID, "file_id", id)
	return nil
}
