package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/cryptox"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/strength"
)

// AddSecret encrypts the password value with the account's data key, scores
// its strength and stores it, auditing the insert in the same transaction.
func (s *Vault) AddSecret(ctx context.Context, userID int64, dataKey []byte, secret *models.Secret) (*models.Secret, error) {
	secret.UserID = userID
	secret.Service = strings.TrimSpace(secret.Service)

	if secret.Service == "" || secret.Value == "" {
		return nil, fmt.Errorf("%w: service and password are required", common.ErrValidation)
	}

	ciphertext, nonce, err := cryptox.Encrypt(dataKey, []byte(secret.Value))
	if err != nil {
		return nil, err
	}
	secret.EncryptedValue = ciphertext
	secret.Nonce = nonce
	secret.Strength = strength.Score(secret.Value)

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Secrets(tx).Create(ctx, secret); err != nil {
			return mapStoreError(err)
		}
		return s.recordInsert(ctx, tx, models.TablePasswords, secret.ID, userID, secret)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "secret added", "user_id", userID, "secret_id", secret.ID)
	return secret, nil
}

// GetSecret fetches and decrypts one secret. A missing row and a row owned
// by someone else are indistinguishable to the caller.
func (s *Vault) GetSecret(ctx context.Context, userID int64, dataKey []byte, id int64) (*models.Secret, error) {
	secret, err := s.repos.Secrets(s.db).GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFoundOrUnauthorized
		}
		return nil, err
	}

	plaintext, err := cryptox.Decrypt(dataKey, secret.EncryptedValue, secret.Nonce)
	if err != nil {
		return nil, err
	}
	secret.Value = string(plaintext)

	return secret, nil
}

// ListSecrets returns the owner's secrets without decrypting the values.
func (s *Vault) ListSecrets(ctx context.Context, userID int64) ([]*models.Secret, error) {
	return s.repos.Secrets(s.db).List(ctx, userID)
}

// UpdateSecretInput carries the new state for an existing secret. A nil
// Value keeps the stored ciphertext; ClearExpiration removes the date.
type UpdateSecretInput struct {
	Service         string
	Username        string
	Value           *string
	ExpirationDate  *time.Time
	ClearExpiration bool
}

// UpdateSecret snapshots the current row, applies the changes and audits the
// field diff, all in one transaction. The strength label is recomputed
// whenever the value changes.
func (s *Vault) UpdateSecret(ctx context.Context, userID int64, dataKey []byte, id int64, in UpdateSecretInput) (*models.Secret, error) {
	var updated *models.Secret

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Secrets(tx)

		old, err := repo.GetByID(ctx, id, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFoundOrUnauthorized
			}
			return err
		}

		if err := s.backupSnapshot(ctx, tx, models.TablePasswords, id, userID, snapshotSecret(old)); err != nil {
			return err
		}

		next := *old
		var hidden []string
		if in.Service != "" {
			next.Service = in.Service
		}
		if in.Username != "" {
			next.Username = in.Username
		}
		if in.Value != nil {
			hidden = append(hidden, "password_value")
			ciphertext, nonce, err := cryptox.Encrypt(dataKey, []byte(*in.Value))
			if err != nil {
				return err
			}
			next.EncryptedValue = ciphertext
			next.Nonce = nonce
			next.Strength = strength.Score(*in.Value)
		}
		if in.ClearExpiration {
			next.ExpirationDate = nil
		} else if in.ExpirationDate != nil {
			next.ExpirationDate = in.ExpirationDate
		}

		if err := repo.Update(ctx, &next); err != nil {
			return err
		}

		if err := s.recordUpdate(ctx, tx, models.TablePasswords, id, userID, old, &next, hidden...); err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "secret updated", "user_id", userID, "secret_id", id)
	return updated, nil
}

// DeleteSecret removes a secret after snapshotting it. The caller must pass
// confirm=true; destructive operations never run on a default.
func (s *Vault) DeleteSecret(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Secrets(tx)

		old, err := repo.GetByID(ctx, id, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFoundOrUnauthorized
			}
			return err
		}

		if err := s.backupSnapshot(ctx, tx, models.TablePasswords, id, userID, snapshotSecret(old)); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id, userID); err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, models.TablePasswords, id, userID, old)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "secret deleted", "user_id", userID, "secret_id", id)
	return nil
}
