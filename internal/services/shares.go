package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// Share statuses for secure-link shares.
const (
	ShareStatusActive  = "active"
	ShareStatusRevoked = "revoked"
)

// ShareViaQRCode decrypts the secret and records a QR share holding the
// payload to encode. The payload is the plaintext credential: a QR code is
// only ever rendered locally for the owner to show, never stored rendered.
func (s *Vault) ShareViaQRCode(ctx context.Context, userID int64, dataKey []byte, secretID int64) (*models.QRCode, error) {
	secret, err := s.GetSecret(ctx, userID, dataKey, secretID)
	if err != nil {
		return nil, err
	}

	qr := &models.QRCode{
		UserID:   userID,
		Service:  secret.Service,
		Username: secret.Username,
		Data:     fmt.Sprintf("service:%s\nusername:%s\npassword:%s", secret.Service, secret.Username, secret.Value),
	}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Shares(tx).CreateQRCode(ctx, qr); err != nil {
			return mapStoreError(err)
		}
		return s.recordInsert(ctx, tx, models.TableQRCodes, qr.ID, userID, qr)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "qr share created", "user_id", userID, "secret_id", secretID)
	return qr, nil
}

// ListQRCodes returns the owner's QR share records.
func (s *Vault) ListQRCodes(ctx context.Context, userID int64) ([]*models.QRCode, error) {
	return s.repos.Shares(s.db).ListQRCodes(ctx, userID)
}

// DeleteQRCode removes a QR share record after snapshotting it.
func (s *Vault) DeleteQRCode(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Shares(tx)

		codes, err := repo.ListQRCodes(ctx, userID)
		if err != nil {
			return err
		}
		var old *models.QRCode
		for _, qr := range codes {
			if qr.ID == id {
				old = qr
				break
			}
		}
		if old == nil {
			return common.ErrNotFoundOrUnauthorized
		}

		if err := s.backupSnapshot(ctx, tx, models.TableQRCodes, id, userID, old); err != nil {
			return err
		}
		if err := repo.DeleteQRCode(ctx, id, userID); err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, models.TableQRCodes, id, userID, old)
	})
}

// ShareViaLink records a secure-link share of a secret with a recipient.
// The share row holds no credential material; it is the audit trail of who
// was given access to what, when.
func (s *Vault) ShareViaLink(ctx context.Context, userID int64, secretID int64, recipient string) (*models.SharedPassword, error) {
	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", common.ErrValidation)
	}

	secret, err := s.repos.Secrets(s.db).GetByID(ctx, secretID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFoundOrUnauthorized
		}
		return nil, err
	}

	share := &models.SharedPassword{
		UserID:      userID,
		Service:     secret.Service,
		Recipient:   recipient,
		SharedDate:  s.now(),
		ShareStatus: ShareStatusActive,
	}

	err = s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Shares(tx).CreateShare(ctx, share); err != nil {
			return mapStoreError(err)
		}
		return s.recordInsert(ctx, tx, models.TableSharedPasswords, share.ID, userID, share)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "secret shared", "user_id", userID, "secret_id", secretID, "recipient", recipient)
	return share, nil
}

// ListShares returns the owner's secure-link share records.
func (s *Vault) ListShares(ctx context.Context, userID int64) ([]*models.SharedPassword, error) {
	return s.repos.Shares(s.db).ListShares(ctx, userID)
}

// RevokeShare flips a share to revoked, snapshotting and auditing the change.
func (s *Vault) RevokeShare(ctx context.Context, userID int64, id int64) error {
	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Shares(tx)

		shares, err := repo.ListShares(ctx, userID)
		if err != nil {
			return err
		}
		var old *models.SharedPassword
		for _, sh := range shares {
			if sh.ID == id {
				old = sh
				break
			}
		}
		if old == nil {
			return common.ErrNotFoundOrUnauthorized
		}

		if err := s.backupSnapshot(ctx, tx, models.TableSharedPasswords, id, userID, old); err != nil {
			return err
		}
		if err := repo.UpdateShareStatus(ctx, id, userID, ShareStatusRevoked); err != nil {
			return err
		}

		next := *old
		next.ShareStatus = ShareStatusRevoked
		return s.recordUpdate(ctx, tx, models.TableSharedPasswords, id, userID, old, &next)
	})
}

// DeleteShare removes a secure-link share record entirely, snapshotting it
// first. Prefer RevokeShare when the trail should stay visible.
func (s *Vault) DeleteShare(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Shares(tx)

		shares, err := repo.ListShares(ctx, userID)
		if err != nil {
			return err
		}
		var old *models.SharedPassword
		for _, sh := range shares {
			if sh.ID == id {
				old = sh
				break
			}
		}
		if old == nil {
			return common.ErrNotFoundOrUnauthorized
		}

		if err := s.backupSnapshot(ctx, tx, models.TableSharedPasswords, id, userID, old); err != nil {
			return err
		}
		if err := repo.DeleteShare(ctx, id, userID); err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, models.TableSharedPasswords, id, userID, old)
	})
}

// QRPayload returns the payload of one QR share so the caller can render
// the image locally.
func (s *Vault) QRPayload(ctx context.Context, userID int64, id int64) (string, error) {
	codes, err := s.repos.Shares(s.db).ListQRCodes(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, qr := range codes {
		if qr.ID == id {
			return qr.Data, nil
		}
	}
	return "", common.ErrNotFoundOrUnauthorized
}
