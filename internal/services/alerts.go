package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// expiringSoonWindow is how far ahead a secret's expiration date may lie and
// still raise an Expiring Soon alert.
const expiringSoonWindow = 7 * 24 * time.Hour

// RefreshAlerts recomputes the owner's expiration alerts from scratch: the
// existing alert set is deleted, every secret with an expiration date is
// reclassified against the current instant, and one notification is raised
// per alert. The whole pass is one transaction, so readers never observe a
// half-rebuilt alert set.
//
// Classification: a date strictly before now is Expired; a date within the
// next seven days (inclusive) is Expiring Soon; anything later raises no
// alert.
func (s *Vault) RefreshAlerts(ctx context.Context, userID int64) ([]*models.ExpirationAlert, error) {
	now := s.now()
	var result []*models.ExpirationAlert

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		result = result[:0]

		alertRepo := s.repos.Alerts(tx)
		if err := alertRepo.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}

		candidates, err := s.repos.Secrets(tx).ListExpiring(ctx, userID)
		if err != nil {
			return err
		}

		for _, secret := range candidates {
			exp := *secret.ExpirationDate

			var status string
			switch {
			case exp.Before(now):
				status = models.AlertStatusExpired
			case !exp.After(now.Add(expiringSoonWindow)):
				status = models.AlertStatusExpiringSoon
			default:
				continue
			}

			alert := &models.ExpirationAlert{
				UserID:         userID,
				SecretID:       secret.ID,
				Service:        secret.Service,
				ExpirationDate: exp,
				Status:         status,
			}
			if _, err := alertRepo.Create(ctx, alert); err != nil {
				return err
			}

			notification := &models.Notification{
				UserID:  userID,
				Title:   fmt.Sprintf("Password %s", status),
				Message: notificationMessage(secret.Service, status, exp),
			}
			if err := alertRepo.CreateNotification(ctx, notification); err != nil {
				return err
			}

			result = append(result, alert)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "alerts refreshed", "user_id", userID, "alerts", len(result))
	return result, nil
}

func notificationMessage(service, status string, exp time.Time) string {
	if status == models.AlertStatusExpired {
		return fmt.Sprintf("Your password for %s expired on %s.", service, exp.Format("2006-01-02"))
	}
	return fmt.Sprintf("Your password for %s expires on %s.", service, exp.Format("2006-01-02"))
}

// ListAlerts returns the owner's current alert set, soonest expiry first.
func (s *Vault) ListAlerts(ctx context.Context, userID int64) ([]*models.ExpirationAlert, error) {
	return s.repos.Alerts(s.db).List(ctx, userID)
}

// DeleteAlert dismisses one alert. Alerts are derived state, so the delete
// is neither snapshotted nor audited; the next refresh recreates the alert
// if the underlying expiry still warrants it.
func (s *Vault) DeleteAlert(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	err := s.repos.Alerts(s.db).Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFoundOrUnauthorized
		}
		return err
	}
	return nil
}

// ListNotifications returns the owner's notifications, newest first.
func (s *Vault) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	return s.repos.Alerts(s.db).ListNotifications(ctx, userID, unreadOnly)
}

// MarkNotificationRead marks one notification as read.
func (s *Vault) MarkNotificationRead(ctx context.Context, userID int64, id int64) error {
	return s.repos.Alerts(s.db).MarkNotificationRead(ctx, id, userID)
}
