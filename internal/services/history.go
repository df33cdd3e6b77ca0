package services

import (
	"context"
	"strconv"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/repositories/audit"
)

// ListAuditLog returns ledger entries matching the filter. The owner is
// always enforced on the filter, whatever the caller passed.
func (s *Vault) ListAuditLog(ctx context.Context, userID int64, filter audit.Filter) ([]*models.AuditEntry, error) {
	filter.UserID = userID
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repos.Audit(s.db).List(ctx, filter)
}

// ClearAuditLog deletes the owner's whole ledger and returns how many
// entries were removed. The deletion itself is recorded, so the ledger is
// never silently empty.
func (s *Vault) ClearAuditLog(ctx context.Context, userID int64, confirm bool) (int64, error) {
	if !confirm {
		return 0, common.ErrConfirmationRequired
	}

	var deleted int64

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repos.Audit(tx).DeleteAllForUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = n

		details := []byte(`{"cleared_entries":` + strconv.FormatInt(n, 10) + `}`)
		return s.repos.Audit(tx).Create(ctx, &models.AuditEntry{
			TableName:     "audit_logs",
			Action:        models.ActionDelete,
			RecordID:      userID,
			UserID:        userID,
			ChangeDetails: details,
		})
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "audit log cleared", "user_id", userID, "deleted", deleted)
	return deleted, nil
}
