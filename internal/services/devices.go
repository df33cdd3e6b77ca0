package services

import (
	"context"
	"fmt"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// Device statuses.
const (
	DeviceStatusActive  = "active"
	DeviceStatusRevoked = "revoked"
)

// RegisterDevice adds a device to the account and audits the insert.
func (s *Vault) RegisterDevice(ctx context.Context, userID int64, name, deviceType string) (*models.ConnectedDevice, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: device name is required", common.ErrValidation)
	}

	device := &models.ConnectedDevice{
		UserID:     userID,
		DeviceName: name,
		DeviceType: deviceType,
		Status:     DeviceStatusActive,
	}

	err := s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Devices(tx).CreateDevice(ctx, device); err != nil {
			return mapStoreError(err)
		}
		return s.recordInsert(ctx, tx, models.TableDevices, device.ID, userID, device)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "device registered", "user_id", userID, "device", name)
	return device, nil
}

// ListDevices returns the account's devices, most recently seen first.
func (s *Vault) ListDevices(ctx context.Context, userID int64) ([]*models.ConnectedDevice, error) {
	return s.repos.Devices(s.db).ListDevices(ctx, userID)
}

// SetDeviceStatus flips a device between active and revoked, snapshotting
// and auditing the change.
func (s *Vault) SetDeviceStatus(ctx context.Context, userID int64, id int64, status string) error {
	if status != DeviceStatusActive && status != DeviceStatusRevoked {
		return fmt.Errorf("%w: unknown device status %q", common.ErrValidation, status)
	}

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Devices(tx)

		devices, err := repo.ListDevices(ctx, userID)
		if err != nil {
			return err
		}
		var old *models.ConnectedDevice
		for _, d := range devices {
			if d.ID == id {
				old = d
				break
			}
		}
		if old == nil {
			return common.ErrNotFoundOrUnauthorized
		}

		if err := s.backupSnapshot(ctx, tx, models.TableDevices, id, userID, old); err != nil {
			return err
		}
		if err := repo.UpdateDeviceStatus(ctx, id, userID, status); err != nil {
			return err
		}

		next := *old
		next.Status = status
		return s.recordUpdate(ctx, tx, models.TableDevices, id, userID, old, &next)
	})
}

// RemoveDevice deletes a device registration after snapshotting it.
func (s *Vault) RemoveDevice(ctx context.Context, userID int64, id int64, confirm bool) error {
	if !confirm {
		return common.ErrConfirmationRequired
	}

	return s.runTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Devices(tx)

		devices, err := repo.ListDevices(ctx, userID)
		if err != nil {
			return err
		}
		var old *models.ConnectedDevice
		for _, d := range devices {
			if d.ID == id {
				old = d
				break
			}
		}
		if old == nil {
			return common.ErrNotFoundOrUnauthorized
		}

		if err := s.backupSnapshot(ctx, tx, models.TableDevices, id, userID, old); err != nil {
			return err
		}
		if err := repo.DeleteDevice(ctx, id, userID); err != nil {
			return err
		}
		return s.recordDelete(ctx, tx, models.TableDevices, id, userID, old)
	})
}

// ListAccessLogs returns the account's most recent authentication events.
func (s *Vault) ListAccessLogs(ctx context.Context, userID int64, limit int) ([]*models.AccessLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repos.Devices(s.db).ListAccessLogs(ctx, userID, limit)
}
