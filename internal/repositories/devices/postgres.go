package devices

import (
	"context"
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

func (r *PostgresRepository) CreateDevice(ctx context.Context, device *models.ConnectedDevice) (*models.ConnectedDevice, error) {
	query :=
		`INSERT INTO connected_devices (user_id, device_name, device_type, status, last_seen)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, last_seen, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		device.UserID, device.DeviceName, device.DeviceType, device.Status).
		Scan(&device.ID, &device.LastSeen, &device.CreatedAt, &device.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

func (r *PostgresRepository) ListDevices(ctx context.Context, userID int64) ([]*models.ConnectedDevice, error) {
	query :=
		`SELECT id, user_id, device_name, device_type, status, last_seen, created_at, updated_at
		 FROM connected_devices
		 WHERE user_id = $1
		 ORDER BY last_seen DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ConnectedDevice
	for rows.Next() {
		d := &models.ConnectedDevice{}
		err := rows.Scan(&d.ID, &d.UserID, &d.DeviceName, &d.DeviceType, &d.Status,
			&d.LastSeen, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateDeviceStatus(ctx context.Context, id int64, userID int64, status string) error {
	query :=
		`UPDATE connected_devices SET status = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, status, id, userID)
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

// TouchDevice refreshes last_seen for a named device on login. Unknown
// device names are not an error; the login flow registers them separately.
func (r *PostgresRepository) TouchDevice(ctx context.Context, userID int64, deviceName string) error {
	query :=
		`UPDATE connected_devices SET last_seen = now(), updated_at = now()
		 WHERE user_id = $1 AND device_name = $2
		 `

	_, err := r.db.ExecContext(ctx, query, userID, deviceName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteDevice(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM connected_devices
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

func (r *PostgresRepository) UpsertDevice(ctx context.Context, device *models.ConnectedDevice) error {
	query :=
		`INSERT INTO connected_devices (id, user_id, device_name, device_type, status, last_seen, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (id) DO UPDATE SET
		   device_name = EXCLUDED.device_name,
		   device_type = EXCLUDED.device_type,
		   status = EXCLUDED.status,
		   last_seen = EXCLUDED.last_seen,
		   updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		device.ID, device.UserID, device.DeviceName, device.DeviceType, device.Status,
		device.LastSeen, device.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateAccessLog(ctx context.Context, log *models.AccessLog) error {
	query :=
		`INSERT INTO access_logs (user_id, device_name, ip_address, location)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, access_time
		 `

	err := r.db.QueryRowContext(ctx, query,
		log.UserID, log.DeviceName, log.IPAddress, log.Location).Scan(&log.ID, &log.AccessTime)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListAccessLogs(ctx context.Context, userID int64, limit int) ([]*models.AccessLog, error) {
	query :=
		`SELECT id, user_id, device_name, ip_address, location, access_time
		 FROM access_logs
		 WHERE user_id = $1
		 ORDER BY access_time DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AccessLog
	for rows.Next() {
		l := &models.AccessLog{}
		err := rows.Scan(&l.ID, &l.UserID, &l.DeviceName, &l.IPAddress, &l.Location, &l.AccessTime)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
