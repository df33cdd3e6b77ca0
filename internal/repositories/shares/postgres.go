package shares

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

func (r *PostgresRepository) CreateQRCode(ctx context.Context, qr *models.QRCode) (*models.QRCode, error) {
	query :=
		`INSERT INTO qr_codes (user_id, service, username, qr_code_data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		qr.UserID, qr.Service, qr.Username, qr.Data).Scan(&qr.ID, &qr.CreatedAt, &qr.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return qr, nil
}

func (r *PostgresRepository) ListQRCodes(ctx context.Context, userID int64) ([]*models.QRCode, error) {
	query :=
		`SELECT id, user_id, service, username, qr_code_data, created_at, updated_at
		 FROM qr_codes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.QRCode
	for rows.Next() {
		qr := &models.QRCode{}
		err := rows.Scan(&qr.ID, &qr.UserID, &qr.Service, &qr.Username, &qr.Data, &qr.CreatedAt, &qr.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteQRCode(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM qr_codes
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

func (r *PostgresRepository) UpsertQRCode(ctx context.Context, qr *models.QRCode) error {
	query :=
		`INSERT INTO qr_codes (id, user_id, service, username, qr_code_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO UPDATE SET
		   service = EXCLUDED.service,
		   username = EXCLUDED.username,
		   qr_code_data = EXCLUDED.qr_code_data,
		   updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		qr.ID, qr.UserID, qr.Service, qr.Username, qr.Data, qr.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateShare(ctx context.Context, share *models.SharedPassword) (*models.SharedPassword, error) {
	query :=
		`INSERT INTO shared_passwords (user_id, service, recipient, shared_date, share_status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.UserID, share.Service, share.Recipient, share.SharedDate, share.ShareStatus).
		Scan(&share.ID, &share.CreatedAt, &share.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return share, nil
}

func (r *PostgresRepository) ListShares(ctx context.Context, userID int64) ([]*models.SharedPassword, error) {
	query :=
		`SELECT id, user_id, service, recipient, shared_date, share_status, created_at, updated_at
		 FROM shared_passwords
		 WHERE user_id = $1
		 ORDER BY shared_date DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SharedPassword
	for rows.Next() {
		s := &models.SharedPassword{}
		err := rows.Scan(&s.ID, &s.UserID, &s.Service, &s.Recipient, &s.SharedDate,
			&s.ShareStatus, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateShareStatus(ctx context.Context, id int64, userID int64, status string) error {
	query :=
		`UPDATE shared_passwords SET share_status = $1, updated_at = now()
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

func (r *PostgresRepository) DeleteShare(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM shared_passwords
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

func (r *PostgresRepository) UpsertShare(ctx context.Context, share *models.SharedPassword) error {
	query :=
		`INSERT INTO shared_passwords (id, user_id, service, recipient, shared_date, share_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (id) DO UPDATE SET
		   service = EXCLUDED.service,
		   recipient = EXCLUDED.recipient,
		   shared_date = EXCLUDED.shared_date,
		   share_status = EXCLUDED.share_status,
		   updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		share.ID, share.UserID, share.Service, share.Recipient, share.SharedDate, share.ShareStatus, share.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
