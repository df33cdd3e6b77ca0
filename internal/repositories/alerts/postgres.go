package alerts

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

// DeleteAllForUser clears the owner's alert set. Deleting zero rows is fine:
// the owner may simply have no alerts yet.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query :=
		`DELETE FROM expiration_alerts
		 WHERE user_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, alert *models.ExpirationAlert) (*models.ExpirationAlert, error) {
	query :=
		`INSERT INTO expiration_alerts (user_id, password_id, service, expiration_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		alert.UserID, alert.SecretID, alert.Service, alert.ExpirationDate, alert.Status).
		Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return alert, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.ExpirationAlert, error) {
	query :=
		`SELECT id, user_id, password_id, service, expiration_date, status, created_at, updated_at
		 FROM expiration_alerts
		 WHERE user_id = $1
		 ORDER BY expiration_date
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ExpirationAlert
	for rows.Next() {
		a := &models.ExpirationAlert{}
		err := rows.Scan(&a.ID, &a.UserID, &a.SecretID, &a.Service, &a.ExpirationDate,
			&a.Status, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM expiration_alerts
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

func (r *PostgresRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	query :=
		`INSERT INTO notifications (user_id, title, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	query :=
		`SELECT id, user_id, title, message, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1 AND (NOT $2 OR is_read = FALSE)
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, id int64, userID int64) error {
	query :=
		`UPDATE notifications SET is_read = TRUE
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
