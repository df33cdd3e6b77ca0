package secrets

import (
	"context"
	"database/sql"
	"errors"
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

const secretColumns = `id, user_id, service, username, encrypted_value, nonce,
	expiration_date, password_strength, created_at, updated_at`

func scanSecret(row interface{ Scan(...any) error }) (*models.Secret, error) {
	s := &models.Secret{}
	err := row.Scan(&s.ID, &s.UserID, &s.Service, &s.Username, &s.EncryptedValue, &s.Nonce,
		&s.ExpirationDate, &s.Strength, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	query :=
		`INSERT INTO passwords (user_id, service, username, encrypted_value, nonce, expiration_date, password_strength)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		secret.UserID, secret.Service, secret.Username, secret.EncryptedValue, secret.Nonce,
		secret.ExpirationDate, secret.Strength).
		Scan(&secret.ID, &secret.CreatedAt, &secret.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return secret, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, userID int64) (*models.Secret, error) {
	query :=
		`SELECT ` + secretColumns + ` FROM passwords
		 WHERE id = $1 AND user_id = $2
		 `

	s, err := scanSecret(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.Secret, error) {
	query :=
		`SELECT ` + secretColumns + ` FROM passwords
		 WHERE user_id = $1
		 ORDER BY service, username
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		s, err := scanSecret(rows)
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

// ListExpiring returns the owner's secrets that carry an expiration date,
// soonest first. Secrets without a date are not expiration candidates.
func (r *PostgresRepository) ListExpiring(ctx context.Context, userID int64) ([]*models.Secret, error) {
	query :=
		`SELECT ` + secretColumns + ` FROM passwords
		 WHERE user_id = $1 AND expiration_date IS NOT NULL
		 ORDER BY expiration_date
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		s, err := scanSecret(rows)
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

func (r *PostgresRepository) Update(ctx context.Context, secret *models.Secret) error {
	query :=
		`UPDATE passwords SET
		   service = $1, username = $2, encrypted_value = $3, nonce = $4,
		   expiration_date = $5, password_strength = $6, updated_at = now()
		 WHERE id = $7 AND user_id = $8
		 `

	res, err := r.db.ExecContext(ctx, query,
		secret.Service, secret.Username, secret.EncryptedValue, secret.Nonce,
		secret.ExpirationDate, secret.Strength, secret.ID, secret.UserID)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM passwords
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

// Upsert writes a secret row verbatim, keeping its original ID. Used by the
// restore flow, which must overwrite current state with a snapshot.
func (r *PostgresRepository) Upsert(ctx context.Context, secret *models.Secret) error {
	query :=
		`INSERT INTO passwords
		   (id, user_id, service, username, encrypted_value, nonce, expiration_date, password_strength, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (id) DO UPDATE SET
		   service = EXCLUDED.service,
		   username = EXCLUDED.username,
		   encrypted_value = EXCLUDED.encrypted_value,
		   nonce = EXCLUDED.nonce,
		   expiration_date = EXCLUDED.expiration_date,
		   password_strength = EXCLUDED.password_strength,
		   updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		secret.ID, secret.UserID, secret.Service, secret.Username, secret.EncryptedValue, secret.Nonce,
		secret.ExpirationDate, secret.Strength, secret.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
