package files

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

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO file_vault (user_id, file_name, ciphertext, nonce, storage_key, file_size)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.FileName, file.Ciphertext, file.Nonce, file.StorageKey, file.PlaintextSize).
		Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, userID int64) (*models.File, error) {
	query :=
		`SELECT id, user_id, file_name, ciphertext, nonce, storage_key, file_size, created_at, updated_at
		 FROM file_vault
		 WHERE id = $1 AND user_id = $2
		 `

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&f.ID, &f.UserID, &f.FileName, &f.Ciphertext, &f.Nonce, &f.StorageKey,
		&f.PlaintextSize, &f.CreatedAt, &f.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

// List returns file metadata for the owner. Ciphertext is omitted so listing
// stays cheap even for large vaults.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, file_name, nonce, storage_key, file_size, created_at, updated_at
		 FROM file_vault
		 WHERE user_id = $1
		 ORDER BY file_name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f := &models.File{}
		err := rows.Scan(&f.ID, &f.UserID, &f.FileName, &f.Nonce, &f.StorageKey,
			&f.PlaintextSize, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query :=
		`DELETE FROM file_vault
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

// Upsert writes a file row verbatim, keeping its original ID. Used by the
// restore flow.
func (r *PostgresRepository) Upsert(ctx context.Context, file *models.File) error {
	query :=
		`INSERT INTO file_vault (id, user_id, file_name, ciphertext, nonce, storage_key, file_size, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (id) DO UPDATE SET
		   file_name = EXCLUDED.file_name,
		   ciphertext = EXCLUDED.ciphertext,
		   nonce = EXCLUDED.nonce,
		   storage_key = EXCLUDED.storage_key,
		   file_size = EXCLUDED.file_size,
		   updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.UserID, file.FileName, file.Ciphertext, file.Nonce, file.StorageKey,
		file.PlaintextSize, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
