package backups

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

func (r *PostgresRepository) Create(ctx context.Context, entry *models.BackupEntry) error {
	query :=
		`INSERT INTO backup_logs (table_name, record_id, user_id, data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, backup_time
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.TableName, entry.RecordID, entry.UserID, entry.Data).Scan(&entry.ID, &entry.BackupTime)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.BackupEntry, error) {
	query :=
		`SELECT id, table_name, record_id, user_id, data, backup_time FROM backup_logs
		 WHERE id = $1
		 `

	entry := &models.BackupEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.TableName, &entry.RecordID, &entry.UserID, &entry.Data, &entry.BackupTime)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// List returns the snapshot history of one entity, most recent first. That
// order is the canonical one for restore selection.
func (r *PostgresRepository) List(ctx context.Context, userID int64, tableName string, recordID int64) ([]*models.BackupEntry, error) {
	query :=
		`SELECT id, table_name, record_id, user_id, data, backup_time FROM backup_logs
		 WHERE user_id = $1 AND table_name = $2 AND record_id = $3
		 ORDER BY backup_time DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, tableName, recordID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*models.BackupEntry, error) {
	query :=
		`SELECT id, table_name, record_id, user_id, data, backup_time FROM backup_logs
		 WHERE user_id = $1
		 ORDER BY backup_time DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*models.BackupEntry, error) {
	var result []*models.BackupEntry
	for rows.Next() {
		e := &models.BackupEntry{}
		err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &e.UserID, &e.Data, &e.BackupTime)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
