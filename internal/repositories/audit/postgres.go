package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	query :=
		`INSERT INTO audit_logs (table_name, action, record_id, user_id, change_details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, action_timestamp
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.TableName, entry.Action, entry.RecordID, entry.UserID, entry.ChangeDetails).
		Scan(&entry.ID, &entry.Timestamp)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// List returns ledger entries matching the filter, newest first. The WHERE
// clause is assembled from positional placeholders only; filter values never
// reach the SQL text.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*models.AuditEntry, error) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != 0 {
		add("user_id = $%d", filter.UserID)
	}
	if filter.TableName != "" {
		add("table_name = $%d", filter.TableName)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if !filter.Since.IsZero() {
		add("action_timestamp >= $%d", filter.Since)
	}
	if !filter.Until.IsZero() {
		add("action_timestamp <= $%d", filter.Until)
	}

	query := `SELECT id, table_name, action, record_id, user_id, change_details, action_timestamp
		 FROM audit_logs`
	if len(conds) > 0 {
		query += "\n\t\t WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\t ORDER BY action_timestamp DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf("\n\t\t LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		err := rows.Scan(&e.ID, &e.TableName, &e.Action, &e.RecordID, &e.UserID, &e.ChangeDetails, &e.Timestamp)
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

// DeleteAllForUser clears the owner's ledger entries and reports how many
// were removed.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	query :=
		`DELETE FROM audit_logs
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
