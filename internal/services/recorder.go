package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/models"
)

// recordInsert appends an INSERT audit entry whose details are a snapshot of
// the entity's loggable fields. Fields tagged json:"-" (secret material)
// never reach the ledger.
func (s *Vault) recordInsert(ctx context.Context, tx dbx.DBTX, table string, recordID, userID int64, entity any) error {
	details, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	return s.repos.Audit(tx).Create(ctx, &models.AuditEntry{
		TableName:     table,
		Action:        models.ActionInsert,
		RecordID:      recordID,
		UserID:        userID,
		ChangeDetails: details,
	})
}

// recordUpdate appends an UPDATE audit entry whose details hold old_x/new_x
// pairs for each changed field. Changed fields that are excluded from
// serialization (secret material) cannot appear in the diff; name them in
// hidden so the ledger still describes the change.
func (s *Vault) recordUpdate(ctx context.Context, tx dbx.DBTX, table string, recordID, userID int64, oldEntity, newEntity any, hidden ...string) error {
	diff, err := diffFields(oldEntity, newEntity)
	if err != nil {
		return fmt.Errorf("diff audit details: %w", err)
	}
	if len(hidden) > 0 {
		diff["changed"] = strings.Join(hidden, ",")
	}
	details, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	return s.repos.Audit(tx).Create(ctx, &models.AuditEntry{
		TableName:     table,
		Action:        models.ActionUpdate,
		RecordID:      recordID,
		UserID:        userID,
		ChangeDetails: details,
	})
}

// recordDelete appends a DELETE audit entry with a snapshot of what was
// removed.
func (s *Vault) recordDelete(ctx context.Context, tx dbx.DBTX, table string, recordID, userID int64, entity any) error {
	details, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	return s.repos.Audit(tx).Create(ctx, &models.AuditEntry{
		TableName:     table,
		Action:        models.ActionDelete,
		RecordID:      recordID,
		UserID:        userID,
		ChangeDetails: details,
	})
}

// backupSnapshot appends the entity's pre-mutation state to the snapshot
// store, stamped with the owning account. Runs in the same transaction as
// the mutation: if either fails the whole operation rolls back.
func (s *Vault) backupSnapshot(ctx context.Context, tx dbx.DBTX, table string, recordID, userID int64, entity any) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal backup snapshot: %w", err)
	}
	return s.repos.Backups(tx).Create(ctx, &models.BackupEntry{
		TableName: table,
		RecordID:  recordID,
		UserID:    userID,
		Data:      data,
	})
}

// diffFields builds the old_x/new_x map for an update audit entry. Both
// entities are flattened through their JSON representations; keys whose
// values are equal are omitted.
func diffFields(oldEntity, newEntity any) (map[string]any, error) {
	oldMap, err := toMap(oldEntity)
	if err != nil {
		return nil, err
	}
	newMap, err := toMap(newEntity)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(oldMap))
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	diff := make(map[string]any)
	for _, k := range sorted {
		oldVal, newVal := oldMap[k], newMap[k]
		if reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		diff["old_"+k] = oldVal
		diff["new_"+k] = newVal
	}

	return diff, nil
}

func toMap(entity any) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
