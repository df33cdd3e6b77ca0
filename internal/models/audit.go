package models

import "time"

// Audit actions.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditEntry is one immutable record in the system-wide change ledger. It is
// appended in the same transaction as the mutation it describes and is never
// modified afterwards. ChangeDetails is a JSON object: field diffs
// (old_x/new_x pairs) for updates, a snapshot of the logical fields for
// inserts and deletes. Secret values never appear in details.
type AuditEntry struct {
	ID            int64     `json:"id"`
	TableName     string    `json:"table_name"`
	Action        string    `json:"action"`
	RecordID      int64     `json:"record_id"`
	UserID        int64     `json:"user_id"`
	ChangeDetails []byte    `json:"change_details"`
	Timestamp     time.Time `json:"timestamp"`
}

// BackupEntry is an append-only snapshot of an entity's pre-mutation state,
// serialized as JSON. Multiple entries per entity form its history;
// most-recent-first is the canonical order for restore selection.
type BackupEntry struct {
	ID         int64     `json:"id"`
	TableName  string    `json:"table_name"`
	RecordID   int64     `json:"record_id"`
	UserID     int64     `json:"user_id"`
	Data       []byte    `json:"data"`
	BackupTime time.Time `json:"backup_time"`
}

// Entity table names used by the audit/backup subsystem.
const (
	TableUsers           = "users"
	TableProfiles        = "user_profiles"
	TableSettings        = "user_settings"
	TablePreferences     = "user_preferences"
	TablePasswords       = "passwords"
	TableFileVault       = "file_vault"
	TableQRCodes         = "qr_codes"
	TableSharedPasswords = "shared_passwords"
	TableDevices         = "connected_devices"
	TableAccessLogs      = "access_logs"
	TableAlerts          = "expiration_alerts"
)
