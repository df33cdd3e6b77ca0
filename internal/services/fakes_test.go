package services

// In-memory repository fakes for service tests. The sqlmock database only
// supplies Begin/Commit; all state lives in memStore, shared by every
// repository the fake manager vends, so a test can observe audit and backup
// side effects of an operation.

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/config"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/logging"
	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/repositories/accounts"
	"github.com/dsavel/passvault/internal/repositories/alerts"
	"github.com/dsavel/passvault/internal/repositories/audit"
	"github.com/dsavel/passvault/internal/repositories/backups"
	"github.com/dsavel/passvault/internal/repositories/devices"
	"github.com/dsavel/passvault/internal/repositories/files"
	"github.com/dsavel/passvault/internal/repositories/secrets"
	"github.com/dsavel/passvault/internal/repositories/shares"
	"github.com/jackc/pgx/v5/pgconn"
)

type memStore struct {
	nextID int64

	users    map[int64]*models.Account
	keys     map[int64]*models.AccountKey
	profiles map[int64]*models.Profile
	settings map[int64]*models.Settings
	prefs    map[int64]*models.Preferences

	secrets map[int64]*models.Secret
	files   map[int64]*models.File

	qrCodes    map[int64]*models.QRCode
	sharedPwds map[int64]*models.SharedPassword

	devices    map[int64]*models.ConnectedDevice
	accessLogs []*models.AccessLog

	alerts        map[int64]*models.ExpirationAlert
	notifications map[int64]*models.Notification

	auditEntries  []*models.AuditEntry
	backupEntries map[int64]*models.BackupEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[int64]*models.Account{},
		keys:          map[int64]*models.AccountKey{},
		profiles:      map[int64]*models.Profile{},
		settings:      map[int64]*models.Settings{},
		prefs:         map[int64]*models.Preferences{},
		secrets:       map[int64]*models.Secret{},
		files:         map[int64]*models.File{},
		qrCodes:       map[int64]*models.QRCode{},
		sharedPwds:    map[int64]*models.SharedPassword{},
		devices:       map[int64]*models.ConnectedDevice{},
		alerts:        map[int64]*models.ExpirationAlert{},
		notifications: map[int64]*models.Notification{},
		backupEntries: map[int64]*models.BackupEntry{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- accounts ---

type memAccounts struct{ s *memStore }

func (r *memAccounts) CreateUser(ctx context.Context, a *models.Account) (*models.Account, error) {
	for _, u := range r.s.users {
		if u.Username == a.Username || u.Email == a.Email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	a.ID = r.s.id()
	a.CreatedAt = time.Now()
	r.s.users[a.ID] = a
	return a, nil
}

func (r *memAccounts) GetUserByUsername(ctx context.Context, username string) (*models.Account, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) GetUserByID(ctx context.Context, id int64) (*models.Account, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memAccounts) CreateKey(ctx context.Context, k *models.AccountKey) error {
	r.s.keys[k.UserID] = k
	return nil
}

func (r *memAccounts) GetKey(ctx context.Context, userID int64) (*models.AccountKey, error) {
	if k, ok := r.s.keys[userID]; ok {
		return k, nil
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) UpdateKey(ctx context.Context, k *models.AccountKey) error {
	if _, ok := r.s.keys[k.UserID]; !ok {
		return common.ErrNotFound
	}
	r.s.keys[k.UserID] = k
	return nil
}

func (r *memAccounts) CreateProfile(ctx context.Context, p *models.Profile) error {
	r.s.profiles[p.UserID] = p
	return nil
}

func (r *memAccounts) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	if p, ok := r.s.profiles[userID]; ok {
		return p, nil
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) UpsertProfile(ctx context.Context, p *models.Profile) error {
	r.s.profiles[p.UserID] = p
	return nil
}

func (r *memAccounts) CreateSettings(ctx context.Context, st *models.Settings) error {
	r.s.settings[st.UserID] = st
	return nil
}

func (r *memAccounts) GetSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	if st, ok := r.s.settings[userID]; ok {
		return st, nil
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) UpsertSettings(ctx context.Context, st *models.Settings) error {
	r.s.settings[st.UserID] = st
	return nil
}

func (r *memAccounts) CreatePreferences(ctx context.Context, p *models.Preferences) error {
	r.s.prefs[p.UserID] = p
	return nil
}

func (r *memAccounts) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	if p, ok := r.s.prefs[userID]; ok {
		return p, nil
	}
	return nil, common.ErrNotFound
}

func (r *memAccounts) UpsertPreferences(ctx context.Context, p *models.Preferences) error {
	r.s.prefs[p.UserID] = p
	return nil
}

// --- secrets ---

type memSecrets struct{ s *memStore }

func (r *memSecrets) Create(ctx context.Context, sec *models.Secret) (*models.Secret, error) {
	sec.ID = r.s.id()
	sec.CreatedAt = time.Now()
	sec.UpdatedAt = sec.CreatedAt
	cp := *sec
	r.s.secrets[sec.ID] = &cp
	return sec, nil
}

func (r *memSecrets) GetByID(ctx context.Context, id, userID int64) (*models.Secret, error) {
	sec, ok := r.s.secrets[id]
	if !ok || sec.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *sec
	return &cp, nil
}

func (r *memSecrets) List(ctx context.Context, userID int64) ([]*models.Secret, error) {
	var out []*models.Secret
	for _, sec := range r.s.secrets {
		if sec.UserID == userID {
			out = append(out, sec)
		}
	}
	return out, nil
}

func (r *memSecrets) ListExpiring(ctx context.Context, userID int64) ([]*models.Secret, error) {
	var out []*models.Secret
	for _, sec := range r.s.secrets {
		if sec.UserID == userID && sec.ExpirationDate != nil {
			out = append(out, sec)
		}
	}
	return out, nil
}

func (r *memSecrets) Update(ctx context.Context, sec *models.Secret) error {
	old, ok := r.s.secrets[sec.ID]
	if !ok || old.UserID != sec.UserID {
		return common.ErrNotFound
	}
	cp := *sec
	r.s.secrets[sec.ID] = &cp
	return nil
}

func (r *memSecrets) Delete(ctx context.Context, id, userID int64) error {
	sec, ok := r.s.secrets[id]
	if !ok || sec.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.secrets, id)
	return nil
}

func (r *memSecrets) Upsert(ctx context.Context, sec *models.Secret) error {
	cp := *sec
	r.s.secrets[sec.ID] = &cp
	return nil
}

// --- files ---

type memFiles struct{ s *memStore }

func (r *memFiles) Create(ctx context.Context, f *models.File) (*models.File, error) {
	f.ID = r.s.id()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	cp := *f
	r.s.files[f.ID] = &cp
	return f, nil
}

func (r *memFiles) GetByID(ctx context.Context, id, userID int64) (*models.File, error) {
	f, ok := r.s.files[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memFiles) List(ctx context.Context, userID int64) ([]*models.File, error) {
	var out []*models.File
	for _, f := range r.s.files {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFiles) Delete(ctx context.Context, id, userID int64) error {
	f, ok := r.s.files[id]
	if !ok || f.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.files, id)
	return nil
}

func (r *memFiles) Upsert(ctx context.Context, f *models.File) error {
	cp := *f
	r.s.files[f.ID] = &cp
	return nil
}

// --- shares ---

type memShares struct{ s *memStore }

func (r *memShares) CreateQRCode(ctx context.Context, qr *models.QRCode) (*models.QRCode, error) {
	qr.ID = r.s.id()
	qr.CreatedAt = time.Now()
	qr.UpdatedAt = qr.CreatedAt
	cp := *qr
	r.s.qrCodes[qr.ID] = &cp
	return qr, nil
}

func (r *memShares) ListQRCodes(ctx context.Context, userID int64) ([]*models.QRCode, error) {
	var out []*models.QRCode
	for _, qr := range r.s.qrCodes {
		if qr.UserID == userID {
			out = append(out, qr)
		}
	}
	return out, nil
}

func (r *memShares) DeleteQRCode(ctx context.Context, id, userID int64) error {
	qr, ok := r.s.qrCodes[id]
	if !ok || qr.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.qrCodes, id)
	return nil
}

func (r *memShares) UpsertQRCode(ctx context.Context, qr *models.QRCode) error {
	cp := *qr
	r.s.qrCodes[qr.ID] = &cp
	return nil
}

func (r *memShares) CreateShare(ctx context.Context, sh *models.SharedPassword) (*models.SharedPassword, error) {
	sh.ID = r.s.id()
	sh.CreatedAt = time.Now()
	sh.UpdatedAt = sh.CreatedAt
	cp := *sh
	r.s.sharedPwds[sh.ID] = &cp
	return sh, nil
}

func (r *memShares) ListShares(ctx context.Context, userID int64) ([]*models.SharedPassword, error) {
	var out []*models.SharedPassword
	for _, sh := range r.s.sharedPwds {
		if sh.UserID == userID {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (r *memShares) UpdateShareStatus(ctx context.Context, id, userID int64, status string) error {
	sh, ok := r.s.sharedPwds[id]
	if !ok || sh.UserID != userID {
		return common.ErrNotFound
	}
	sh.ShareStatus = status
	return nil
}

func (r *memShares) DeleteShare(ctx context.Context, id, userID int64) error {
	sh, ok := r.s.sharedPwds[id]
	if !ok || sh.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.sharedPwds, id)
	return nil
}

func (r *memShares) UpsertShare(ctx context.Context, sh *models.SharedPassword) error {
	cp := *sh
	r.s.sharedPwds[sh.ID] = &cp
	return nil
}

// --- devices ---

type memDevices struct{ s *memStore }

func (r *memDevices) CreateDevice(ctx context.Context, d *models.ConnectedDevice) (*models.ConnectedDevice, error) {
	d.ID = r.s.id()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	d.LastSeen = d.CreatedAt
	cp := *d
	r.s.devices[d.ID] = &cp
	return d, nil
}

func (r *memDevices) ListDevices(ctx context.Context, userID int64) ([]*models.ConnectedDevice, error) {
	var out []*models.ConnectedDevice
	for _, d := range r.s.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDevices) UpdateDeviceStatus(ctx context.Context, id, userID int64, status string) error {
	d, ok := r.s.devices[id]
	if !ok || d.UserID != userID {
		return common.ErrNotFound
	}
	d.Status = status
	return nil
}

func (r *memDevices) TouchDevice(ctx context.Context, userID int64, deviceName string) error {
	for _, d := range r.s.devices {
		if d.UserID == userID && d.DeviceName == deviceName {
			d.LastSeen = time.Now()
		}
	}
	return nil
}

func (r *memDevices) DeleteDevice(ctx context.Context, id, userID int64) error {
	d, ok := r.s.devices[id]
	if !ok || d.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.devices, id)
	return nil
}

func (r *memDevices) UpsertDevice(ctx context.Context, d *models.ConnectedDevice) error {
	cp := *d
	r.s.devices[d.ID] = &cp
	return nil
}

func (r *memDevices) CreateAccessLog(ctx context.Context, l *models.AccessLog) error {
	l.ID = r.s.id()
	l.AccessTime = time.Now()
	r.s.accessLogs = append(r.s.accessLogs, l)
	return nil
}

func (r *memDevices) ListAccessLogs(ctx context.Context, userID int64, limit int) ([]*models.AccessLog, error) {
	var out []*models.AccessLog
	for _, l := range r.s.accessLogs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- alerts ---

type memAlerts struct{ s *memStore }

func (r *memAlerts) DeleteAllForUser(ctx context.Context, userID int64) error {
	for id, a := range r.s.alerts {
		if a.UserID == userID {
			delete(r.s.alerts, id)
		}
	}
	return nil
}

func (r *memAlerts) Create(ctx context.Context, a *models.ExpirationAlert) (*models.ExpirationAlert, error) {
	a.ID = r.s.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.s.alerts[a.ID] = &cp
	return a, nil
}

func (r *memAlerts) List(ctx context.Context, userID int64) ([]*models.ExpirationAlert, error) {
	var out []*models.ExpirationAlert
	for _, a := range r.s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAlerts) Delete(ctx context.Context, id, userID int64) error {
	a, ok := r.s.alerts[id]
	if !ok || a.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.alerts, id)
	return nil
}

func (r *memAlerts) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = r.s.id()
	n.CreatedAt = time.Now()
	cp := *n
	r.s.notifications[n.ID] = &cp
	return nil
}

func (r *memAlerts) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memAlerts) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return common.ErrNotFound
	}
	n.IsRead = true
	return nil
}

// --- audit ---

type memAudit struct{ s *memStore }

func (r *memAudit) Create(ctx context.Context, e *models.AuditEntry) error {
	e.ID = r.s.id()
	e.Timestamp = time.Now()
	cp := *e
	r.s.auditEntries = append(r.s.auditEntries, &cp)
	return nil
}

func (r *memAudit) List(ctx context.Context, f audit.Filter) ([]*models.AuditEntry, error) {
	var out []*models.AuditEntry
	for _, e := range r.s.auditEntries {
		if f.UserID != 0 && e.UserID != f.UserID {
			continue
		}
		if f.TableName != "" && e.TableName != f.TableName {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memAudit) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	var kept []*models.AuditEntry
	var deleted int64
	for _, e := range r.s.auditEntries {
		if e.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.s.auditEntries = kept
	return deleted, nil
}

// --- backups ---

type memBackups struct{ s *memStore }

func (r *memBackups) Create(ctx context.Context, e *models.BackupEntry) error {
	e.ID = r.s.id()
	e.BackupTime = time.Now()
	cp := *e
	r.s.backupEntries[e.ID] = &cp
	return nil
}

func (r *memBackups) GetByID(ctx context.Context, id int64) (*models.BackupEntry, error) {
	if e, ok := r.s.backupEntries[id]; ok {
		return e, nil
	}
	return nil, common.ErrNotFound
}

func (r *memBackups) List(ctx context.Context, userID int64, tableName string, recordID int64) ([]*models.BackupEntry, error) {
	var out []*models.BackupEntry
	for _, e := range r.s.backupEntries {
		if e.UserID == userID && e.TableName == tableName && e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memBackups) ListRecent(ctx context.Context, userID int64, limit int) ([]*models.BackupEntry, error) {
	var out []*models.BackupEntry
	for _, e := range r.s.backupEntries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- manager ---

type fakeManager struct{ s *memStore }

func (m *fakeManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeManager) Accounts(db dbx.DBTX) accounts.Repository           { return &memAccounts{m.s} }
func (m *fakeManager) Secrets(db dbx.DBTX) secrets.Repository             { return &memSecrets{m.s} }
func (m *fakeManager) Files(db dbx.DBTX) files.Repository                 { return &memFiles{m.s} }
func (m *fakeManager) Shares(db dbx.DBTX) shares.Repository               { return &memShares{m.s} }
func (m *fakeManager) Devices(db dbx.DBTX) devices.Repository             { return &memDevices{m.s} }
func (m *fakeManager) Alerts(db dbx.DBTX) alerts.Repository               { return &memAlerts{m.s} }
func (m *fakeManager) Audit(db dbx.DBTX) audit.Repository                 { return &memAudit{m.s} }
func (m *fakeManager) Backups(db dbx.DBTX) backups.Repository             { return &memBackups{m.s} }

// --- vault construction helpers ---

type noopLogger struct{}

func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l noopLogger) With(args ...any) logging.Logger                  { return l }

func newTestVault(t *testing.T) (*Vault, *memStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	cfg := &config.Config{SecretKey: "test-secret", SessionTTL: time.Minute}

	v := NewVault(db, &fakeManager{store}, cfg, noopLogger{}, nil)
	return v, store, mock
}

// expectTx queues one successful Begin/Commit pair.
func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}
