package repomanager

import (
	"context"
	"database/sql"

	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/repositories/accounts"
	"github.com/dsavel/passvault/internal/repositories/alerts"
	"github.com/dsavel/passvault/internal/repositories/audit"
	"github.com/dsavel/passvault/internal/repositories/backups"
	"github.com/dsavel/passvault/internal/repositories/devices"
	"github.com/dsavel/passvault/internal/repositories/files"
	"github.com/dsavel/passvault/internal/repositories/secrets"
	"github.com/dsavel/passvault/internal/repositories/shares"
)

// RepositoryManager vends repositories bound to a DBTX, so one set of
// repository code serves both plain connections and open transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	Files(db dbx.DBTX) files.Repository
	Shares(db dbx.DBTX) shares.Repository
	Devices(db dbx.DBTX) devices.Repository
	Alerts(db dbx.DBTX) alerts.Repository
	Audit(db dbx.DBTX) audit.Repository
	Backups(db dbx.DBTX) backups.Repository
}
