// Package services contains the vault business logic. Every mutating
// operation runs as one transaction covering the backup snapshot, the
// mutation itself and the audit entry, with bounded retry on transient
// database failures.
package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/dsavel/passvault/internal/blob"
	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/config"
	"github.com/dsavel/passvault/internal/dbx"
	"github.com/dsavel/passvault/internal/logging"
	"github.com/dsavel/passvault/internal/repositories/repomanager"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// txAttempts is the total number of tries for a transaction that keeps
// failing with transient errors.
const txAttempts = 3

// Vault is the façade over all vault operations. It owns the database
// handle, the repository factories and the optional blob store.
type Vault struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *config.Config
	log    logging.Logger
	blobs  blob.Store
	now    func() time.Time
}

// NewVault constructs the service façade. blobs may be nil, in which case
// file ciphertext stays in the database.
func NewVault(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, blobs blob.Store) *Vault {
	return &Vault{
		db:     db,
		repos:  repos,
		config: cfg,
		log:    log,
		blobs:  blobs,
		now:    time.Now,
	}
}

// runTx executes fn inside a transaction. Transient failures (connection
// errors, bad connections from the pool) are retried up to txAttempts times;
// a transaction that failed mid-flight is rolled back before the retry, so a
// retry never observes partial state. Non-transient errors fail immediately.
func (s *Vault) runTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	backoff := retry.WithMaxRetries(txAttempts-1, retry.NewConstant(100*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := dbx.WithTx(ctx, s.db, nil, fn)
		if err != nil && isTransient(err) {
			s.log.Warn(ctx, "retrying transaction after transient error", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// isTransient reports whether an error is worth retrying: network failures,
// connections the pool handed out already dead, and PostgreSQL class 08
// (connection exception) errors.
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return false
}

// mapStoreError translates database constraint violations into sentinel
// errors the caller can match on.
func mapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return common.ErrDuplicateIdentity
		}
		if strings.HasPrefix(pgErr.Code, "23") {
			return common.ErrIntegrity
		}
	}
	return err
}
